/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package docstore

import "testing"

func TestCollationClasses(t *testing.T) {

	// Values of a lower type class always sort before values of a
	// higher type class

	ordered := []interface{}{
		nil,
		false,
		true,
		1,
		2.5,
		"a",
		"b",
		[]interface{}{"a"},
		map[string]interface{}{"a": 1},
		MaxKey,
	}

	for i := 0; i < len(ordered)-1; i++ {
		if res := CompareKeys(ordered[i], ordered[i+1]); res > 0 {
			t.Error("Unexpected order at:", i, ordered[i], ordered[i+1])
			return
		}
	}

	if res := CompareKeys(MaxKey, "zzzz"); res <= 0 {
		t.Error("MaxKey should sort after strings:", res)
		return
	}

	if res := CompareKeys(MaxKey, MaxKey); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys(nil, nil); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestCompareKeys(t *testing.T) {

	if res := CompareKeys(int64(2), 2.0); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys(uint16(1), 2); res >= 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys(float32(3), 2); res <= 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys(true, false); res <= 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys("abc", "abc"); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	// Sequences are compared pairwise - a shorter sequence which is a
	// prefix of a longer one sorts first

	if res := CompareKeys([]interface{}{"a", "b"}, []interface{}{"a", "b", "c"}); res >= 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys([]interface{}{"a", "c"}, []interface{}{"a", "b", "c"}); res <= 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys([]string{"a", "b"}, []interface{}{"a", "b"}); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := CompareKeys(map[string]interface{}{"a": 1},
		map[string]interface{}{"a": 1, "b": 2}); res >= 0 {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestPrefixEndKey(t *testing.T) {
	prefix := []interface{}{"InstrumentDevice"}

	end := PrefixEndKey(prefix)

	if len(end) != 2 || end[0] != "InstrumentDevice" || end[1] != MaxKey {
		t.Error("Unexpected result:", end)
		return
	}

	// The prefix itself is not modified

	if len(prefix) != 1 {
		t.Error("Unexpected result:", prefix)
		return
	}

	// Every key extending the prefix falls into the range

	key := []interface{}{"InstrumentDevice", "sensor1"}

	if CompareKeys(key, prefix) < 0 || CompareKeys(key, end) > 0 {
		t.Error("Key should be within the prefix range")
		return
	}

	// Keys of a different prefix do not

	other := []interface{}{"PlatformDevice", "sensor1"}

	if CompareKeys(other, prefix) >= 0 && CompareKeys(other, end) <= 0 {
		t.Error("Key should be outside the prefix range")
		return
	}
}
