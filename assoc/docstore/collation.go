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

import "fmt"

/*
maxKeyMarker is the type of the MaxKey sentinel.
*/
type maxKeyMarker struct{}

/*
String returns a string representation of the sentinel.
*/
func (m *maxKeyMarker) String() string {
	return "<max>"
}

/*
MaxKey is a sentinel value which sorts after every real value in the
store's collation. Appending it to a key prefix yields the inclusive
upper bound of a prefix range scan.
*/
var MaxKey = &maxKeyMarker{}

// Collation type classes - values of a lower class always sort before
// values of a higher class.

const (
	collationNull = iota
	collationBool
	collationNumber
	collationString
	collationSequence
	collationMapping
	collationMax
)

/*
collationClass returns the type class of a given value.
*/
func collationClass(val interface{}) int {

	if val == nil {
		return collationNull
	}

	switch val.(type) {
	case bool:
		return collationBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32,
		uint64, float32, float64:
		return collationNumber
	case string:
		return collationString
	case []interface{}, []string:
		return collationSequence
	case map[string]interface{}:
		return collationMapping
	case *maxKeyMarker:
		return collationMax
	}

	// Unknown values are compared through their string representation

	return collationString
}

/*
numberValue converts any numeric value to a float for comparison.
*/
func numberValue(val interface{}) float64 {
	switch v := val.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	}
	return val.(float64)
}

/*
sequenceValue normalises a sequence value to a slice of interface{}.
*/
func sequenceValue(val interface{}) []interface{} {
	if s, ok := val.([]interface{}); ok {
		return s
	}

	strs := val.([]string)
	ret := make([]interface{}, len(strs))
	for i, s := range strs {
		ret[i] = s
	}

	return ret
}

/*
CompareKeys compares two view keys according to the store's collation:
nil sorts before booleans, booleans before numbers, numbers before
strings, strings before sequences and sequences before mappings.
Sequences are compared pairwise with missing elements sorting first.
The MaxKey sentinel sorts after everything. Returns a negative number
if a sorts before b, 0 if both are equal and a positive number if a
sorts after b.
*/
func CompareKeys(a interface{}, b interface{}) int {
	ca := collationClass(a)
	cb := collationClass(b)

	if ca != cb {
		return ca - cb
	}

	switch ca {

	case collationNull, collationMax:
		return 0

	case collationBool:
		ab := a.(bool)
		bb := b.(bool)
		if ab == bb {
			return 0
		} else if !ab {
			return -1
		}
		return 1

	case collationNumber:
		an := numberValue(a)
		bn := numberValue(b)
		if an < bn {
			return -1
		} else if an > bn {
			return 1
		}
		return 0

	case collationString:
		as := fmt.Sprint(a)
		bs := fmt.Sprint(b)
		if as < bs {
			return -1
		} else if as > bs {
			return 1
		}
		return 0

	case collationSequence:
		as := sequenceValue(a)
		bs := sequenceValue(b)

		for i := 0; i < len(as) && i < len(bs); i++ {
			if res := CompareKeys(as[i], bs[i]); res != 0 {
				return res
			}
		}

		return len(as) - len(bs)
	}

	// Mappings have no defined internal order - compare their size only

	return len(a.(map[string]interface{})) - len(b.(map[string]interface{}))
}

/*
PrefixEndKey returns the inclusive upper bound for a prefix range scan
over a given key prefix. The prefix itself is not modified.
*/
func PrefixEndKey(prefix []interface{}) []interface{} {
	end := make([]interface{}, len(prefix), len(prefix)+1)
	copy(end, prefix)

	return append(end, MaxKey)
}
