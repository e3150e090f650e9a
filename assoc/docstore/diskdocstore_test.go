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

import (
	"flag"
	"os"
	"testing"

	"devt.de/krotik/common/fileutil"
)

const testDBDir = "docstoretest"

const invalidFileName = "**" + "\x00"

func TestMain(m *testing.M) {
	flag.Parse()

	// Setup

	if res, _ := fileutil.PathExists(testDBDir); res {
		os.RemoveAll(testDBDir)
	}

	// Run the tests

	res := m.Run()

	// Teardown

	if res, _ := fileutil.PathExists(testDBDir); res {
		os.RemoveAll(testDBDir)
	}

	os.Exit(res)
}

func TestDiskDocStore(t *testing.T) {

	if _, err := NewDiskDocStore(invalidFileName); err == nil {
		t.Error("Invalid directory name should cause an error")
		return
	}

	dds, err := NewDiskDocStore(testDBDir)

	if err != nil {
		t.Error(err)
		return
	}

	id, rev, err := dds.Put(map[string]interface{}{"name": "disk1"}, "doc1")

	if err != nil || id != "doc1" {
		t.Error("Unexpected result:", id, rev, err)
		return
	}

	res, err := dds.PutMany([]map[string]interface{}{
		{"name": "disk2"},
		{"name": "disk3"},
	}, []string{"doc2", "doc3"})

	if err != nil || len(res) != 2 || !res[0].OK || !res[1].OK {
		t.Error("Unexpected result:", res, err)
		return
	}

	if err := dds.Delete("doc3", ""); err != nil {
		t.Error(err)
		return
	}

	dres, err := dds.DeleteMany([]string{"doc2"})

	if err != nil || len(dres) != 1 || !dres[0].OK {
		t.Error("Unexpected result:", dres, err)
		return
	}

	if err := dds.Close(); err != nil {
		t.Error(err)
		return
	}

	// Reopen the store - the document data survives with its revisions

	dds2, err := NewDiskDocStore(testDBDir)

	if err != nil {
		t.Error(err)
		return
	}
	defer dds2.Close()

	doc, err := dds2.Get("doc1", "")

	if err != nil || doc["name"] != "disk1" || doc["_rev"] != rev {
		t.Error("Unexpected result:", doc, err)
		return
	}

	if _, err := dds2.Get("doc3", ""); err == nil {
		t.Error("Deleted document should not survive a reopen")
		return
	}

	// Updating the reopened document continues the revision sequence

	_, rev2, err := dds2.Put(map[string]interface{}{"_id": "doc1", "_rev": rev,
		"name": "disk1b"}, "")

	if err != nil || rev2 == rev {
		t.Error("Unexpected result:", rev2, err)
		return
	}

	if seq := revSequence(rev2); seq != 2 {
		t.Error("Unexpected result:", seq)
		return
	}
}
