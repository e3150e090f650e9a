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
	"errors"
	"testing"

	"github.com/ateranishi/assocdb/assoc/util"
)

func TestMemoryDocStorePut(t *testing.T) {
	mds := NewMemoryDocStore("test")

	if res := mds.Name(); res != "test" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, _, err := mds.Put(nil, ""); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}

	// Store a document with a suggested id

	id, rev, err := mds.Put(map[string]interface{}{"name": "test1"}, "doc1")

	if err != nil || id != "doc1" || rev == "" {
		t.Error("Unexpected result:", id, rev, err)
		return
	}

	// A store without any id produces a generated one

	id2, _, err := mds.Put(map[string]interface{}{"name": "test2"}, "")

	if err != nil || id2 == "" || id2 == "doc1" {
		t.Error("Unexpected result:", id2, err)
		return
	}

	// Creating an existing document again is an error

	if _, _, err := mds.Put(map[string]interface{}{"_id": "doc1"}, ""); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}

	// Updates must present the current revision

	if _, _, err := mds.Put(map[string]interface{}{"_id": "doc1", "_rev": "bogus"}, ""); !util.IsConflict(err) {
		t.Error("Unexpected result:", err)
		return
	}

	_, rev2, err := mds.Put(map[string]interface{}{"_id": "doc1", "_rev": rev,
		"name": "test1b"}, "")

	if err != nil || rev2 == rev {
		t.Error("Unexpected result:", rev2, err)
		return
	}

	// A revision on an unknown document is an error

	if _, _, err := mds.Put(map[string]interface{}{"_id": "doc9", "_rev": "1-x"}, ""); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}

	doc, err := mds.Get("doc1", "")

	if err != nil || doc["name"] != "test1b" || doc["_rev"] != rev2 {
		t.Error("Unexpected result:", doc, err)
		return
	}

	// Only the head revision can be fetched

	if _, err := mds.Get("doc1", rev); !util.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := mds.Get("missing", ""); !util.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}

	// The stored document is decoupled from the given map

	doc["name"] = "changed"

	doc2, _ := mds.Get("doc1", "")

	if doc2["name"] != "test1b" {
		t.Error("Unexpected result:", doc2)
		return
	}
}

func TestMemoryDocStoreBulk(t *testing.T) {
	mds := NewMemoryDocStore("test")

	if _, err := mds.PutMany([]map[string]interface{}{{"a": 1}}, []string{"1", "2"}); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}

	res, err := mds.PutMany([]map[string]interface{}{
		{"name": "bulk1"},
		{"name": "bulk2"},
		{"_id": "bulk1", "_rev": "bogus"},
	}, []string{"bulk1", "bulk2", ""})

	if err != nil || len(res) != 3 {
		t.Error("Unexpected result:", res, err)
		return
	}

	if !res[0].OK || !res[1].OK || res[2].OK {
		t.Error("Unexpected result:", res)
		return
	}

	if res[0].ID != "bulk1" || res[1].ID != "bulk2" {
		t.Error("Unexpected result:", res)
		return
	}

	if !util.IsConflict(res[2].Err) {
		t.Error("Unexpected result:", res[2].Err)
		return
	}

	docs, err := mds.GetMany([]string{"bulk1", "bulk2"})

	if err != nil || len(docs) != 2 || docs[0]["name"] != "bulk1" {
		t.Error("Unexpected result:", docs, err)
		return
	}

	// All requested documents must exist

	if _, err := mds.GetMany([]string{"bulk1", "missing1", "missing2"}); err == nil ||
		err.Error() != "AssocDB: Object not found (Documents do not exist: missing1, missing2)" {
		t.Error("Unexpected result:", err)
		return
	}

	dres, err := mds.DeleteMany([]string{"bulk1", "missing", "bulk2"})

	if err != nil || len(dres) != 3 {
		t.Error("Unexpected result:", dres, err)
		return
	}

	if !dres[0].OK || dres[1].OK || !dres[2].OK {
		t.Error("Unexpected result:", dres)
		return
	}
}

func TestMemoryDocStoreDelete(t *testing.T) {
	mds := NewMemoryDocStore("test")

	_, rev, _ := mds.Put(map[string]interface{}{"name": "test1"}, "doc1")

	if err := mds.Delete("missing", ""); !util.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}

	if err := mds.Delete("doc1", "bogus"); !util.IsConflict(err) {
		t.Error("Unexpected result:", err)
		return
	}

	if err := mds.Delete("doc1", rev); err != nil {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := mds.Get("doc1", ""); !util.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}

	// A recreated document does not reuse old revisions

	_, rev2, err := mds.Put(map[string]interface{}{"name": "test1c"}, "doc1")

	if err != nil || rev2 == rev {
		t.Error("Unexpected result:", rev2, err)
		return
	}
}

func testViewStore() *MemoryDocStore {
	mds := NewMemoryDocStore("test")

	mds.DefineViews("main", []View{
		{Name: "by_name", Map: func(doc map[string]interface{}, emit EmitFunc) {
			if name, ok := doc["name"]; ok {
				emit([]interface{}{name}, doc["val"])
			}
		}},
	})

	mds.Put(map[string]interface{}{"name": "charlie", "val": 3}, "d3")
	mds.Put(map[string]interface{}{"name": "alpha", "val": 1}, "d1")
	mds.Put(map[string]interface{}{"name": "bravo", "val": 2}, "d2")
	mds.Put(map[string]interface{}{"other": true}, "d4")

	return mds
}

func TestMemoryDocStoreQueryIndex(t *testing.T) {
	mds := testViewStore()

	if _, err := mds.QueryIndex("main", "missing", nil); err == nil ||
		err.Error() != "AssocDB: Invalid request (Unknown index: main/missing)" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := mds.QueryIndex("missing", "by_name", nil); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}

	// Rows are returned in collation order of their keys

	rows, err := mds.QueryIndex("main", "by_name", nil)

	if err != nil || len(rows) != 3 {
		t.Error("Unexpected result:", rows, err)
		return
	}

	if rows[0].ID != "d1" || rows[1].ID != "d2" || rows[2].ID != "d3" {
		t.Error("Unexpected order:", rows)
		return
	}

	if rows[0].Value != 1 {
		t.Error("Unexpected result:", rows[0])
		return
	}

	// Range queries are inclusive prefix scans

	key := []interface{}{"bravo"}

	rows, _ = mds.QueryIndex("main", "by_name", &Options{
		StartKey: key,
		EndKey:   PrefixEndKey(key),
	})

	if len(rows) != 1 || rows[0].ID != "d2" {
		t.Error("Unexpected result:", rows)
		return
	}

	// Exact key lookups return rows in the order of the key list

	rows, _ = mds.QueryIndex("main", "by_name", &Options{
		Keys: []interface{}{
			[]interface{}{"charlie"},
			[]interface{}{"alpha"},
		},
	})

	if len(rows) != 2 || rows[0].ID != "d3" || rows[1].ID != "d1" {
		t.Error("Unexpected result:", rows)
		return
	}

	// Descending, skip and limit

	rows, _ = mds.QueryIndex("main", "by_name", &Options{Descending: true})

	if len(rows) != 3 || rows[0].ID != "d3" || rows[2].ID != "d1" {
		t.Error("Unexpected result:", rows)
		return
	}

	rows, _ = mds.QueryIndex("main", "by_name", &Options{Skip: 1, Limit: 1})

	if len(rows) != 1 || rows[0].ID != "d2" {
		t.Error("Unexpected result:", rows)
		return
	}

	rows, _ = mds.QueryIndex("main", "by_name", &Options{Skip: 10})

	if len(rows) != 0 {
		t.Error("Unexpected result:", rows)
		return
	}

	// Documents are attached on request

	rows, _ = mds.QueryIndex("main", "by_name", &Options{IncludeDocs: true, Limit: 1})

	if len(rows) != 1 || rows[0].Doc == nil || rows[0].Doc["name"] != "alpha" {
		t.Error("Unexpected result:", rows)
		return
	}
}

func TestMemoryDocStoreResultCache(t *testing.T) {
	mds := testViewStore()

	mds.EnableResultCache(0, 0)

	rows, err := mds.QueryIndex("main", "by_name", nil)

	if err != nil || len(rows) != 3 {
		t.Error("Unexpected result:", rows, err)
		return
	}

	if _, ok := mds.cache.Get("main/by_name"); !ok {
		t.Error("View rows should have been cached")
		return
	}

	// Cached rows are served and can be safely reordered

	rows, _ = mds.QueryIndex("main", "by_name", &Options{Descending: true})

	if len(rows) != 3 || rows[0].ID != "d3" {
		t.Error("Unexpected result:", rows)
		return
	}

	rows, _ = mds.QueryIndex("main", "by_name", nil)

	if len(rows) != 3 || rows[0].ID != "d1" {
		t.Error("Unexpected result:", rows)
		return
	}

	// Writes drop the cached rows

	mds.Put(map[string]interface{}{"name": "delta", "val": 4}, "d5")

	if _, ok := mds.cache.Get("main/by_name"); ok {
		t.Error("Cache should have been invalidated")
		return
	}

	rows, _ = mds.QueryIndex("main", "by_name", nil)

	if len(rows) != 4 {
		t.Error("Unexpected result:", rows)
		return
	}
}

func TestMemoryDocStoreMisc(t *testing.T) {
	mds := NewMemoryDocStore("test1")

	mds.Put(map[string]interface{}{"a": 1}, "d1")

	if res := mds.String(); res != "MemoryDocStore: test1 (1 document)" {
		t.Error("Unexpected result:", res)
		return
	}

	mds.Put(map[string]interface{}{"a": 2}, "d2")

	if res := mds.String(); res != "MemoryDocStore: test1 (2 documents)" {
		t.Error("Unexpected result:", res)
		return
	}

	if err := mds.Close(); err != nil {
		t.Error("Unexpected result:", err)
		return
	}

	MdsRetClose = errors.New("testerror")

	if err := mds.Close(); err == nil {
		t.Error("Close should have returned an error")
		return
	}

	MdsRetClose = nil
}
