/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Document store which stores its data in memory only.
*/
package docstore

import (
	"encoding/gob"
	"fmt"
	"sort"
	"strings"
	"sync"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/stringutil"

	"github.com/ateranishi/assocdb/assoc/util"
)

/*
Return values for Close calls (used by unit tests)
*/
var MdsRetClose error

func init() {

	// Make sure we can use the relevant types in a gob operation

	gob.Register(make(map[string]interface{}))
	gob.Register(make([]interface{}, 0))
	gob.Register(make([]string, 0))
}

/*
MemoryDocStore data structure
*/
type MemoryDocStore struct {
	name         string                            // Name of the document store
	mutex        *sync.RWMutex                     // Mutex to protect store operations
	docs         map[string]map[string]interface{} // Map of all documents
	seqs         map[string]int                    // Revision sequence numbers
	views        map[string][]View                 // Map of design name to views
	cache        *datautil.MapCache                // Cache for materialized view rows
	cacheMaxSize uint64                            // Maximum size of the result cache
	cacheMaxAge  int64                             // Maximum age of cached results
}

/*
NewMemoryDocStore creates a new MemoryDocStore instance.
*/
func NewMemoryDocStore(name string) *MemoryDocStore {
	return &MemoryDocStore{name, &sync.RWMutex{},
		make(map[string]map[string]interface{}), make(map[string]int),
		make(map[string][]View), nil, 0, 0}
}

/*
EnableResultCache enables the cache for materialized view rows. Cached
rows are dropped on every write - the cache pays off for read-heavy
stores. A maxsize or maxage of 0 means no limit.
*/
func (mds *MemoryDocStore) EnableResultCache(maxsize uint64, maxage int64) {
	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	mds.cacheMaxSize = maxsize
	mds.cacheMaxAge = maxage
	mds.cache = datautil.NewMapCache(maxsize, maxage)
}

/*
Name returns the name of the MemoryDocStore instance.
*/
func (mds *MemoryDocStore) Name() string {
	return mds.name
}

/*
Put creates or updates a single document.
*/
func (mds *MemoryDocStore) Put(doc map[string]interface{}, objectID string) (string, string, error) {
	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	return mds.put(doc, objectID)
}

/*
put is the lock-free version of Put.
*/
func (mds *MemoryDocStore) put(doc map[string]interface{}, objectID string) (string, string, error) {
	var toStore map[string]interface{}

	if doc == nil {
		return "", "", &util.Error{Type: util.ErrBadRequest, Detail: "Doc must not be nil"}
	}

	if err := datautil.CopyObject(doc, &toStore); err != nil {
		return "", "", &util.Error{Type: util.ErrInvalidData, Detail: err.Error()}
	}

	// Assign an id to the document

	id, _ := toStore["_id"].(string)

	if id == "" {
		if objectID != "" {
			id = objectID
		} else {
			id = fmt.Sprintf("%x", cryptutil.GenerateUUID())
		}
		toStore["_id"] = id
	}

	rev, _ := toStore["_rev"].(string)

	if existing, ok := mds.docs[id]; ok {

		// Updates must present the current revision

		if rev == "" {
			return "", "", &util.Error{
				Type:   util.ErrBadRequest,
				Detail: fmt.Sprintf("Document with id %v already exists", id),
			}
		} else if existing["_rev"] != rev {
			return "", "", &util.Error{
				Type:   util.ErrConflict,
				Detail: fmt.Sprintf("Document with id %v revision conflict", id),
			}
		}

	} else if rev != "" {
		return "", "", &util.Error{
			Type:   util.ErrBadRequest,
			Detail: fmt.Sprintf("Unknown document with id %v has a revision", id),
		}
	}

	// Produce the next revision and store the document

	seq := mds.seqs[id] + 1
	mds.seqs[id] = seq

	newRev := fmt.Sprintf("%d-%s", seq,
		stringutil.MD5HexString(fmt.Sprintf("%v%v", id, seq)))

	toStore["_rev"] = newRev
	mds.docs[id] = toStore

	mds.invalidateCache()

	return id, newRev, nil
}

/*
PutMany creates or updates multiple documents. The outcome is reported
per item.
*/
func (mds *MemoryDocStore) PutMany(docs []map[string]interface{}, objectIDs []string) ([]BulkResult, error) {
	if objectIDs != nil && len(objectIDs) != len(docs) {
		return nil, &util.Error{Type: util.ErrBadRequest, Detail: "Invalid object ids"}
	}

	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	res := make([]BulkResult, 0, len(docs))

	for i, doc := range docs {
		var objectID string

		if objectIDs != nil {
			objectID = objectIDs[i]
		}

		id, rev, err := mds.put(doc, objectID)

		res = append(res, BulkResult{err == nil, id, rev, err})
	}

	return res, nil
}

/*
Get fetches a single document.
*/
func (mds *MemoryDocStore) Get(id string, rev string) (map[string]interface{}, error) {
	mds.mutex.RLock()
	defer mds.mutex.RUnlock()

	return mds.get(id, rev)
}

/*
get is the lock-free version of Get.
*/
func (mds *MemoryDocStore) get(id string, rev string) (map[string]interface{}, error) {
	doc, ok := mds.docs[id]

	// Only the head revision of a document is kept

	if !ok || (rev != "" && doc["_rev"] != rev) {
		return nil, &util.Error{
			Type:   util.ErrNotFound,
			Detail: fmt.Sprintf("Document with id %v does not exist", id),
		}
	}

	var ret map[string]interface{}
	datautil.CopyObject(doc, &ret)

	return ret, nil
}

/*
GetMany fetches multiple documents. All requested documents must exist.
*/
func (mds *MemoryDocStore) GetMany(ids []string) ([]map[string]interface{}, error) {
	mds.mutex.RLock()
	defer mds.mutex.RUnlock()

	var notfound []string

	ret := make([]map[string]interface{}, 0, len(ids))

	for _, id := range ids {
		doc, err := mds.get(id, "")

		if err != nil {
			notfound = append(notfound, id)
			continue
		}

		ret = append(ret, doc)
	}

	if notfound != nil {
		return nil, &util.Error{
			Type:   util.ErrNotFound,
			Detail: fmt.Sprintf("Documents do not exist: %v", strings.Join(notfound, ", ")),
		}
	}

	return ret, nil
}

/*
Delete removes a single document.
*/
func (mds *MemoryDocStore) Delete(id string, rev string) error {
	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	doc, ok := mds.docs[id]

	if !ok {
		return &util.Error{
			Type:   util.ErrNotFound,
			Detail: fmt.Sprintf("Document with id %v does not exist", id),
		}
	}

	if rev != "" && doc["_rev"] != rev {
		return &util.Error{
			Type:   util.ErrConflict,
			Detail: fmt.Sprintf("Document with id %v revision conflict", id),
		}
	}

	delete(mds.docs, id)

	mds.invalidateCache()

	return nil
}

/*
DeleteMany removes multiple documents regardless of their current
revision. The outcome is reported per item.
*/
func (mds *MemoryDocStore) DeleteMany(ids []string) ([]BulkResult, error) {
	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	res := make([]BulkResult, 0, len(ids))

	for _, id := range ids {

		if _, ok := mds.docs[id]; !ok {
			res = append(res, BulkResult{false, id, "", &util.Error{
				Type:   util.ErrNotFound,
				Detail: fmt.Sprintf("Document with id %v does not exist", id),
			}})
			continue
		}

		delete(mds.docs, id)

		res = append(res, BulkResult{true, id, "", nil})
	}

	mds.invalidateCache()

	return res, nil
}

/*
DefineViews creates or replaces the views of a design.
*/
func (mds *MemoryDocStore) DefineViews(design string, views []View) error {
	mds.mutex.Lock()
	defer mds.mutex.Unlock()

	mds.views[design] = views

	mds.invalidateCache()

	return nil
}

/*
QueryIndex queries a named view of a design. Rows are returned in
collation order of their keys.
*/
func (mds *MemoryDocStore) QueryIndex(design string, view string, opts *Options) ([]Row, error) {
	mds.mutex.RLock()
	defer mds.mutex.RUnlock()

	if opts == nil {
		opts = &Options{}
	}

	mapFunc, err := mds.lookupView(design, view)
	if err != nil {
		return nil, err
	}

	rows := mds.materializeView(design, view, mapFunc)

	if opts.Keys != nil {
		rows = selectRowsByKeys(rows, opts.Keys)
	} else {
		rows = selectRowsByRange(rows, opts.StartKey, opts.EndKey)
	}

	if opts.Descending {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(rows) {
			rows = nil
		} else {
			rows = rows[opts.Skip:]
		}
	}

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	if opts.IncludeDocs {
		for i, row := range rows {
			if doc, ok := mds.docs[row.ID]; ok {
				var rowDoc map[string]interface{}
				datautil.CopyObject(doc, &rowDoc)
				rows[i].Doc = rowDoc
			}
		}
	}

	return rows, nil
}

/*
materializeView produces the sorted rows of a view. Views are derived
data and recomputed deterministically from the current documents. If
the result cache is enabled the materialized rows are reused until the
next write.
*/
func (mds *MemoryDocStore) materializeView(design string, view string, mapFunc MapFunc) []Row {
	cacheKey := design + "/" + view

	if mds.cache != nil {
		if cached, ok := mds.cache.Get(cacheKey); ok {

			// Return a copy since callers reorder and slice the rows

			return append([]Row(nil), cached.([]Row)...)
		}
	}

	rows := make([]Row, 0)

	for id, doc := range mds.docs {
		var rowDoc map[string]interface{}
		datautil.CopyObject(doc, &rowDoc)

		docID := id
		mapFunc(rowDoc, func(key interface{}, value interface{}) {
			rows = append(rows, Row{ID: docID, Key: key, Value: value})
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if res := CompareKeys(rows[i].Key, rows[j].Key); res != 0 {
			return res < 0
		}
		return rows[i].ID < rows[j].ID
	})

	if mds.cache != nil {
		mds.cache.Put(cacheKey, rows)

		return append([]Row(nil), rows...)
	}

	return rows
}

/*
invalidateCache drops all cached view rows.
*/
func (mds *MemoryDocStore) invalidateCache() {
	if mds.cache != nil {
		mds.cache = datautil.NewMapCache(mds.cacheMaxSize, mds.cacheMaxAge)
	}
}

/*
lookupView looks up the map function of a given view.
*/
func (mds *MemoryDocStore) lookupView(design string, view string) (MapFunc, error) {
	views, ok := mds.views[design]

	if ok {
		for _, v := range views {
			if v.Name == view {
				return v.Map, nil
			}
		}
	}

	return nil, &util.Error{
		Type:   util.ErrBadRequest,
		Detail: fmt.Sprintf("Unknown index: %v/%v", design, view),
	}
}

/*
selectRowsByKeys filters rows to those matching any of the given exact
keys. Rows are returned in the order of the key list.
*/
func selectRowsByKeys(rows []Row, keys []interface{}) []Row {
	ret := make([]Row, 0, len(rows))

	for _, key := range keys {
		for _, row := range rows {
			if CompareKeys(row.Key, key) == 0 {
				ret = append(ret, row)
			}
		}
	}

	return ret
}

/*
selectRowsByRange filters rows to those within the given inclusive key
range.
*/
func selectRowsByRange(rows []Row, startKey interface{}, endKey interface{}) []Row {
	ret := make([]Row, 0, len(rows))

	for _, row := range rows {
		if startKey != nil && CompareKeys(row.Key, startKey) < 0 {
			continue
		}
		if endKey != nil && CompareKeys(row.Key, endKey) > 0 {
			continue
		}
		ret = append(ret, row)
	}

	return ret
}

/*
String returns a string representation of this store.
*/
func (mds *MemoryDocStore) String() string {
	return fmt.Sprint("MemoryDocStore: ", mds.name, " (", len(mds.docs),
		" document", stringutil.Plural(len(mds.docs)), ")")
}

/*
Close closes the store.
*/
func (mds *MemoryDocStore) Close() error {
	return MdsRetClose
}
