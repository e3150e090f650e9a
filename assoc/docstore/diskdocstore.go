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
	"fmt"
	"os"
	"time"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/lockutil"

	"github.com/ateranishi/assocdb/assoc/util"
)

/*
FilenameDocDB is the filename for the document storage file
*/
var FilenameDocDB = "docs.pm"

/*
FilenameLockfile is the filename for the lock file
*/
var FilenameLockfile = "store.lck"

/*
DiskDocStore data structure. The disk store keeps all documents in
memory (views are always derived data) and persists the document map
through a persistent map file. A lock file guards against a second
process opening the same store directory.
*/
type DiskDocStore struct {
	*MemoryDocStore

	docDB    *datautil.PersistentMap // Persisted document data
	lockfile *lockutil.LockFile      // Lockfile to protect the store directory
}

/*
NewDiskDocStore creates a new DiskDocStore instance. The given
directory is created if it does not exist.
*/
func NewDiskDocStore(name string) (*DiskDocStore, error) {
	var docDB *datautil.PersistentMap
	var err error

	dds := &DiskDocStore{NewMemoryDocStore(name), nil, nil}

	// Load the document storage if the storage directory already
	// exists, if not try to create it

	if res, _ := fileutil.PathExists(name); !res {
		if err = os.Mkdir(name, 0770); err != nil {
			return nil, &util.Error{Type: util.ErrConfiguration, Detail: err.Error()}
		}

		docDB, err = datautil.NewPersistentMap(name + "/" + FilenameDocDB)

	} else {

		docDB, err = datautil.LoadPersistentMap(name + "/" + FilenameDocDB)
	}

	if err != nil {
		return nil, &util.Error{Type: util.ErrConfiguration, Detail: err.Error()}
	}

	// Aquire a lock for the store directory

	lockfile := lockutil.NewLockFile(name+"/"+FilenameLockfile,
		time.Duration(2)*time.Second)

	if err = lockfile.Start(); err != nil {
		return nil, &util.Error{
			Type:   util.ErrConfiguration,
			Detail: fmt.Sprintf("Could not take ownership of %v: %v", name, err),
		}
	}

	dds.docDB = docDB
	dds.lockfile = lockfile

	// Populate the memory store from the persisted data

	for id, doc := range docDB.Data {
		if docMap, ok := doc.(map[string]interface{}); ok {
			dds.docs[id] = docMap

			if rev, ok := docMap["_rev"].(string); ok {
				dds.seqs[id] = revSequence(rev)
			}
		}
	}

	return dds, nil
}

/*
Put creates or updates a single document and persists the change.
*/
func (dds *DiskDocStore) Put(doc map[string]interface{}, objectID string) (string, string, error) {
	id, rev, err := dds.MemoryDocStore.Put(doc, objectID)

	if err == nil {
		err = dds.flush()
	}

	return id, rev, err
}

/*
PutMany creates or updates multiple documents and persists the change.
*/
func (dds *DiskDocStore) PutMany(docs []map[string]interface{}, objectIDs []string) ([]BulkResult, error) {
	res, err := dds.MemoryDocStore.PutMany(docs, objectIDs)

	if err == nil {
		err = dds.flush()
	}

	return res, err
}

/*
Delete removes a single document and persists the change.
*/
func (dds *DiskDocStore) Delete(id string, rev string) error {
	err := dds.MemoryDocStore.Delete(id, rev)

	if err == nil {
		err = dds.flush()
	}

	return err
}

/*
DeleteMany removes multiple documents and persists the change.
*/
func (dds *DiskDocStore) DeleteMany(ids []string) ([]BulkResult, error) {
	res, err := dds.MemoryDocStore.DeleteMany(ids)

	if err == nil {
		err = dds.flush()
	}

	return res, err
}

/*
flush writes the current document data to the persistent map.
*/
func (dds *DiskDocStore) flush() error {
	dds.mutex.RLock()
	defer dds.mutex.RUnlock()

	data := make(map[string]interface{}, len(dds.docs))

	for id, doc := range dds.docs {
		data[id] = doc
	}

	dds.docDB.Data = data

	if err := dds.docDB.Flush(); err != nil {
		return &util.Error{Type: util.ErrConfiguration, Detail: err.Error()}
	}

	return nil
}

/*
Close closes the store. The document data is flushed and the lock file
is released.
*/
func (dds *DiskDocStore) Close() error {
	err := dds.flush()

	if lferr := dds.lockfile.Finish(); lferr != nil && err == nil {
		err = &util.Error{Type: util.ErrConfiguration, Detail: lferr.Error()}
	}

	return err
}

/*
revSequence extracts the sequence number of a given revision string.
*/
func revSequence(rev string) int {
	var seq int

	fmt.Sscanf(rev, "%d-", &seq)

	return seq
}
