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
Package docstore contains classes which model document storage for the
association store.

There are two main storage objects: DiskDocStore which provides disk
storage and MemoryDocStore which provides memory-only storage.

A document store manages raw documents (maps) which always carry an id
and a revision. The revision changes on every write and must be
presented on update and delete so lost updates are detected. Besides
primary-key access the store maintains named views. A view is a
deterministic function mapping a document to zero or more composite
key / value emissions. View rows are sorted by the store's collation
(see collation.go) and can be queried by key range or by a list of
exact keys.
*/
package docstore

/*
Row models a single result row of a view query
*/
type Row struct {
	ID    string                 // Id of the document which produced this row
	Key   interface{}            // Emitted key of this row
	Value interface{}            // Emitted value of this row
	Doc   map[string]interface{} // Document of this row (only with IncludeDocs)
}

/*
Options models the options of a view query
*/
type Options struct {
	StartKey    interface{}   // Inclusive lower bound of the key range
	EndKey      interface{}   // Inclusive upper bound of the key range
	Keys        []interface{} // List of exact keys to look up (excludes ranges)
	Limit       int           // Maximum number of rows to return (0 = all)
	Skip        int           // Number of rows to skip
	Descending  bool          // Flag if rows should be returned in reverse order
	IncludeDocs bool          // Flag if documents should be attached to rows
}

/*
EmitFunc is called by view map functions to produce an index row
*/
type EmitFunc func(key interface{}, value interface{})

/*
MapFunc is the deterministic map function of a view. It is called for
every document in the store and may emit any number of rows.
*/
type MapFunc func(doc map[string]interface{}, emit EmitFunc)

/*
View models a single named view of a design
*/
type View struct {
	Name string  // Name of the view within its design
	Map  MapFunc // Deterministic map function of the view
}

/*
BulkResult models the outcome of a single item of a bulk operation
*/
type BulkResult struct {
	OK  bool   // Flag if the operation succeeded for this item
	ID  string // Id of the document
	Rev string // New revision of the document (empty on delete / failure)
	Err error  // Error for this item if the operation failed
}

/*
Store interface models a document store for the association manager.
*/
type Store interface {

	/*
	   Name returns the name of the document store instance.
	*/
	Name() string

	/*
		Put creates or updates a single document. New documents may
		suggest an id through objectID. Existing documents must carry
		the current revision. Returns the id and the new revision.
	*/
	Put(doc map[string]interface{}, objectID string) (string, string, error)

	/*
		PutMany creates or updates multiple documents. The operation is
		not atomic - the outcome is reported per item.
	*/
	PutMany(docs []map[string]interface{}, objectIDs []string) ([]BulkResult, error)

	/*
		Get fetches a single document. If rev is given only that
		revision is returned.
	*/
	Get(id string, rev string) (map[string]interface{}, error)

	/*
		GetMany fetches multiple documents. All requested documents
		must exist.
	*/
	GetMany(ids []string) ([]map[string]interface{}, error)

	/*
		Delete removes a single document. The given revision must be
		the current revision of the document.
	*/
	Delete(id string, rev string) error

	/*
		DeleteMany removes multiple documents regardless of their
		current revision. The outcome is reported per item.
	*/
	DeleteMany(ids []string) ([]BulkResult, error)

	/*
		QueryIndex queries a named view of a design. Rows are returned
		in collation order of their keys.
	*/
	QueryIndex(design string, view string, opts *Options) ([]Row, error)

	/*
		DefineViews creates or replaces the views of a design.
	*/
	DefineViews(design string, views []View) error

	/*
		Close closes the store.
	*/
	Close() error
}
