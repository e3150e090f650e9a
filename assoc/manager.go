/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package assoc

import (
	"fmt"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/logutil"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
Serializer converts between typed documents and the raw document maps
which are persisted in the document store.
*/
type Serializer interface {

	/*
		ToDocument converts a document object into its raw document map.
	*/
	ToDocument(obj data.Document) (map[string]interface{}, error)

	/*
		FromDocument converts a raw document map into a document object.
	*/
	FromDocument(doc map[string]interface{}) (data.Document, error)
}

/*
defaultSerializer is the default Serializer which maps documents to
their attribute data.
*/
type defaultSerializer struct {
}

/*
ToDocument converts a document object into its raw document map. The
returned map is a deep copy.
*/
func (ds *defaultSerializer) ToDocument(obj data.Document) (map[string]interface{}, error) {
	var ret map[string]interface{}

	if err := datautil.CopyObject(obj.Data(), &ret); err != nil {
		return nil, &util.Error{Type: util.ErrInvalidData, Detail: err.Error()}
	}

	return ret, nil
}

/*
FromDocument converts a raw document map into a document object.
*/
func (ds *defaultSerializer) FromDocument(doc map[string]interface{}) (data.Document, error) {
	return data.FromMap(doc), nil
}

/*
QueryOptions models the pagination options of a find operation.
*/
type QueryOptions struct {
	Limit      int  // Maximum number of results to return (0 = all)
	Skip       int  // Number of results to skip
	Descending bool // Flag if results should be returned in reverse order
}

/*
Manager data structure
*/
type Manager struct {
	ds      docstore.Store // Document store of this manager
	profile string         // Profile of this manager's store
	schema  *Schema        // Schema with types and predicates
	ser     Serializer     // Serializer for document conversion
	logger  logutil.Logger // Logger of this manager
}

/*
NewManager creates a new association store manager. The views of the
given profile are defined on the store - view definition is idempotent
and runs on every construction.
*/
func NewManager(ds docstore.Store, profile string, schema *Schema) (*Manager, error) {
	designs, err := ViewDesigns(profile)

	if err != nil {
		return nil, err
	}

	for design, views := range designs {
		if err := ds.DefineViews(design, views); err != nil {
			return nil, err
		}
	}

	return &Manager{ds, profile, schema, &defaultSerializer{},
		logutil.GetLogger("assocdb.assoc")}, nil
}

/*
Name returns the name of the underlying document store.
*/
func (gm *Manager) Name() string {
	return fmt.Sprint("Association store on ", gm.ds.Name())
}

/*
Profile returns the profile of this manager's store.
*/
func (gm *Manager) Profile() string {
	return gm.profile
}

/*
Schema returns the schema of this manager.
*/
func (gm *Manager) Schema() *Schema {
	return gm.schema
}

/*
SetSerializer sets the serializer which converts between document
objects and raw document maps.
*/
func (gm *Manager) SetSerializer(ser Serializer) {
	gm.ser = ser
}

/*
Close closes the underlying document store.
*/
func (gm *Manager) Close() error {
	return gm.ds.Close()
}

/*
storeOptions converts query options into document store options.
*/
func (gm *Manager) storeOptions(opts *QueryOptions, includeDocs bool) *docstore.Options {
	ret := &docstore.Options{IncludeDocs: includeDocs}

	if opts != nil {
		ret.Limit = opts.Limit
		ret.Skip = opts.Skip
		ret.Descending = opts.Descending
	}

	return ret
}

/*
resolveID extracts the document id of a given document reference. A
reference is either an id string or a persisted document object.
*/
func resolveID(role string, ref interface{}) (string, error) {
	switch r := ref.(type) {

	case string:
		if r != "" {
			return r, nil
		}

	case data.Document:
		if r != nil && r.ID() != "" {
			return r.ID(), nil
		}
	}

	return "", &util.Error{
		Type:   util.ErrBadRequest,
		Detail: fmt.Sprintf("Cannot determine id of %v", role),
	}
}

/*
resolveEndpoint resolves a given document reference into an id and an
object type for use as an association endpoint. Id references are read
from the store, document objects must have been persisted.
*/
func (gm *Manager) resolveEndpoint(role string, ref interface{}) (string, string, error) {
	switch r := ref.(type) {

	case string:
		doc, err := gm.Read(r, "")

		if err != nil {
			return "", "", err
		}

		return r, doc.Type(), nil

	case data.Document:
		if r.ID() == "" || r.Rev() == "" {
			return "", "", &util.Error{
				Type:   util.ErrBadRequest,
				Detail: fmt.Sprintf("%v id or revision not available", role),
			}
		}

		return r.ID(), r.Type(), nil
	}

	return "", "", &util.Error{
		Type:   util.ErrBadRequest,
		Detail: fmt.Sprintf("Invalid %v reference: %v", role, ref),
	}
}

/*
minimalDocument builds a document object which only carries an id and
an object type. Find operations return minimal documents unless full
data was requested.
*/
func minimalDocument(id string, doctype string) data.Document {
	ret := data.NewDocument(doctype)
	ret.SetAttr(data.DocumentID, id)

	return ret
}
