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

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
FindObjects finds all documents which are referenced as object by
associations of a given subject. Predicate and object type narrow the
result - an object type requires a predicate since the view key orders
the predicate first. Returns the found documents and the associations
which led to them. With allData full documents are returned, otherwise
the results only carry their id and type.
*/
func (gm *Manager) FindObjects(subject interface{}, predicate string,
	objectType string, allData bool, opts *QueryOptions) ([]data.Document,
	[]data.Association, error) {

	return gm.findNeighbours("by_sub", "Subject", subject, predicate,
		objectType, allData, opts)
}

/*
FindSubjects finds all documents which are referenced as subject by
associations of a given object. Predicate and subject type narrow the
result - a subject type requires a predicate since the view key orders
the predicate first. Returns the found documents and the associations
which led to them. With allData full documents are returned, otherwise
the results only carry their id and type.
*/
func (gm *Manager) FindSubjects(subjectType string, predicate string,
	object interface{}, allData bool, opts *QueryOptions) ([]data.Document,
	[]data.Association, error) {

	return gm.findNeighbours("by_obj", "Object", object, predicate,
		subjectType, allData, opts)
}

/*
findNeighbours runs a directional traversal over a given association
view. The view key shape is [end, predicate, other end type, other
end] so the parameters translate directly into a key prefix.
*/
func (gm *Manager) findNeighbours(view string, role string, end interface{},
	predicate string, endpointType string, allData bool,
	opts *QueryOptions) ([]data.Document, []data.Association, error) {

	if end == nil {
		return nil, nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: fmt.Sprintf("Must provide a %v", role),
		}
	}

	if endpointType != "" && predicate == "" {
		return nil, nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Cannot provide an object type without a predicate",
		}
	}

	endID, err := resolveID(role, end)
	if err != nil {
		return nil, nil, err
	}

	key := []interface{}{endID}

	if predicate != "" {
		key = append(key, predicate)

		if endpointType != "" {
			key = append(key, endpointType)
		}
	}

	sopts := gm.storeOptions(opts, false)
	sopts.StartKey = key
	sopts.EndKey = docstore.PrefixEndKey(key)

	rows, err := gm.ds.QueryIndex(DesignAssociation, view, sopts)
	if err != nil {
		return nil, nil, err
	}

	assocs, err := gm.assocsFromRows(rows, true)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]data.Document, 0, len(assocs))

	if !allData {
		for _, assoc := range assocs {
			if view == "by_sub" {
				docs = append(docs, minimalDocument(assoc.Object(), assoc.ObjectType()))
			} else {
				docs = append(docs, minimalDocument(assoc.Subject(), assoc.SubjectType()))
			}
		}

		return docs, assocs, nil
	}

	ids := make([]string, 0, len(assocs))

	for _, assoc := range assocs {
		if view == "by_sub" {
			ids = append(ids, assoc.Object())
		} else {
			ids = append(ids, assoc.Subject())
		}
	}

	if len(ids) > 0 {
		if docs, err = gm.ReadMult(ids); err != nil {
			return nil, nil, err
		}
	}

	return docs, assocs, nil
}

/*
FindObjectsMult finds the objects of multiple subjects in one call. The
result is the concatenation of the per-subject results - an object
referenced by several of the given subjects appears once per reference.
Returns the found documents and the associations which led to them.
*/
func (gm *Manager) FindObjectsMult(subjects []string, allData bool) ([]data.Document,
	[]data.Association, error) {

	return gm.findNeighboursMult("by_bulk", subjects, allData)
}

/*
FindSubjectsMult finds the subjects of multiple objects in one call.
The result is the concatenation of the per-object results - a subject
referencing several of the given objects appears once per reference.
Returns the found documents and the associations which led to them.
*/
func (gm *Manager) FindSubjectsMult(objects []string, allData bool) ([]data.Document,
	[]data.Association, error) {

	return gm.findNeighboursMult("by_subject_bulk", objects, allData)
}

/*
findNeighboursMult runs a bulk traversal over one of the bulk views.
The bulk views key one endpoint and emit the id of the other end as
value so the traversal is a single exact-keys query.
*/
func (gm *Manager) findNeighboursMult(view string, ends []string,
	allData bool) ([]data.Document, []data.Association, error) {

	if len(ends) == 0 {
		return nil, nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Must provide a list of ids",
		}
	}

	keys := make([]interface{}, len(ends))
	for i, end := range ends {
		keys[i] = end
	}

	sopts := &docstore.Options{Keys: keys, IncludeDocs: true}

	rows, err := gm.ds.QueryIndex(DesignAssociation, view, sopts)
	if err != nil {
		return nil, nil, err
	}

	assocs := make([]data.Association, 0, len(rows))
	ids := make([]string, 0, len(rows))

	for _, row := range rows {
		obj, err := gm.ser.FromDocument(row.Doc)
		if err != nil {
			return nil, nil, err
		}

		assocs = append(assocs, data.NewAssociationFromDocument(obj))

		id, ok := row.Value.(string)
		if !ok {
			return nil, nil, &util.Error{
				Type:   util.ErrInvalidData,
				Detail: fmt.Sprintf("Invalid association row for document %v", row.ID),
			}
		}

		ids = append(ids, id)
	}

	docs := make([]data.Document, 0, len(ids))

	if !allData {
		for i, id := range ids {
			if view == "by_bulk" {
				docs = append(docs, minimalDocument(id, assocs[i].ObjectType()))
			} else {
				docs = append(docs, minimalDocument(id, assocs[i].SubjectType()))
			}
		}

		return docs, assocs, nil
	}

	if len(ids) > 0 {
		if docs, err = gm.ReadMult(ids); err != nil {
			return nil, nil, err
		}
	}

	return docs, assocs, nil
}
