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

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/timeutil"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
CreateAssociation creates an association between two documents. Subject
and object are given as id strings or as persisted document objects.
The predicate must be registered in the schema and both endpoint types
must be compatible with the predicate's domain and range. Duplicate
associations (same subject, predicate and object) are rejected.
*/
func (gm *Manager) CreateAssociation(subject interface{}, predicate string,
	object interface{}) (data.Association, error) {

	if subject == nil || predicate == "" || object == nil {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Association must have a subject, a predicate and an object",
		}
	}

	subjectID, subjectType, err := gm.resolveEndpoint("Subject", subject)
	if err != nil {
		return nil, err
	}

	objectID, objectType, err := gm.resolveEndpoint("Object", object)
	if err != nil {
		return nil, err
	}

	pred := gm.schema.Predicate(predicate)

	if pred == nil {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: fmt.Sprintf("Unknown predicate: %v", predicate),
		}
	}

	if !gm.schema.IsCompatible(subjectType, pred.Domain) {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: fmt.Sprintf("Illegal subject type %v for predicate %v", subjectType, predicate),
		}
	}

	if !gm.schema.IsCompatible(objectType, pred.Range) {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: fmt.Sprintf("Illegal object type %v for predicate %v", objectType, predicate),
		}
	}

	// Check for an existing association of the same triple - two
	// concurrent creates may still both pass this check

	existing, err := gm.FindAssociations(subjectID, objectID, predicate, nil, false, nil)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return nil, &util.Error{
			Type: util.ErrBadRequest,
			Detail: fmt.Sprintf("Association between %v and %v with predicate %v already exists",
				subjectID, objectID, predicate),
		}
	}

	assoc := data.NewAssociation(subjectID, subjectType, predicate, objectID, objectType)
	assoc.SetAttr(data.AssocTimestamp, timeutil.MakeTimestamp())

	if _, _, err := gm.Create(assoc, newAssociationID()); err != nil {
		return nil, err
	}

	return assoc, nil
}

/*
DeleteAssociation removes associations. The reference is either an
association object, an association id string or a [subject, predicate,
object] triple whose elements are id strings or document objects. A
triple removes every association matching it - a triple which matches
nothing is a no-op. Failures of individual deletes are collected into
a single error.
*/
func (gm *Manager) DeleteAssociation(ref interface{}) error {
	switch r := ref.(type) {

	case data.Association:
		return gm.Delete(r, false)

	case string:
		return gm.Delete(r, false)

	case []interface{}:
		if len(r) != 3 {
			return &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Association triple must be [subject, predicate, object]",
			}
		}

		predicate, ok := r[1].(string)
		if !ok || predicate == "" {
			return &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Association triple must have a predicate",
			}
		}

		assocs, err := gm.FindAssociations(r[0], r[2], predicate, nil, false, nil)
		if err != nil {
			return err
		}

		cerr := errorutil.NewCompositeError()

		for _, assoc := range assocs {
			if err := gm.Delete(assoc.ID(), false); err != nil {
				cerr.Add(err)
			}
		}

		if cerr.HasErrors() {
			return cerr
		}

		return nil
	}

	return &util.Error{
		Type:   util.ErrBadRequest,
		Detail: fmt.Sprintf("Invalid association reference: %v", ref),
	}
}

/*
FindAssociations finds associations by subject, object, predicate or by
any side. Subject and object are given as id strings or as document
objects. Anyside matches associations which reference the given id on
either side and may also be a list of ids - a list cannot be combined
with a predicate. Anyside cannot be combined with subject or object.
With allData full association objects are returned, otherwise the
results only carry their id.
*/
func (gm *Manager) FindAssociations(subject interface{}, object interface{},
	predicate string, anyside interface{}, allData bool,
	opts *QueryOptions) ([]data.Association, error) {

	if subject == nil && object == nil && predicate == "" && anyside == nil {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Illegal parameters: no subject, object, predicate or anyside",
		}
	}

	if anyside != nil && (subject != nil || object != nil) {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Illegal parameters: anyside cannot be combined with subject or object",
		}
	}

	var rows []docstore.Row
	var err error

	if subject != nil && object != nil {
		rows, err = gm.findAssocRowsByMatch(subject, object, predicate, opts)

	} else if subject != nil {
		rows, err = gm.findAssocRowsByEnd("by_sub", "Subject", subject, predicate, opts)

	} else if object != nil {
		rows, err = gm.findAssocRowsByEnd("by_obj", "Object", object, predicate, opts)

	} else if anyside != nil {
		rows, err = gm.findAssocRowsByAnyside(anyside, predicate, opts)

	} else {
		key := []interface{}{predicate}

		sopts := gm.storeOptions(opts, false)
		sopts.StartKey = key
		sopts.EndKey = docstore.PrefixEndKey(key)

		rows, err = gm.ds.QueryIndex(DesignAssociation, "by_pred", sopts)
	}

	if err != nil {
		return nil, err
	}

	return gm.assocsFromRows(rows, allData)
}

/*
findAssocRowsByMatch queries the by_match view for associations between
a given subject and object.
*/
func (gm *Manager) findAssocRowsByMatch(subject interface{}, object interface{},
	predicate string, opts *QueryOptions) ([]docstore.Row, error) {

	subjectID, err := resolveID("subject", subject)
	if err != nil {
		return nil, err
	}

	objectID, err := resolveID("object", object)
	if err != nil {
		return nil, err
	}

	key := []interface{}{subjectID, objectID}

	if predicate != "" {
		key = append(key, predicate)
	}

	sopts := gm.storeOptions(opts, false)
	sopts.StartKey = key
	sopts.EndKey = docstore.PrefixEndKey(key)

	return gm.ds.QueryIndex(DesignAssociation, "by_match", sopts)
}

/*
findAssocRowsByEnd queries a directional view (by_sub or by_obj) for
associations of a given endpoint.
*/
func (gm *Manager) findAssocRowsByEnd(view string, role string, end interface{},
	predicate string, opts *QueryOptions) ([]docstore.Row, error) {

	endID, err := resolveID(role, end)
	if err != nil {
		return nil, err
	}

	key := []interface{}{endID}

	if predicate != "" {
		key = append(key, predicate)
	}

	sopts := gm.storeOptions(opts, false)
	sopts.StartKey = key
	sopts.EndKey = docstore.PrefixEndKey(key)

	return gm.ds.QueryIndex(DesignAssociation, view, sopts)
}

/*
findAssocRowsByAnyside queries associations which reference a given id
(or one of a list of ids) on either side.
*/
func (gm *Manager) findAssocRowsByAnyside(anyside interface{}, predicate string,
	opts *QueryOptions) ([]docstore.Row, error) {

	if list, ok := anysideList(anyside); ok {

		if predicate != "" {
			return nil, &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Illegal parameters: anyside list cannot be combined with a predicate",
			}
		}

		keys := make([]interface{}, 0, len(list))

		for _, item := range list {
			id, err := resolveID("anyside", item)
			if err != nil {
				return nil, err
			}
			keys = append(keys, id)
		}

		sopts := gm.storeOptions(opts, false)
		sopts.Keys = keys

		return gm.ds.QueryIndex(DesignAssociation, "by_id", sopts)
	}

	id, err := resolveID("anyside", anyside)
	if err != nil {
		return nil, err
	}

	sopts := gm.storeOptions(opts, false)

	if predicate != "" {
		key := []interface{}{id, predicate}

		sopts.StartKey = key
		sopts.EndKey = docstore.PrefixEndKey(key)

		return gm.ds.QueryIndex(DesignAssociation, "by_idpred", sopts)
	}

	sopts.Keys = []interface{}{id}

	return gm.ds.QueryIndex(DesignAssociation, "by_id", sopts)
}

/*
assocsFromRows converts view rows into association objects. The rows
of all association views carry the association document as value.
*/
func (gm *Manager) assocsFromRows(rows []docstore.Row, allData bool) ([]data.Association, error) {
	ret := make([]data.Association, 0, len(rows))

	for _, row := range rows {

		if !allData {
			assoc := data.NewAssociationFromDocument(data.NewDocumentFromMap(
				map[string]interface{}{
					data.DocumentID:   row.ID,
					data.DocumentType: data.AssociationType,
				}))

			ret = append(ret, assoc)
			continue
		}

		value, ok := row.Value.(map[string]interface{})
		if !ok {
			return nil, &util.Error{
				Type:   util.ErrInvalidData,
				Detail: fmt.Sprintf("Invalid association row for document %v", row.ID),
			}
		}

		obj, err := gm.ser.FromDocument(value)
		if err != nil {
			return nil, err
		}

		assoc := data.NewAssociationFromDocument(obj)

		ret = append(ret, assoc)
	}

	return ret, nil
}

/*
isInAssociation checks if a given document is referenced by at least
one association.
*/
func (gm *Manager) isInAssociation(id string) bool {
	assocs, err := gm.FindAssociations(nil, nil, "", id, false, &QueryOptions{Limit: 1})

	return err == nil && len(assocs) > 0
}

/*
anysideList normalises a given anyside value into a list of document
references if it is a list.
*/
func anysideList(anyside interface{}) ([]interface{}, bool) {
	switch list := anyside.(type) {

	case []interface{}:
		return list, true

	case []string:
		ret := make([]interface{}, len(list))
		for i, item := range list {
			ret[i] = item
		}
		return ret, true
	}

	return nil, false
}

/*
newAssociationID produces a unique id for a new association document.
*/
func newAssociationID() string {
	return fmt.Sprintf("assoc_%x", cryptutil.GenerateUUID())
}
