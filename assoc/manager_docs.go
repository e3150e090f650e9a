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

	"devt.de/krotik/common/errorutil"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
Create stores a new document. The document must not carry a revision.
An object id may be suggested - if it is empty the store assigns one.
Returns the id and the revision of the stored document and updates the
given object with them.
*/
func (gm *Manager) Create(obj data.Document, objectID string) (string, string, error) {
	if obj == nil {
		return "", "", &util.Error{Type: util.ErrBadRequest, Detail: "Object must not be nil"}
	}

	if obj.Rev() != "" {
		return "", "", &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Object to create must not have a revision",
		}
	}

	doc, err := gm.ser.ToDocument(obj)
	if err != nil {
		return "", "", err
	}

	id, rev, err := gm.ds.Put(doc, objectID)
	if err != nil {
		return "", "", err
	}

	obj.SetAttr(data.DocumentID, id)
	obj.SetAttr(data.DocumentRev, rev)

	return id, rev, nil
}

/*
CreateMult stores multiple new documents. The operation is not atomic -
the outcome is reported per item. Successfully stored objects are
updated with their id and revision.
*/
func (gm *Manager) CreateMult(objs []data.Document, objectIDs []string) ([]docstore.BulkResult, error) {
	if objectIDs != nil && len(objectIDs) != len(objs) {
		return nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Object id list must match object list",
		}
	}

	docs := make([]map[string]interface{}, 0, len(objs))

	for _, obj := range objs {
		if obj == nil || obj.Rev() != "" {
			return nil, &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Objects to create must not have a revision",
			}
		}

		doc, err := gm.ser.ToDocument(obj)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	res, err := gm.ds.PutMany(docs, objectIDs)

	if err == nil {
		for i, r := range res {
			if r.OK {
				objs[i].SetAttr(data.DocumentID, r.ID)
				objs[i].SetAttr(data.DocumentRev, r.Rev)
			}
		}
	}

	return res, err
}

/*
Read fetches a single document. If rev is given only that revision is
returned.
*/
func (gm *Manager) Read(id string, rev string) (data.Document, error) {
	doc, err := gm.ds.Get(id, rev)

	if err != nil {
		return nil, err
	}

	return gm.ser.FromDocument(doc)
}

/*
ReadMult fetches multiple documents. All requested documents must
exist.
*/
func (gm *Manager) ReadMult(ids []string) ([]data.Document, error) {
	docs, err := gm.ds.GetMany(ids)

	if err != nil {
		return nil, err
	}

	ret := make([]data.Document, 0, len(docs))

	for _, doc := range docs {
		obj, err := gm.ser.FromDocument(doc)

		if err != nil {
			return nil, err
		}

		ret = append(ret, obj)
	}

	return ret, nil
}

/*
Update stores a new revision of an existing document. The document
must carry its id and its current revision. Returns the id and the new
revision and updates the given object with them.
*/
func (gm *Manager) Update(obj data.Document) (string, string, error) {
	if obj == nil || obj.ID() == "" || obj.Rev() == "" {
		return "", "", &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Object to update must have an id and a revision",
		}
	}

	doc, err := gm.ser.ToDocument(obj)
	if err != nil {
		return "", "", err
	}

	id, rev, err := gm.ds.Put(doc, "")
	if err != nil {
		return "", "", err
	}

	obj.SetAttr(data.DocumentRev, rev)

	return id, rev, nil
}

/*
UpdateMult stores new revisions of multiple existing documents. The
operation is not atomic - the outcome is reported per item.
*/
func (gm *Manager) UpdateMult(objs []data.Document) ([]docstore.BulkResult, error) {
	docs := make([]map[string]interface{}, 0, len(objs))

	for _, obj := range objs {
		if obj == nil || obj.ID() == "" || obj.Rev() == "" {
			return nil, &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Objects to update must have an id and a revision",
			}
		}

		doc, err := gm.ser.ToDocument(obj)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	res, err := gm.ds.PutMany(docs, nil)

	if err == nil {
		for i, r := range res {
			if r.OK {
				objs[i].SetAttr(data.DocumentRev, r.Rev)
			}
		}
	}

	return res, err
}

/*
Delete removes a document. The reference is either an id string or a
persisted document object - document objects are deleted at their
current revision, ids at the head revision. With delAssociations all
associations which reference the document are removed as well,
otherwise a document which is still referenced is deleted with a
warning.
*/
func (gm *Manager) Delete(ref interface{}, delAssociations bool) error {
	var rev string

	id, err := resolveID("object", ref)
	if err != nil {
		return err
	}

	if obj, ok := ref.(data.Document); ok {
		rev = obj.Rev()
	}

	if delAssociations {
		assocs, err := gm.FindAssociations(nil, nil, "", id, false, nil)

		if err != nil {
			return err
		}

		if len(assocs) > 0 {
			ids := make([]string, 0, len(assocs))

			for _, assoc := range assocs {
				ids = append(ids, assoc.ID())
			}

			res, err := gm.ds.DeleteMany(ids)
			if err != nil {
				return err
			}

			if err := bulkError(res); err != nil {
				return err
			}

			gm.logger.Debug(fmt.Sprint("Deleted ", len(ids),
				" associations of object ", id))
		}

	} else if gm.isInAssociation(id) {

		// Dangling associations are permitted but suspicious

		gm.logger.Warning(fmt.Sprint("Deleted object ", id,
			" which is still referenced by associations"))
	}

	return gm.ds.Delete(id, rev)
}

/*
DeleteMult removes multiple documents at their head revision. The
outcome is reported per item. Associations are not cascaded.
*/
func (gm *Manager) DeleteMult(ids []string) ([]docstore.BulkResult, error) {
	return gm.ds.DeleteMany(ids)
}

/*
bulkError collects the errors of a bulk result into a single error.
Returns nil if all items succeeded.
*/
func bulkError(res []docstore.BulkResult) error {
	cerr := errorutil.NewCompositeError()

	for _, r := range res {
		if !r.OK {
			cerr.Add(r.Err)
		}
	}

	if cerr.HasErrors() {
		return cerr
	}

	return nil
}
