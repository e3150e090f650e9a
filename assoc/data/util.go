/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package data

import (
	"encoding/gob"

	"devt.de/krotik/common/datautil"
)

func init() {

	// Make sure we can use the relevant types in a gob operation

	gob.Register(make(map[string]interface{}))
	gob.Register(make([]interface{}, 0))
	gob.Register(make([]string, 0))
}

/*
FromMap creates a typed Document instance from raw document data.
Association documents become Association instances, documents carrying
a lifecycle state become Resource instances, everything else becomes a
plain Document.
*/
func FromMap(m map[string]interface{}) Document {
	if m == nil {
		return nil
	}

	doc := &storeDocument{m}

	if doc.Type() == AssociationType {
		return &association{doc}
	}

	if _, ok := m[ResourceLCState]; ok {
		return &resource{doc}
	}

	return doc
}

/*
DocumentClone clones a document.
*/
func DocumentClone(doc Document) Document {
	var data map[string]interface{}
	datautil.CopyObject(doc.Data(), &data)
	return FromMap(data)
}
