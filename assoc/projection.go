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
	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
)

/*
QueryView runs a raw query against a named view and projects the
result rows. Projection recursively replaces every map which carries a
document id with a typed document object - everything else is passed
through unchanged. This is the escape hatch for queries which the find
operations do not cover.
*/
func (gm *Manager) QueryView(design string, view string,
	opts *docstore.Options) ([]interface{}, error) {

	rows, err := gm.ds.QueryIndex(design, view, opts)
	if err != nil {
		return nil, err
	}

	ret := make([]interface{}, 0, len(rows))

	for _, row := range rows {
		projected, err := gm.projectRow(row)
		if err != nil {
			return nil, err
		}

		ret = append(ret, projected)
	}

	return ret, nil
}

/*
projectRow projects a single view row into a map of its components.
The document is only present when it was requested with the query.
*/
func (gm *Manager) projectRow(row docstore.Row) (interface{}, error) {
	ret := map[string]interface{}{"id": row.ID}

	key, err := gm.project(row.Key)
	if err != nil {
		return nil, err
	}
	ret["key"] = key

	value, err := gm.project(row.Value)
	if err != nil {
		return nil, err
	}
	ret["value"] = value

	if row.Doc != nil {
		doc, err := gm.project(row.Doc)
		if err != nil {
			return nil, err
		}
		ret["doc"] = doc
	}

	return ret, nil
}

/*
project recursively projects a single value. Maps carrying a document
id become typed document objects, lists and plain maps are projected
element-wise, scalars pass through.
*/
func (gm *Manager) project(val interface{}) (interface{}, error) {
	switch v := val.(type) {

	case map[string]interface{}:
		if _, ok := v[data.DocumentID]; ok {
			return gm.ser.FromDocument(v)
		}

		ret := make(map[string]interface{}, len(v))

		for key, item := range v {
			projected, err := gm.project(item)
			if err != nil {
				return nil, err
			}
			ret[key] = projected
		}

		return ret, nil

	case []interface{}:
		ret := make([]interface{}, 0, len(v))

		for _, item := range v {
			projected, err := gm.project(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, projected)
		}

		return ret, nil
	}

	return val, nil
}
