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
	"strings"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
ResourceQuery models the qualifiers of an extended resource query.
Exactly one primary qualifier (name, keyword, alternative id, nested
type, attribute, lifecycle state) may be given - the resource type can
be combined with any of them.
*/
type ResourceQuery struct {
	ResType    string // Resource type to restrict the query to
	LCState    string // Lifecycle state (maturity or availability)
	Name       string // Exact resource name
	Keyword    string // Keyword of the resource
	NestedType string // Type of an object-valued attribute
	AttrName   string // Name of a registered attribute index
	AttrValue  string // Value of the attribute (optional with AttrName)
	AltID      string // Alternative id value
	AltIDNS    string // Alternative id namespace
}

/*
Match models a single view match of a resource query. It carries the
decoded key columns of the row which produced a result.
*/
type Match map[string]interface{}

/*
FindResources finds resources by type, lifecycle state and name.
Returns the found resources and one match per result describing the
index row which produced it. With allData full documents are returned,
otherwise the results only carry their id and type.
*/
func (gm *Manager) FindResources(restype string, lcstate string, name string,
	allData bool) ([]data.Document, []Match, error) {

	return gm.FindResourcesExt(&ResourceQuery{
		ResType: restype,
		LCState: lcstate,
		Name:    name,
	}, allData, nil)
}

/*
FindResourcesExt finds resources by the qualifiers of a given query.
The query dispatches to one resource view - name, keyword, alternative
id, nested type and attribute queries are mutually exclusive. Returns
the found resources and one match per result describing the index row
which produced it.
*/
func (gm *Manager) FindResourcesExt(query *ResourceQuery, allData bool,
	opts *QueryOptions) ([]data.Document, []Match, error) {

	if query == nil {
		query = &ResourceQuery{}
	}

	if query.Name != "" {
		if query.LCState != "" {
			return nil, nil, &util.Error{
				Type:   util.ErrBadRequest,
				Detail: "Find by name does not support lcstate",
			}
		}
		return gm.findResByName(query.Name, query.ResType, allData, opts)
	}

	if query.Keyword != "" {
		return gm.findResByKeyword(query.Keyword, query.ResType, allData, opts)
	}

	if query.AltID != "" || query.AltIDNS != "" {
		return gm.findResByAlternativeID(query.AltID, query.AltIDNS, allData, opts)
	}

	if query.NestedType != "" {
		return gm.findResByNestedType(query.NestedType, query.ResType, allData, opts)
	}

	if query.AttrName != "" {
		return gm.findResByAttribute(query.ResType, query.AttrName, query.AttrValue,
			allData, opts)
	}

	if query.LCState != "" {
		return gm.findResByLCState(query.LCState, query.ResType, allData, opts)
	}

	return gm.findResByType(query.ResType, allData, opts)
}

/*
findResByType queries the by_type view. An empty restype returns all
live resources.
*/
func (gm *Manager) findResByType(restype string, allData bool,
	opts *QueryOptions) ([]data.Document, []Match, error) {

	var key []interface{}

	if restype != "" {
		key = []interface{}{restype}
	}

	rows, err := gm.queryResourceView("by_type", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"type": keyColumn(row.Key, 0),
			"name": keyColumn(row.Key, 1),
			"id":   row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByLCState queries the by_lcstate view. The view keys both
lifecycle axes - the given state selects the axis. Compound states are
truncated to their first segment. This is the only resource query
which finds retired resources by their state.
*/
func (gm *Manager) findResByLCState(lcstate string, restype string, allData bool,
	opts *QueryOptions) ([]data.Document, []Match, error) {

	if idx := strings.Index(lcstate, "_"); idx != -1 {
		gm.logger.Warning(fmt.Sprint("Compound lcstate in query: ", lcstate))
		lcstate = lcstate[:idx]
	}

	axis := 0

	if data.AvailabilityStates[lcstate] {
		axis = 1
	}

	key := []interface{}{axis, lcstate}

	if restype != "" {
		key = append(key, restype)
	}

	rows, err := gm.queryResourceView("by_lcstate", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"lcstate": keyColumn(row.Key, 1),
			"type":    keyColumn(row.Key, 2),
			"name":    keyColumn(row.Key, 3),
			"id":      row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByName queries the by_name view. Name matches are exact.
*/
func (gm *Manager) findResByName(name string, restype string, allData bool,
	opts *QueryOptions) ([]data.Document, []Match, error) {

	key := []interface{}{name}

	if restype != "" {
		key = append(key, restype)
	}

	rows, err := gm.queryResourceView("by_name", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"name": keyColumn(row.Key, 0),
			"type": keyColumn(row.Key, 1),
			"id":   row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByKeyword queries the by_keyword view.
*/
func (gm *Manager) findResByKeyword(keyword string, restype string, allData bool,
	opts *QueryOptions) ([]data.Document, []Match, error) {

	if keyword == "" {
		return nil, nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Must provide a keyword",
		}
	}

	key := []interface{}{keyword}

	if restype != "" {
		key = append(key, restype)
	}

	rows, err := gm.queryResourceView("by_keyword", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"keyword": keyColumn(row.Key, 0),
			"type":    keyColumn(row.Key, 1),
			"id":      row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByNestedType queries the by_nestedtype view for resources which
carry an object of a given type in one of their attributes.
*/
func (gm *Manager) findResByNestedType(nestedType string, restype string,
	allData bool, opts *QueryOptions) ([]data.Document, []Match, error) {

	key := []interface{}{nestedType}

	if restype != "" {
		key = append(key, restype)
	}

	rows, err := gm.queryResourceView("by_nestedtype", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"nested_type": keyColumn(row.Key, 0),
			"type":        keyColumn(row.Key, 1),
			"id":          row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByAttribute queries the by_attribute view. Only registered
attribute indexes are queryable. The view key orders the resource type
first so the type is required.
*/
func (gm *Manager) findResByAttribute(restype string, attrName string,
	attrValue string, allData bool, opts *QueryOptions) ([]data.Document,
	[]Match, error) {

	if restype == "" {
		return nil, nil, &util.Error{
			Type:   util.ErrBadRequest,
			Detail: "Must provide a resource type for an attribute query",
		}
	}

	key := []interface{}{restype, attrName}

	if attrValue != "" {
		key = append(key, attrValue)
	}

	rows, err := gm.queryResourceView("by_attribute", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"type":       keyColumn(row.Key, 0),
			"attr_name":  keyColumn(row.Key, 1),
			"attr_value": keyColumn(row.Key, 2),
			"id":         row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
findResByAlternativeID queries the by_altid view. A namespace without
an id value scans the whole view and filters by namespace.
*/
func (gm *Manager) findResByAlternativeID(altID string, altIDNS string,
	allData bool, opts *QueryOptions) ([]data.Document, []Match, error) {

	var key []interface{}

	if altID != "" {
		key = []interface{}{altID}

		if altIDNS != "" {
			key = append(key, altIDNS)
		}
	}

	rows, err := gm.queryResourceView("by_altid", key, allData, opts)
	if err != nil {
		return nil, nil, err
	}

	if altID == "" && altIDNS != "" {

		// The view key orders the id value first - a namespace-only
		// query cannot be a range scan

		filtered := make([]docstore.Row, 0, len(rows))

		for _, row := range rows {
			if keyColumn(row.Key, 1) == altIDNS {
				filtered = append(filtered, row)
			}
		}

		rows = filtered
	}

	matches := make([]Match, 0, len(rows))

	for _, row := range rows {
		matches = append(matches, Match{
			"alt_id":    keyColumn(row.Key, 0),
			"alt_id_ns": keyColumn(row.Key, 1),
			"id":        row.ID,
		})
	}

	docs, err := gm.resourcesFromRows(rows, allData)

	return docs, matches, err
}

/*
queryResourceView runs a prefix range query against a resource view. A
nil key scans the whole view. Documents are only attached when full
data was requested.
*/
func (gm *Manager) queryResourceView(view string, key []interface{},
	allData bool, opts *QueryOptions) ([]docstore.Row, error) {

	sopts := gm.storeOptions(opts, allData)

	if key != nil {
		sopts.StartKey = key
		sopts.EndKey = docstore.PrefixEndKey(key)
	}

	return gm.ds.QueryIndex(DesignResource, view, sopts)
}

/*
resourcesFromRows converts view rows into document objects. Without
full data the results only carry their id - the resource type is taken
from the attached document otherwise.
*/
func (gm *Manager) resourcesFromRows(rows []docstore.Row, allData bool) ([]data.Document, error) {
	ret := make([]data.Document, 0, len(rows))

	for _, row := range rows {

		if !allData {
			ret = append(ret, minimalDocument(row.ID, ""))
			continue
		}

		obj, err := gm.ser.FromDocument(row.Doc)
		if err != nil {
			return nil, err
		}

		ret = append(ret, obj)
	}

	return ret, nil
}

/*
keyColumn extracts a single column of a composite view key as a string.
*/
func keyColumn(key interface{}, index int) string {
	if cols, ok := key.([]interface{}); ok && index < len(cols) {
		return fmt.Sprint(cols[index])
	}

	return ""
}
