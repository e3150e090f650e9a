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
	"strings"
	"testing"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

func TestViewDesigns(t *testing.T) {

	if _, err := ViewDesigns("BOGUS"); err == nil ||
		(err.(*util.Error)).Type != util.ErrConfiguration {
		t.Error("Unexpected result:", err)
		return
	}

	designs, err := ViewDesigns(ProfileResources)

	if err != nil || len(designs) != 2 {
		t.Error("Unexpected result:", designs, err)
		return
	}

	if len(designs[DesignResource]) != 7 {
		t.Error("Unexpected result:", designs[DesignResource])
		return
	}

	if len(designs[DesignAssociation]) != 8 {
		t.Error("Unexpected result:", designs[DesignAssociation])
		return
	}

	designs, _ = ViewDesigns(ProfileObjects)

	if len(designs[DesignObject]) != 1 || len(designs[DesignAssociation]) != 8 {
		t.Error("Unexpected result:", designs)
		return
	}

	designs, _ = ViewDesigns(ProfileEvents)

	if len(designs) != 1 || len(designs[DesignEvent]) != 4 {
		t.Error("Unexpected result:", designs)
		return
	}

	// The basic profile has no views at all

	designs, _ = ViewDesigns(ProfileBasic)

	if len(designs) != 0 {
		t.Error("Unexpected result:", designs)
		return
	}
}

func TestNameTruncation(t *testing.T) {
	gm := newTestManager(t)

	longName := strings.Repeat("x", IndexNameTruncation+50)

	gm.Create(data.NewResource("InstrumentDevice", longName), "long1")

	_, matches, err := gm.FindResources("InstrumentDevice", "", "", false)

	if err != nil || len(matches) != 1 {
		t.Error("Unexpected result:", matches, err)
		return
	}

	// The key only holds the truncated name - the document is unchanged

	if name := matches[0]["name"].(string); len(name) != IndexNameTruncation {
		t.Error("Unexpected result:", len(name))
		return
	}

	doc, _ := gm.Read("long1", "")

	if res := doc.(data.Resource).Name(); len(res) != IndexNameTruncation+50 {
		t.Error("Unexpected result:", len(res))
		return
	}
}

func TestRegisterAttributeIndex(t *testing.T) {
	defer func() {
		attributeIndexes = attributeIndexes[:len(attributeIndexes)-1]
	}()

	RegisterAttributeIndex("InstrumentDevice", "serial", "serial")

	gm := newTestManager(t)

	dev := data.NewResource("InstrumentDevice", "sensor1")
	dev.SetAttr("serial", "SN-001")

	gm.Create(dev, "dev1")

	_, matches, err := gm.FindResourcesExt(&ResourceQuery{ResType: "InstrumentDevice",
		AttrName: "serial", AttrValue: "SN-001"}, false, nil)

	if err != nil || len(matches) != 1 || matches[0]["id"] != "dev1" {
		t.Error("Unexpected result:", matches, err)
		return
	}

	// Unregistered attributes are not indexed

	_, matches, err = gm.FindResourcesExt(&ResourceQuery{ResType: "InstrumentDevice",
		AttrName: "name"}, false, nil)

	if err != nil || len(matches) != 0 {
		t.Error("Unexpected result:", matches, err)
		return
	}
}

func TestEventViews(t *testing.T) {
	s := NewSchema()

	gm, err := NewManager(docstore.NewMemoryDocStore("events"), ProfileEvents, s)

	if err != nil {
		t.Error(err)
		return
	}

	gm.Create(data.NewEvent("ResourceModifiedEvent", "res1", "InstrumentDevice", "1000"), "ev1")
	gm.Create(data.NewEvent("ResourceModifiedEvent", "res2", "InstrumentDevice", "2000"), "ev2")
	gm.Create(data.NewEvent("ResourceCreatedEvent", "res1", "InstrumentDevice", "1500"), "ev3")

	// Events are ordered by time

	res, err := gm.QueryView(DesignEvent, "by_time", nil)

	if err != nil || len(res) != 3 {
		t.Error("Unexpected result:", res, err)
		return
	}

	first := res[0].(map[string]interface{})

	if first["id"] != "ev1" {
		t.Error("Unexpected result:", first)
		return
	}

	// By origin

	key := []interface{}{"res1"}

	res, err = gm.QueryView(DesignEvent, "by_origin", &docstore.Options{
		StartKey: key,
		EndKey:   docstore.PrefixEndKey(key),
	})

	if err != nil || len(res) != 2 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// By origin and type

	key = []interface{}{"res1", "ResourceCreatedEvent"}

	res, err = gm.QueryView(DesignEvent, "by_origintype", &docstore.Options{
		StartKey: key,
		EndKey:   docstore.PrefixEndKey(key),
	})

	if err != nil || len(res) != 1 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// The resource views are not defined in the event profile

	if _, err := gm.QueryView(DesignResource, "by_type", nil); !util.IsBadRequest(err) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestObjectViews(t *testing.T) {
	gm, err := NewManager(docstore.NewMemoryDocStore("objects"), ProfileObjects, NewSchema())

	if err != nil {
		t.Error(err)
		return
	}

	gm.Create(data.NewDocument("DataProduct"), "obj1")
	gm.Create(data.NewDocument("DataProduct"), "obj2")
	gm.Create(data.NewDocument("Stream"), "obj3")

	key := []interface{}{"DataProduct"}

	res, err := gm.QueryView(DesignObject, "by_type", &docstore.Options{
		StartKey: key,
		EndKey:   docstore.PrefixEndKey(key),
	})

	if err != nil || len(res) != 2 {
		t.Error("Unexpected result:", res, err)
		return
	}
}
