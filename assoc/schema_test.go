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

import "testing"

func TestSchemaTypes(t *testing.T) {
	s := NewSchema()

	s.RegisterType("Resource")
	s.RegisterType("Device", "Resource")
	s.RegisterType("InstrumentDevice", "Device")
	s.RegisterType("PlatformDevice", "Device")

	if res := len(s.Types()); res != 4 {
		t.Error("Unexpected result:", res)
		return
	}

	if !s.IsSubtype("InstrumentDevice", "Device") {
		t.Error("InstrumentDevice should be a Device")
		return
	}

	if !s.IsSubtype("InstrumentDevice", "Resource") {
		t.Error("InstrumentDevice should be a Resource")
		return
	}

	if !s.IsSubtype("Device", "Device") {
		t.Error("A type should be a subtype of itself")
		return
	}

	if s.IsSubtype("Device", "InstrumentDevice") {
		t.Error("Subtype check should not be symmetric")
		return
	}

	if s.IsSubtype("Unknown", "Device") {
		t.Error("Unknown types should have no ancestors")
		return
	}

	// Registering a new type recomputes the closure

	s.RegisterType("SensorDevice", "InstrumentDevice")

	if !s.IsSubtype("SensorDevice", "Resource") {
		t.Error("SensorDevice should be a Resource")
		return
	}

	// Cycles in the registered hierarchy must not loop

	s.RegisterType("A", "B")
	s.RegisterType("B", "A")

	if !s.IsSubtype("A", "B") || !s.IsSubtype("B", "A") {
		t.Error("Unexpected result")
		return
	}
}

func TestSchemaPredicates(t *testing.T) {
	s := NewSchema()

	s.RegisterType("Device", "Resource")
	s.RegisterType("InstrumentDevice", "Device")

	s.RegisterPredicate("hasDevice", []string{"Resource"}, []string{"Device"})

	if res := s.Predicate("hasDevice"); res == nil || res.Name != "hasDevice" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := s.Predicate("unknown"); res != nil {
		t.Error("Unexpected result:", res)
		return
	}

	pred := s.Predicate("hasDevice")

	// A listed type qualifies directly, a subtype through its ancestors

	if !s.IsCompatible("Device", pred.Range) {
		t.Error("Device should be compatible")
		return
	}

	if !s.IsCompatible("InstrumentDevice", pred.Range) {
		t.Error("InstrumentDevice should be compatible")
		return
	}

	if s.IsCompatible("Resource", pred.Range) {
		t.Error("Resource should not be compatible")
		return
	}

	if s.IsCompatible("Unknown", pred.Range) {
		t.Error("Unknown types should not be compatible")
		return
	}

	// Unregistered types qualify if they are listed directly

	if !s.IsCompatible("Resource", pred.Domain) {
		t.Error("Resource should be compatible with the domain")
		return
	}
}
