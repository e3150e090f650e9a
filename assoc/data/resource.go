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

/*
Resource models a registered entity in the store
*/
type Resource interface {
	Document

	/*
		Name returns the human-readable name of this resource.
	*/
	Name() string

	/*
		LifecycleState returns the maturity state of this resource.
	*/
	LifecycleState() string

	/*
		Availability returns the availability state of this resource.
		Availability is an axis orthogonal to the maturity state.
	*/
	Availability() string

	/*
		Keywords returns the keywords of this resource.
	*/
	Keywords() []string

	/*
		AltIDs returns the alternative ids of this resource. An
		alternative id is either a plain value or a "namespace:value"
		string.
	*/
	AltIDs() []string
}

/*
ResourceName is the name attribute of a resource
*/
const ResourceName = "name"

/*
ResourceLCState is the lifecycle (maturity) state attribute of a resource
*/
const ResourceLCState = "lcstate"

/*
ResourceAvailability is the availability state attribute of a resource
*/
const ResourceAvailability = "availability"

/*
ResourceKeywords is the keywords attribute of a resource
*/
const ResourceKeywords = "keywords"

/*
ResourceAltIDs is the alternative ids attribute of a resource
*/
const ResourceAltIDs = "alt_ids"

// Lifecycle maturity states
// =========================

/*
StateDraft is the initial maturity state of a resource
*/
const StateDraft = "DRAFT"

/*
StatePlanned is the maturity state of a planned resource
*/
const StatePlanned = "PLANNED"

/*
StateDeveloped is the maturity state of a developed resource
*/
const StateDeveloped = "DEVELOPED"

/*
StateIntegrated is the maturity state of an integrated resource
*/
const StateIntegrated = "INTEGRATED"

/*
StateDeployed is the maturity state of a deployed resource
*/
const StateDeployed = "DEPLOYED"

/*
StateRetired is the terminal maturity state. Retired resources are
excluded from all resource indexes except the lifecycle index.
*/
const StateRetired = "RETIRED"

// Availability states
// ===================

/*
StatePrivate is the availability state of a private resource
*/
const StatePrivate = "PRIVATE"

/*
StateDiscoverable is the availability state of a discoverable resource
*/
const StateDiscoverable = "DISCOVERABLE"

/*
StateAvailable is the availability state of an available resource
*/
const StateAvailable = "AVAILABLE"

/*
MaturityStates contains all known maturity states
*/
var MaturityStates = map[string]bool{
	StateDraft:      true,
	StatePlanned:    true,
	StateDeveloped:  true,
	StateIntegrated: true,
	StateDeployed:   true,
	StateRetired:    true,
}

/*
AvailabilityStates contains all known availability states
*/
var AvailabilityStates = map[string]bool{
	StatePrivate:      true,
	StateDiscoverable: true,
	StateAvailable:    true,
}

/*
resource data structure.
*/
type resource struct {
	*storeDocument
}

/*
NewResource creates a new Resource instance of a given resource type
with default lifecycle states.
*/
func NewResource(restype string, name string) Resource {
	return &resource{&storeDocument{map[string]interface{}{
		DocumentType:         restype,
		ResourceName:         name,
		ResourceLCState:      StateDraft,
		ResourceAvailability: StatePrivate,
	}}}
}

/*
NewResourceFromDocument creates a new Resource instance from an
existing document.
*/
func NewResourceFromDocument(doc Document) Resource {
	if doc == nil {
		return nil
	}
	return &resource{&storeDocument{doc.Data()}}
}

/*
Name returns the human-readable name of this resource.
*/
func (r *resource) Name() string {
	return r.stringAttr(ResourceName)
}

/*
LifecycleState returns the maturity state of this resource.
*/
func (r *resource) LifecycleState() string {
	return r.stringAttr(ResourceLCState)
}

/*
Availability returns the availability state of this resource.
*/
func (r *resource) Availability() string {
	return r.stringAttr(ResourceAvailability)
}

/*
Keywords returns the keywords of this resource.
*/
func (r *resource) Keywords() []string {
	return r.stringsAttr(ResourceKeywords)
}

/*
AltIDs returns the alternative ids of this resource.
*/
func (r *resource) AltIDs() []string {
	return r.stringsAttr(ResourceAltIDs)
}

/*
String returns a string representation of this resource.
*/
func (r *resource) String() string {
	return dataToString("Resource", r.storeDocument)
}
