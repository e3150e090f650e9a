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

/*
Predicate models an association predicate. Domain lists the document
types which may appear on the subject side, Range the types which may
appear on the object side. A subtype of a listed type also qualifies.
*/
type Predicate struct {
	Name   string   // Name of the predicate
	Domain []string // Allowed subject types
	Range  []string // Allowed object types
}

/*
Schema data structure. The schema holds the known document types with
their base types and the known predicates. Type registration eagerly
recomputes the ancestor closure so compatibility checks are simple map
lookups. Schemas are expected to be populated once during startup -
access to a populated schema is read-only and needs no locking.
*/
type Schema struct {
	types      map[string][]string        // Type name to direct base types
	ancestors  map[string]map[string]bool // Type name to all ancestor types
	predicates map[string]*Predicate      // Predicate name to definition
}

/*
NewSchema creates a new empty Schema instance.
*/
func NewSchema() *Schema {
	return &Schema{make(map[string][]string),
		make(map[string]map[string]bool), make(map[string]*Predicate)}
}

/*
RegisterType registers a document type with its direct base types.
Base types do not need to be registered beforehand.
*/
func (s *Schema) RegisterType(name string, bases ...string) {
	s.types[name] = bases

	// Recompute the full ancestor closure - registration is rare and
	// the closure keeps IsCompatible free of graph walks

	s.ancestors = make(map[string]map[string]bool)

	for t := range s.types {
		set := make(map[string]bool)
		s.collectAncestors(t, set)
		s.ancestors[t] = set
	}
}

/*
collectAncestors walks the base types of a given type and adds all
reachable types to the given set.
*/
func (s *Schema) collectAncestors(name string, set map[string]bool) {
	for _, base := range s.types[name] {

		if set[base] {

			// Guard against cycles in the registered hierarchy

			continue
		}

		set[base] = true
		s.collectAncestors(base, set)
	}
}

/*
RegisterPredicate registers a predicate with its domain and range.
*/
func (s *Schema) RegisterPredicate(name string, domain []string, prange []string) {
	s.predicates[name] = &Predicate{name, domain, prange}
}

/*
Predicate looks up a registered predicate. Returns nil if the predicate
is not known.
*/
func (s *Schema) Predicate(name string) *Predicate {
	return s.predicates[name]
}

/*
Types returns the names of all registered document types.
*/
func (s *Schema) Types() []string {
	ret := make([]string, 0, len(s.types))

	for t := range s.types {
		ret = append(ret, t)
	}

	return ret
}

/*
IsSubtype checks if a given type is the same as or a subtype of
another type.
*/
func (s *Schema) IsSubtype(concrete string, base string) bool {
	if concrete == base {
		return true
	}

	return s.ancestors[concrete][base]
}

/*
IsCompatible checks if a given concrete type qualifies for a list of
allowed types. A type qualifies if it is listed itself or if one of
its registered ancestors is listed.
*/
func (s *Schema) IsCompatible(concrete string, allowed []string) bool {
	for _, a := range allowed {
		if s.IsSubtype(concrete, a) {
			return true
		}
	}

	return false
}
