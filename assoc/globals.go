/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package assoc contains the main API to the association store.

Manager API

The main API is provided by a Manager object which can be created with
the NewManager() constructor function. The manager provides CRUD
functionality for documents through create, read, update and delete
functions. It also provides typed associations (directed edges) between
documents and the query functionality to traverse them.

Associations

An association is a directed typed edge between two documents. Every
association has a predicate which declares which document types may
appear on which side of the edge. Type membership is checked against
the type hierarchy of the schema - a subtype of an allowed type also
qualifies. Associations reference their endpoints by id only; deleting
a referenced document does not remove its associations unless the
delete is requested with cascading.

Views

All queries run against named views of the underlying document store.
A view maps every document to zero or more composite key emissions
which the store keeps sorted by its collation. Which views a store
instance materializes is selected through a profile. The composite key
shapes of the defined views are a persisted schema contract - changing
a key shape requires redefining and rebuilding the corresponding view.

Range queries

Find operations turn their arguments into a key prefix and scan the
relevant view from the prefix to the prefix extended with a maximal
sentinel value. This returns every row whose key extends the given
prefix in a single pass. All find operations support pagination
(limit, skip, descending) which is forwarded to the store unmodified.
*/
package assoc

// Store profiles
// ==============

/*
ProfileObjects is the profile for stores holding plain objects
*/
const ProfileObjects = "OBJECTS"

/*
ProfileResources is the profile for stores holding registered resources
*/
const ProfileResources = "RESOURCES"

/*
ProfileEvents is the profile for stores holding event records
*/
const ProfileEvents = "EVENTS"

/*
ProfileBasic is the profile for stores without any views
*/
const ProfileBasic = "BASIC"

// View designs
// ============

/*
DesignResource is the design holding all resource views
*/
const DesignResource = "resource"

/*
DesignAssociation is the design holding all association views
*/
const DesignAssociation = "association"

/*
DesignObject is the design holding all plain object views
*/
const DesignObject = "object"

/*
DesignEvent is the design holding all event views
*/
const DesignEvent = "event"

/*
IndexNameTruncation is the maximum number of name characters which are
stored in resource view keys
*/
const IndexNameTruncation = 200

/*
AltIDDefaultNamespace is the namespace under which alternative ids
without a namespace prefix are indexed
*/
const AltIDDefaultNamespace = "_"
