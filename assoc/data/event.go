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
Event models an event record in the store. Events are immutable
documents which describe something which happened to an origin at a
given time.
*/
type Event interface {
	Document

	/*
		Origin returns the id of the entity this event originates from.
	*/
	Origin() string

	/*
		OriginType returns the type of the entity this event originates
		from.
	*/
	OriginType() string

	/*
		Timestamp returns the creation time of this event in
		milliseconds since epoch.
	*/
	Timestamp() string
}

/*
EventOrigin is the origin attribute of an event
*/
const EventOrigin = "origin"

/*
EventOriginType is the origin type attribute of an event
*/
const EventOriginType = "origin_type"

/*
EventTimestamp is the creation time attribute of an event
*/
const EventTimestamp = "ts_created"

/*
event data structure.
*/
type event struct {
	*storeDocument
}

/*
NewEvent creates a new Event instance of a given event type.
*/
func NewEvent(eventType string, origin string, originType string, timestamp string) Event {
	return &event{&storeDocument{map[string]interface{}{
		DocumentType:    eventType,
		EventOrigin:     origin,
		EventOriginType: originType,
		EventTimestamp:  timestamp,
	}}}
}

/*
NewEventFromDocument creates a new Event instance from an existing
document.
*/
func NewEventFromDocument(doc Document) Event {
	if doc == nil {
		return nil
	}
	return &event{&storeDocument{doc.Data()}}
}

/*
Origin returns the id of the entity this event originates from.
*/
func (e *event) Origin() string {
	return e.stringAttr(EventOrigin)
}

/*
OriginType returns the type of the entity this event originates from.
*/
func (e *event) OriginType() string {
	return e.stringAttr(EventOriginType)
}

/*
Timestamp returns the creation time of this event.
*/
func (e *event) Timestamp() string {
	return e.stringAttr(EventTimestamp)
}

/*
String returns a string representation of this event.
*/
func (e *event) String() string {
	return dataToString("Event", e.storeDocument)
}
