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
Association models a directed typed edge between two documents
*/
type Association interface {
	Document

	/*
		Subject returns the id of the subject document of this
		association.
	*/
	Subject() string

	/*
		SubjectType returns the object type of the subject document.
	*/
	SubjectType() string

	/*
		Predicate returns the edge type name of this association.
	*/
	Predicate() string

	/*
		Object returns the id of the object document of this
		association.
	*/
	Object() string

	/*
		ObjectType returns the object type of the object document.
	*/
	ObjectType() string

	/*
		Timestamp returns the creation timestamp of this association
		(milliseconds since epoch as a string).
	*/
	Timestamp() string

	/*
		Retired is the soft-delete flag of this association. Retired
		associations are excluded from all association indexes.
	*/
	Retired() bool

	/*
		OtherEnd returns the id of the endpoint which is on the other
		side from the given id.
	*/
	OtherEnd(id string) string
}

/*
AssociationType is the object type of association documents
*/
const AssociationType = "Association"

/*
AssocSubject is the subject id attribute of an association
*/
const AssocSubject = "s"

/*
AssocSubjectType is the subject type attribute of an association
*/
const AssocSubjectType = "st"

/*
AssocPredicate is the predicate attribute of an association
*/
const AssocPredicate = "p"

/*
AssocObject is the object id attribute of an association
*/
const AssocObject = "o"

/*
AssocObjectType is the object type attribute of an association
*/
const AssocObjectType = "ot"

/*
AssocTimestamp is the creation timestamp attribute of an association
*/
const AssocTimestamp = "ts"

/*
AssocRetired is the soft-delete flag attribute of an association
*/
const AssocRetired = "retired"

/*
association data structure.
*/
type association struct {
	*storeDocument
}

/*
NewAssociation creates a new Association instance.
*/
func NewAssociation(subject string, subjectType string, predicate string,
	object string, objectType string) Association {

	return &association{&storeDocument{map[string]interface{}{
		DocumentType:     AssociationType,
		AssocSubject:     subject,
		AssocSubjectType: subjectType,
		AssocPredicate:   predicate,
		AssocObject:      object,
		AssocObjectType:  objectType,
	}}}
}

/*
NewAssociationFromDocument creates a new Association instance from an
existing document.
*/
func NewAssociationFromDocument(doc Document) Association {
	if doc == nil {
		return nil
	}
	return &association{&storeDocument{doc.Data()}}
}

/*
Subject returns the id of the subject document of this association.
*/
func (a *association) Subject() string {
	return a.stringAttr(AssocSubject)
}

/*
SubjectType returns the object type of the subject document.
*/
func (a *association) SubjectType() string {
	return a.stringAttr(AssocSubjectType)
}

/*
Predicate returns the edge type name of this association.
*/
func (a *association) Predicate() string {
	return a.stringAttr(AssocPredicate)
}

/*
Object returns the id of the object document of this association.
*/
func (a *association) Object() string {
	return a.stringAttr(AssocObject)
}

/*
ObjectType returns the object type of the object document.
*/
func (a *association) ObjectType() string {
	return a.stringAttr(AssocObjectType)
}

/*
Timestamp returns the creation timestamp of this association.
*/
func (a *association) Timestamp() string {
	return a.stringAttr(AssocTimestamp)
}

/*
Retired is the soft-delete flag of this association.
*/
func (a *association) Retired() bool {
	retired, _ := a.Attr(AssocRetired).(bool)
	return retired
}

/*
OtherEnd returns the id of the endpoint which is on the other side
from the given id.
*/
func (a *association) OtherEnd(id string) string {
	if id == a.Subject() {
		return a.Object()
	} else if id == a.Object() {
		return a.Subject()
	}
	return ""
}

/*
String returns a string representation of this association.
*/
func (a *association) String() string {
	return dataToString("Association", a.storeDocument)
}
