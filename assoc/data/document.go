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
Package data contains classes and functions to handle store data.

Documents

Documents are items stored in the document store. The storeDocument
object is the minimal implementation of the Document interface and
represents a simple document. Documents have attributes which may or
may not be presentable as a string. Setting a nil value to an attribute
is equivalent to removing the attribute. Every persisted document
carries a unique id and an opaque revision which changes on every
write.

Resources

Resources are documents which describe a registered entity. They carry
a type, a lifecycle state, an availability state and a name. Resources
may also carry keywords and alternative ids.

Associations

Associations are documents which represent a directed typed edge
between two other documents. Associations reference their endpoints by
id only - they do not own them.
*/
package data

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

/*
Document models a document in the store
*/
type Document interface {

	/*
	   ID returns the unique id of this document.
	*/
	ID() string

	/*
	   Rev returns the revision of this document.
	*/
	Rev() string

	/*
	   Type returns the object type of this document.
	*/
	Type() string

	/*
		Data returns the document data of this document.
	*/
	Data() map[string]interface{}

	/*
		Attr returns an attribute of this document.
	*/
	Attr(attr string) interface{}

	/*
		SetAttr sets an attribute of this document. Setting a nil
		value removes the attribute.
	*/
	SetAttr(attr string, val interface{})

	/*
	   String returns a string representation of this document.
	*/
	String() string
}

/*
DocumentID is the id attribute of a document
*/
const DocumentID = "_id"

/*
DocumentRev is the revision attribute of a document
*/
const DocumentRev = "_rev"

/*
DocumentType is the object type attribute of a document
*/
const DocumentType = "type_"

/*
storeDocument data structure.
*/
type storeDocument struct {
	data map[string]interface{} // Data which is held by this document
}

/*
NewDocument creates a new Document instance of a given object type.
*/
func NewDocument(doctype string) Document {
	return &storeDocument{map[string]interface{}{DocumentType: doctype}}
}

/*
NewDocumentFromMap creates a new Document instance.
*/
func NewDocumentFromMap(data map[string]interface{}) Document {
	return &storeDocument{data}
}

/*
ID returns the unique id of this document.
*/
func (sd *storeDocument) ID() string {
	return sd.stringAttr(DocumentID)
}

/*
Rev returns the revision of this document.
*/
func (sd *storeDocument) Rev() string {
	return sd.stringAttr(DocumentRev)
}

/*
Type returns the object type of this document.
*/
func (sd *storeDocument) Type() string {
	return sd.stringAttr(DocumentType)
}

/*
Data returns the document data of this document.
*/
func (sd *storeDocument) Data() map[string]interface{} {
	return sd.data
}

/*
Attr returns an attribute of this document.
*/
func (sd *storeDocument) Attr(attr string) interface{} {
	val, _ := sd.data[attr]
	return val
}

/*
SetAttr sets an attribute of this document. Setting a nil
value removes the attribute.
*/
func (sd *storeDocument) SetAttr(attr string, val interface{}) {
	if val != nil {
		sd.data[attr] = val
	} else {
		delete(sd.data, attr)
	}
}

/*
Return the value of an attribute as a string. Or an
empty string if it can't be represented as a string.
*/
func (sd *storeDocument) stringAttr(attr string) string {
	val, found := sd.data[attr]

	if st, ok := val.(string); found && ok {
		return st
	} else if st, ok := val.(fmt.Stringer); found && ok {
		return st.String()
	}

	return ""
}

/*
stringsAttr returns the value of an attribute as a list of strings.
Single strings are wrapped, mixed lists are converted element-wise.
*/
func (sd *storeDocument) stringsAttr(attr string) []string {
	val, found := sd.data[attr]

	if !found || val == nil {
		return nil
	}

	switch v := val.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	case []interface{}:
		ret := make([]string, 0, len(v))
		for _, item := range v {
			ret = append(ret, fmt.Sprint(item))
		}
		return ret
	}

	return nil
}

/*
String returns a string representation of this document.
*/
func (sd *storeDocument) String() string {
	return dataToString("Document", sd)
}

/*
dataToString returns a string representation of a data item.
*/
func dataToString(dataType string, sd *storeDocument) string {
	var buf bytes.Buffer
	attrlist := make([]string, 0, len(sd.data))
	maxlen := 0

	for attr := range sd.data {
		attrlist = append(attrlist, attr)
		if alen := len(attr); alen > maxlen {
			maxlen = alen
		}
	}

	sort.StringSlice(attrlist).Sort()

	buf.WriteString(dataType + ":\n")

	buf.WriteString(fmt.Sprintf("    %"+
		strconv.Itoa(maxlen)+"v : %v\n", "id", sd.ID()))
	buf.WriteString(fmt.Sprintf("    %"+
		strconv.Itoa(maxlen)+"v : %v\n", "type", sd.Type()))

	for _, attr := range attrlist {
		if attr == DocumentID || attr == DocumentType {
			continue
		}
		buf.WriteString(fmt.Sprintf("    %"+
			strconv.Itoa(maxlen)+"v : %v\n", attr, sd.data[attr]))
	}

	return buf.String()
}
