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

	"devt.de/krotik/common/datautil"

	"github.com/ateranishi/assocdb/assoc/data"
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/assoc/util"
)

/*
profileDesigns maps profile names to the view designs a store instance
of that profile materializes.
*/
var profileDesigns = map[string][]string{
	ProfileObjects:   {DesignObject, DesignAssociation},
	ProfileResources: {DesignResource, DesignAssociation},
	ProfileEvents:    {DesignEvent},
	ProfileBasic:     {},
}

/*
attributeIndexEntry models a single registered attribute index. Only
registered (type, attribute) combinations are emitted into the
by_attribute view.
*/
type attributeIndexEntry struct {
	resType  string   // Document type the entry applies to
	attrName string   // Name of the attribute in the view key
	path     []string // Path of the attribute within the document
}

/*
attributeIndexes holds all registered attribute indexes. Entries are
expected to be registered once during startup before any documents are
written.
*/
var attributeIndexes = []attributeIndexEntry{
	{"UserInfo", "contact.email", []string{"contact", "email"}},
}

/*
RegisterAttributeIndex registers a document attribute for the
by_attribute view. The attribute is addressed by its path within the
document; nested attributes use one path element per level. Existing
view rows are not rebuilt - the registration must happen before
documents of the given type are written.
*/
func RegisterAttributeIndex(resType string, attrName string, path ...string) {
	attributeIndexes = append(attributeIndexes, attributeIndexEntry{resType, attrName, path})
}

/*
ViewDesigns returns the view definitions for all designs of a given
profile.
*/
func ViewDesigns(profile string) (map[string][]docstore.View, error) {
	designs, ok := profileDesigns[profile]

	if !ok {
		return nil, &util.Error{
			Type:   util.ErrConfiguration,
			Detail: fmt.Sprintf("Unknown store profile: %v", profile),
		}
	}

	ret := make(map[string][]docstore.View)

	for _, design := range designs {
		switch design {
		case DesignResource:
			ret[design] = resourceViews()
		case DesignAssociation:
			ret[design] = associationViews()
		case DesignObject:
			ret[design] = objectViews()
		case DesignEvent:
			ret[design] = eventViews()
		}
	}

	return ret, nil
}

/*
resourceViews returns the views of the resource design. All resource
views except by_lcstate exclude retired resources - the lifecycle view
is how retired resources are found.
*/
func resourceViews() []docstore.View {
	return []docstore.View{

		// by_type: [type, name] - name truncated for bounded key sizes

		{Name: "by_type", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			lcstate, hasState := doc[data.ResourceLCState]
			name, hasName := doc[data.ResourceName]

			if restype != "" && hasState && lcstate != data.StateRetired && hasName {
				emit([]interface{}{restype, truncateName(fmt.Sprint(name))}, nil)
			}
		}},

		// by_lcstate: [axis, state, type, name] - every resource is
		// emitted once per lifecycle axis (0 maturity, 1 availability);
		// retired resources are included so they can be found by state

		{Name: "by_lcstate", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			lcstate, hasState := doc[data.ResourceLCState]
			avail, hasAvail := doc[data.ResourceAvailability]
			name, hasName := doc[data.ResourceName]

			if restype != "" && hasState && hasAvail && hasName {
				keyName := truncateName(fmt.Sprint(name))

				emit([]interface{}{0, lcstate, restype, keyName}, nil)
				emit([]interface{}{1, avail, restype, keyName}, nil)
			}
		}},

		// by_name: [name, type]

		{Name: "by_name", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			name, hasName := doc[data.ResourceName]

			if restype != "" && hasName {
				if lcstate, hasState := doc[data.ResourceLCState]; hasState &&
					lcstate != data.StateRetired {

					emit([]interface{}{fmt.Sprint(name), restype}, nil)
				}
			}
		}},

		// by_keyword: [keyword, type] - one emission per keyword

		{Name: "by_keyword", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			lcstate, hasState := doc[data.ResourceLCState]

			if restype != "" && hasState && lcstate != data.StateRetired {
				for _, kw := range docStringList(doc, data.ResourceKeywords) {
					emit([]interface{}{kw, restype}, nil)
				}
			}
		}},

		// by_nestedtype: [nested type, type] - one emission per
		// object-valued attribute which carries a type

		{Name: "by_nestedtype", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			lcstate, hasState := doc[data.ResourceLCState]

			if restype != "" && hasState && lcstate != data.StateRetired {
				for attr, val := range doc {

					if attr == data.DocumentType {
						continue
					}

					if nested, ok := val.(map[string]interface{}); ok {
						if nestedType := docString(nested, data.DocumentType); nestedType != "" {
							emit([]interface{}{nestedType, restype}, nil)
						}
					}
				}
			}
		}},

		// by_attribute: [type, attribute name, attribute value] - only
		// registered attributes are emitted

		{Name: "by_attribute", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)
			lcstate, hasState := doc[data.ResourceLCState]

			if restype != "" && hasState && lcstate != data.StateRetired {
				for _, entry := range attributeIndexes {

					if entry.resType != restype {
						continue
					}

					if val, err := datautil.GetNestedValue(doc, entry.path); err == nil && val != nil {
						emit([]interface{}{restype, entry.attrName, val}, nil)
					}
				}
			}
		}},

		// by_altid: [id value, namespace] - ids without a namespace
		// prefix use the default namespace

		{Name: "by_altid", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			restype := docString(doc, data.DocumentType)

			if restype != "" && doc[data.ResourceLCState] != data.StateRetired {
				for _, altid := range docStringList(doc, data.ResourceAltIDs) {

					if parts := strings.SplitN(altid, ":", 2); len(parts) == 2 {
						emit([]interface{}{parts[1], parts[0]}, nil)
					} else {
						emit([]interface{}{altid, AltIDDefaultNamespace}, nil)
					}
				}
			}
		}},
	}
}

/*
associationViews returns the views of the association design. All
association views skip retired associations. The emitted value of the
directional views is the association document itself so association
queries need no secondary document fetch.
*/
func associationViews() []docstore.View {
	return []docstore.View{

		// by_sub: [subject, predicate, object type, object]

		{Name: "by_sub", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit([]interface{}{doc[data.AssocSubject], doc[data.AssocPredicate],
					doc[data.AssocObjectType], doc[data.AssocObject]}, doc)
			}
		}},

		// by_obj: [object, predicate, subject type, subject]

		{Name: "by_obj", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit([]interface{}{doc[data.AssocObject], doc[data.AssocPredicate],
					doc[data.AssocSubjectType], doc[data.AssocSubject]}, doc)
			}
		}},

		// by_match: [subject, object, predicate]

		{Name: "by_match", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit([]interface{}{doc[data.AssocSubject], doc[data.AssocObject],
					doc[data.AssocPredicate]}, doc)
			}
		}},

		// by_idpred: [endpoint, predicate] - one emission per endpoint

		{Name: "by_idpred", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit([]interface{}{doc[data.AssocSubject], doc[data.AssocPredicate]}, doc)
				emit([]interface{}{doc[data.AssocObject], doc[data.AssocPredicate]}, doc)
			}
		}},

		// by_id: scalar endpoint id - one emission per endpoint

		{Name: "by_id", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit(doc[data.AssocSubject], doc)
				emit(doc[data.AssocObject], doc)
			}
		}},

		// by_pred: [predicate, subject, object]

		{Name: "by_pred", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit([]interface{}{doc[data.AssocPredicate], doc[data.AssocSubject],
					doc[data.AssocObject]}, doc)
			}
		}},

		// by_bulk: subject -> object id (exact key lookups only)

		{Name: "by_bulk", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit(doc[data.AssocSubject], doc[data.AssocObject])
			}
		}},

		// by_subject_bulk: object -> subject id (exact key lookups only)

		{Name: "by_subject_bulk", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if assocDoc(doc) {
				emit(doc[data.AssocObject], doc[data.AssocSubject])
			}
		}},
	}
}

/*
objectViews returns the views of the plain object design.
*/
func objectViews() []docstore.View {
	return []docstore.View{

		{Name: "by_type", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if doctype := docString(doc, data.DocumentType); doctype != "" {
				emit([]interface{}{doctype}, nil)
			}
		}},
	}
}

/*
eventViews returns the views of the event design. Event documents are
recognised by their origin attribute.
*/
func eventViews() []docstore.View {
	return []docstore.View{

		{Name: "by_time", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if eventDoc(doc) {
				emit([]interface{}{doc[data.EventTimestamp]}, nil)
			}
		}},

		{Name: "by_type", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if eventDoc(doc) {
				emit([]interface{}{doc[data.DocumentType], doc[data.EventTimestamp]}, nil)
			}
		}},

		{Name: "by_origin", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if eventDoc(doc) {
				emit([]interface{}{doc[data.EventOrigin], doc[data.EventTimestamp]}, nil)
			}
		}},

		{Name: "by_origintype", Map: func(doc map[string]interface{}, emit docstore.EmitFunc) {
			if eventDoc(doc) {
				emit([]interface{}{doc[data.EventOrigin], doc[data.DocumentType],
					doc[data.EventTimestamp]}, nil)
			}
		}},
	}
}

/*
assocDoc checks if a given document is a live association document.
*/
func assocDoc(doc map[string]interface{}) bool {
	if docString(doc, data.DocumentType) != data.AssociationType {
		return false
	}

	retired, _ := doc[data.AssocRetired].(bool)

	return !retired
}

/*
eventDoc checks if a given document is an event document.
*/
func eventDoc(doc map[string]interface{}) bool {
	return docString(doc, data.DocumentType) != "" && doc[data.EventOrigin] != nil
}

/*
docString extracts a string attribute from a raw document.
*/
func docString(doc map[string]interface{}, attr string) string {
	s, _ := doc[attr].(string)
	return s
}

/*
docStringList extracts a list of strings from a raw document.
*/
func docStringList(doc map[string]interface{}, attr string) []string {
	switch val := doc[attr].(type) {

	case []string:
		return val

	case []interface{}:
		ret := make([]string, 0, len(val))
		for _, item := range val {
			ret = append(ret, fmt.Sprint(item))
		}
		return ret
	}

	return nil
}

/*
truncateName truncates a name to the maximum number of characters which
are stored in view keys.
*/
func truncateName(name string) string {
	if len(name) > IndexNameTruncation {
		return name[:IndexNameTruncation]
	}

	return name
}
