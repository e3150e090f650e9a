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
Package util contains utility classes for the association store.

Error

Models a store related error. Low-level errors should be wrapped in an
Error before they are returned to a client. The Type field can be used
for equality checks so callers can react to a class of failures without
parsing detail strings.
*/
package util

import (
	"errors"
	"fmt"
)

/*
Error is a store related error
*/
type Error struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (se *Error) Error() string {
	if se.Detail != "" {
		return fmt.Sprintf("AssocDB: %v (%v)", se.Type, se.Detail)
	}

	return fmt.Sprintf("AssocDB: %v", se.Type)
}

/*
Request and store related error types
*/
var (
	ErrBadRequest    = errors.New("Invalid request")
	ErrNotFound      = errors.New("Object not found")
	ErrConflict      = errors.New("Revision conflict")
	ErrConfiguration = errors.New("Invalid configuration")
	ErrInvalidData   = errors.New("Invalid data")
)

/*
IsBadRequest checks if a given error is a BadRequest error.
*/
func IsBadRequest(err error) bool {
	return hasType(err, ErrBadRequest)
}

/*
IsNotFound checks if a given error is a NotFound error.
*/
func IsNotFound(err error) bool {
	return hasType(err, ErrNotFound)
}

/*
IsConflict checks if a given error is a Conflict error.
*/
func IsConflict(err error) bool {
	return hasType(err, ErrConflict)
}

func hasType(err error, errType error) bool {
	if se, ok := err.(*Error); ok {
		return se.Type == errType
	}

	return err == errType
}
