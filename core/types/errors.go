// Copyright © 2026 Weald Technology Trading.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"github.com/pkg/errors"
)

// Kind is the class of a failed transition.
type Kind uint8

const (
	// KindUnknown is an error that did not originate in the core.
	KindUnknown Kind = iota
	// KindPrecondition is a violated precondition.
	KindPrecondition
	// KindReplay is a duplicate or already-resolved operation.
	KindReplay
	// KindNotFound is a reference to something that does not exist.
	KindNotFound
	// KindUnauthorized is a call from a party without the required role.
	KindUnauthorized
)

var kindStrings = [...]string{
	"unknown",
	"precondition",
	"replay",
	"not found",
	"unauthorized",
}

// String returns a string representation of the kind.
func (k Kind) String() string {
	if int(k) >= len(kindStrings) {
		return kindStrings[0]
	}

	return kindStrings[k]
}

// Error is a classified core error.
type Error struct {
	kind Kind
	msg  string
}

// NewError creates a new classified error.
func NewError(kind Kind, msg string) *Error {
	return &Error{
		kind: kind,
		msg:  msg,
	}
}

// Error returns the message of the error.
func (e *Error) Error() string {
	return e.msg
}

// Kind returns the class of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the class of the first classified error in the chain.
func KindOf(err error) Kind {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr.kind
	}

	return KindUnknown
}
