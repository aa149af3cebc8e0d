// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies attribute failures. Callers branch on it, so acceptable absence is
// kept apart from hard I/O errors.
type Kind int

const (
	// KindIO is an open/read/write failure other than absence.
	KindIO Kind = iota
	// KindAbsent means the attribute does not exist.
	KindAbsent
	// KindPartialWrite means the kernel consumed fewer bytes than requested.
	KindPartialWrite
	// KindParse means the attribute content is malformed or oversized.
	KindParse
	// KindInconsistent means the tree changed underneath a multi-attribute read.
	KindInconsistent
	// KindRejected means a path failed a containment check and was not touched.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindAbsent:
		return "absent"
	case KindPartialWrite:
		return "partial write"
	case KindParse:
		return "parse"
	case KindInconsistent:
		return "inconsistent"
	case KindRejected:
		return "rejected"
	}
	return "unknown"
}

// Error is returned by every attribute primitive.
type Error struct {
	Kind Kind
	Op   string
	Path string
	// Written is set for KindPartialWrite.
	Written int
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindPartialWrite:
		return fmt.Sprintf("%s %s: partial write (%d bytes)", e.Op, e.Path, e.Written)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// IsAbsent reports whether err means the attribute does not exist.
func IsAbsent(err error) bool {
	return IsKind(err, KindAbsent)
}

func ioError(op, path string, err error) *Error {
	kind := KindIO
	if errors.Is(err, fs.ErrNotExist) {
		kind = KindAbsent
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func parseError(path string, err error) *Error {
	return &Error{Kind: KindParse, Op: "parse", Path: path, Err: err}
}
