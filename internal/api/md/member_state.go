// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package md

import (
	"strings"
)

// MemberState is the set of roles reported by md/dev-*/state.
type MemberState uint32

const (
	MemberStateExternalBBL MemberState = 1 << iota
	MemberStateBlocked
	MemberStateSpare
	MemberStateWriteMostly
	MemberStateInSync
	MemberStateFaulty
	MemberStateRemove

	MemberStateUnknown MemberState = 0
)

// memberStateNames is the only place roles are tied to kernel words.
var memberStateNames = []struct {
	state MemberState
	name  string
}{
	{MemberStateExternalBBL, "external_bbl"},
	{MemberStateBlocked, "blocked"},
	{MemberStateSpare, "spare"},
	{MemberStateWriteMostly, "write_mostly"},
	{MemberStateInSync, "in_sync"},
	{MemberStateFaulty, "faulty"},
	{MemberStateRemove, "remove"},
}

// ParseMemberState decodes the comma separated kernel state text.
// Words without a mapping are ignored.
func ParseMemberState(s string) MemberState {
	var state MemberState
	for _, word := range strings.Split(strings.TrimSpace(s), ",") {
		for _, m := range memberStateNames {
			if m.name == word {
				state |= m.state
			}
		}
	}
	return state
}

// Has reports whether all flags in o are set.
func (s MemberState) Has(o MemberState) bool {
	return o != 0 && s&o == o
}

// Name returns the kernel word for a single role, or "unknown".
func (s MemberState) Name() string {
	for _, m := range memberStateNames {
		if m.state == s {
			return m.name
		}
	}
	return "unknown"
}

func (s MemberState) String() string {
	var words []string
	for _, m := range memberStateNames {
		if s&m.state != 0 {
			words = append(words, m.name)
		}
	}
	if len(words) == 0 {
		return "unknown"
	}
	return strings.Join(words, ",")
}

func (s MemberState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MemberState) UnmarshalText(text []byte) error {
	*s = ParseMemberState(string(text))
	return nil
}
