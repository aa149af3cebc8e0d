// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package md

import (
	"fmt"
	"strconv"
)

// Level is an md personality number.
type Level int

const (
	LevelUnset     Level = -1000000
	LevelContainer Level = -100
	LevelFaulty    Level = -5
	LevelMultipath Level = -4
	LevelLinear    Level = -1
	LevelRaid0     Level = 0
	LevelRaid1     Level = 1
	LevelRaid4     Level = 4
	LevelRaid5     Level = 5
	LevelRaid6     Level = 6
	LevelRaid10    Level = 10
)

type levelName struct {
	name  string
	level Level
}

// The first name for a level is its canonical kernel name.
var levelNames = []levelName{
	{"linear", LevelLinear},
	{"raid0", LevelRaid0},
	{"0", LevelRaid0},
	{"stripe", LevelRaid0},
	{"raid1", LevelRaid1},
	{"1", LevelRaid1},
	{"mirror", LevelRaid1},
	{"raid4", LevelRaid4},
	{"4", LevelRaid4},
	{"raid5", LevelRaid5},
	{"5", LevelRaid5},
	{"multipath", LevelMultipath},
	{"mp", LevelMultipath},
	{"raid6", LevelRaid6},
	{"6", LevelRaid6},
	{"raid10", LevelRaid10},
	{"10", LevelRaid10},
	{"faulty", LevelFaulty},
	{"container", LevelContainer},
}

// ParseLevel maps a kernel level name to a Level. Unknown names yield LevelUnset.
func ParseLevel(s string) Level {
	for _, l := range levelNames {
		if l.name == s {
			return l.level
		}
	}
	return LevelUnset
}

// Name returns the canonical kernel name of the level, or "" if it has none.
func (l Level) Name() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}
	return ""
}

func (l Level) String() string {
	if name := l.Name(); name != "" {
		return name
	}
	return strconv.Itoa(int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts any level name or the numeric level.
func (l *Level) UnmarshalText(text []byte) error {
	s := string(text)
	if lvl := ParseLevel(s); lvl != LevelUnset {
		*l = lvl
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("unknown md level %q", s)
	}
	*l = Level(n)
	return nil
}

// SupportsResync reports whether arrays of this level track a resync position.
func (l Level) SupportsResync() bool {
	return l > 0
}

// IsContainer reports whether the level is the metadata-only container placeholder.
func (l Level) IsContainer() bool {
	return l == LevelContainer
}

// ArrayState mirrors md/array_state.
type ArrayState int

const (
	ArrayStateUnknown ArrayState = iota
	ArrayStateActiveIdle
	ArrayStateActive
	ArrayStateClear
	ArrayStateInactive
	ArrayStateSuspended
	ArrayStateReadonly
	ArrayStateReadAuto
	ArrayStateClean
	ArrayStateWritePending
	ArrayStateBroken
)

var arrayStateNames = map[ArrayState]string{
	ArrayStateActiveIdle:   "active-idle",
	ArrayStateActive:       "active",
	ArrayStateClear:        "clear",
	ArrayStateInactive:     "inactive",
	ArrayStateSuspended:    "suspended",
	ArrayStateReadonly:     "readonly",
	ArrayStateReadAuto:     "read-auto",
	ArrayStateClean:        "clean",
	ArrayStateWritePending: "write-pending",
	ArrayStateBroken:       "broken",
}

// ParseArrayState maps the kernel text to an ArrayState.
func ParseArrayState(s string) ArrayState {
	for state, name := range arrayStateNames {
		if name == s {
			return state
		}
	}
	return ArrayStateUnknown
}

func (s ArrayState) String() string {
	if name, ok := arrayStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s ArrayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ArrayState) UnmarshalText(text []byte) error {
	*s = ParseArrayState(string(text))
	return nil
}

// ConsistencyPolicy mirrors md/consistency_policy.
type ConsistencyPolicy int

const (
	ConsistencyPolicyUnknown ConsistencyPolicy = iota
	ConsistencyPolicyNone
	ConsistencyPolicyResync
	ConsistencyPolicyBitmap
	ConsistencyPolicyJournal
	ConsistencyPolicyPPL
)

var consistencyPolicyNames = []string{
	ConsistencyPolicyUnknown: "unknown",
	ConsistencyPolicyNone:    "none",
	ConsistencyPolicyResync:  "resync",
	ConsistencyPolicyBitmap:  "bitmap",
	ConsistencyPolicyJournal: "journal",
	ConsistencyPolicyPPL:     "ppl",
}

// ParseConsistencyPolicy maps the kernel text to a ConsistencyPolicy.
func ParseConsistencyPolicy(s string) ConsistencyPolicy {
	for p, name := range consistencyPolicyNames {
		if name == s {
			return ConsistencyPolicy(p)
		}
	}
	return ConsistencyPolicyUnknown
}

func (p ConsistencyPolicy) String() string {
	if int(p) >= 0 && int(p) < len(consistencyPolicyNames) {
		return consistencyPolicyNames[p]
	}
	return "unknown"
}

func (p ConsistencyPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ConsistencyPolicy) UnmarshalText(text []byte) error {
	*p = ParseConsistencyPolicy(string(text))
	return nil
}
