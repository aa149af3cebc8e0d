// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

// DevMDPrefix is the prefix a rule device name must carry.
const DevMDPrefix = "/dev/md"

// Setting is one attribute override of a rule. Name is relative to the array's md
// directory.
type Setting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Rule selects arrays by device name or UUID and carries the attribute overrides
// to apply to them.
type Rule struct {
	DevName  string    `json:"devName,omitempty"`
	UUID     uuid.UUID `json:"uuid,omitempty"`
	UUIDSet  bool      `json:"-"`
	Settings []Setting `json:"settings"`
}

// ParseLine builds a rule from the words of a SYSFS configuration line, keyword
// excluded. Words that cannot be used are reported and skipped. A line without a
// selector yields an error and no rule.
func ParseLine(log logr.Logger, words []string) (*Rule, error) {
	r := &Rule{}
	for _, w := range words {
		switch {
		case hasPrefixFold(w, "name="):
			name := w[len("name="):]
			switch {
			case !strings.HasPrefix(name, DevMDPrefix):
				log.Info("Ignoring invalid md device name", "name", name)
			case r.DevName != "":
				log.Info("Only one device per SYSFS line is allowed", "name", name)
			default:
				r.DevName = name
			}
		case hasPrefixFold(w, "uuid="):
			val := w[len("uuid="):]
			if r.UUIDSet {
				log.Info("Only one uuid per SYSFS line is allowed", "uuid", val)
				continue
			}
			u, err := md.ParseUUID(val)
			if err != nil || u == uuid.Nil {
				log.Info("Ignoring invalid uuid", "uuid", val)
				continue
			}
			r.UUID, r.UUIDSet = u, true
		default:
			name, value, ok := strings.Cut(w, "=")
			if !ok || name == "" || value == "" {
				log.Info("Cannot parse SYSFS setting, ignoring it", "word", w)
				continue
			}
			r.Settings = append(r.Settings, Setting{Name: name, Value: value})
		}
	}

	if r.DevName == "" && !r.UUIDSet {
		return nil, fmt.Errorf("SYSFS line %q has neither a device name nor a uuid", strings.Join(words, " "))
	}
	return r, nil
}

// Matches reports whether the rule selects an array. A rule with a UUID matches
// by UUID only.
func (r *Rule) Matches(devName string, u uuid.UUID) bool {
	if r.UUIDSet {
		return r.UUID == u
	}
	return r.DevName != "" && r.DevName == devName
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
