// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

// ArrayIdent identifies an array declared on an ARRAY line.
type ArrayIdent struct {
	DevName    string    `json:"devName"`
	UUID       uuid.UUID `json:"uuid,omitempty"`
	UUIDSet    bool      `json:"-"`
	SuperMinor int       `json:"superMinor"`
	Devices    string    `json:"devices,omitempty"`
	SpareGroup string    `json:"spareGroup,omitempty"`
	Level      md.Level  `json:"level"`
	RaidDisks  int       `json:"raidDisks"`
	Name       string    `json:"name,omitempty"`
}

// hasIdentity reports whether the ident carries anything an array can be matched by.
func (a *ArrayIdent) hasIdentity() bool {
	return a.UUIDSet || a.Devices != "" || a.SuperMinor >= 0 || a.Name != ""
}

// MatchesDevice reports whether devname matches one of the ident's device patterns.
func (a *ArrayIdent) MatchesDevice(devname string) bool {
	return MatchOneOf(a.Devices, devname)
}

// parseArrayLine builds an ArrayIdent from the words of an ARRAY line, keyword
// excluded. Unusable words are reported and skipped.
func parseArrayLine(log logr.Logger, words []string) (*ArrayIdent, error) {
	a := &ArrayIdent{SuperMinor: -1, Level: md.LevelUnset, RaidDisks: -1}
	for _, w := range words {
		key, val, _ := strings.Cut(w, "=")
		switch {
		case strings.HasPrefix(w, "/"):
			if a.DevName != "" {
				log.Info("Only one device per ARRAY line is allowed", "device", a.DevName, "ignored", w)
				continue
			}
			a.DevName = w
		case strings.EqualFold(key, "uuid"):
			if a.UUIDSet {
				log.Info("Only specify uuid once", "ignored", w)
				continue
			}
			u, err := md.ParseUUID(val)
			if err != nil {
				log.Info("Ignoring bad uuid", "uuid", val)
				continue
			}
			a.UUID, a.UUIDSet = u, true
		case strings.EqualFold(key, "super-minor"):
			if a.SuperMinor >= 0 {
				log.Info("Only specify super-minor once", "ignored", w)
				continue
			}
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				log.Info("Ignoring invalid super-minor number", "value", val)
				continue
			}
			a.SuperMinor = n
		case strings.EqualFold(key, "devices"):
			if a.Devices != "" {
				log.Info("Only specify devices once, use a comma separated list", "ignored", w)
				continue
			}
			a.Devices = val
		case strings.EqualFold(key, "spare-group"):
			if a.SpareGroup != "" {
				log.Info("Only specify one spare group per array", "ignored", w)
				continue
			}
			a.SpareGroup = val
		case strings.EqualFold(key, "level"):
			a.Level = md.ParseLevel(val)
		case strings.EqualFold(key, "disks") || strings.EqualFold(key, "num-devices"):
			n, err := strconv.Atoi(val)
			if err != nil {
				log.Info("Ignoring invalid number of disks", "value", val)
				continue
			}
			a.RaidDisks = n
		case strings.EqualFold(key, "name"):
			a.Name = val
		default:
			log.Info("Unrecognised word on ARRAY line", "word", w)
		}
	}

	switch {
	case a.DevName == "":
		return nil, fmt.Errorf("ARRAY line without a device: %q", strings.Join(words, " "))
	case !a.hasIdentity():
		return nil, fmt.Errorf("ARRAY line %s has no identity information", a.DevName)
	}
	return a, nil
}

// MatchOneOf reports whether devname matches one of the comma separated shell
// patterns in patterns. '*' does not match '/'.
func MatchOneOf(patterns, devname string) bool {
	for _, p := range strings.Split(patterns, ",") {
		if p == "" {
			continue
		}
		if ok, err := path.Match(p, devname); err == nil && ok {
			return true
		}
	}
	return false
}
