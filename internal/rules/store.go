// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// Store holds the rules loaded from configuration. Rules are only ever added,
// and are evaluated in the order they were added.
type Store struct {
	mux   sync.RWMutex
	rules []*Rule
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a rule.
func (s *Store) Add(r *Rule) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.rules = append(s.rules, r)
}

// Rules returns a copy of the rule list.
func (s *Store) Rules() []*Rule {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Matching returns the rules selecting an array with the given device name and UUID.
func (s *Store) Matching(devName string, u uuid.UUID) []*Rule {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var out []*Rule
	for _, r := range s.rules {
		if r.Matches(devName, u) {
			out = append(out, r)
		}
	}
	return out
}

// Apply writes the settings of all rules matching array. devName is the device
// path the array is known by, "/dev/<sys name>" if empty. Settings resolving
// outside the array's md directory are rejected and not written; every failed
// setting is logged and joined into the returned error.
func (s *Store) Apply(log logr.Logger, tree sysfs.Tree, devName string, array *md.ArraySnapshot) error {
	if devName == "" {
		devName = "/dev/" + array.SysName
	}
	log = log.WithValues("array", array.SysName, "device", devName)

	var errs []error
	for _, r := range s.Matching(devName, array.UUID) {
		for _, e := range r.Settings {
			path, err := containedPath(tree, array.SysName, e.Name)
			if err == nil {
				err = sysfs.WriteAttr(path, e.Value)
			}
			if err != nil {
				log.Error(err, "Failed to apply SYSFS rule", "attribute", e.Name, "value", e.Value)
				errs = append(errs, err)
				continue
			}
			log.V(1).Info("Applied SYSFS rule", "attribute", e.Name, "value", e.Value)
		}
	}
	return errors.Join(errs...)
}

// containedPath resolves name below the md directory of devnm and checks that the
// result, with all symlinks followed, stays inside that directory.
func containedPath(tree sysfs.Tree, devnm, name string) (string, error) {
	dir := tree.ArrayDir(devnm)
	path := filepath.Join(dir, name)
	reject := func(err error) (string, error) {
		return "", &sysfs.Error{Kind: sysfs.KindRejected, Op: "resolve", Path: path, Err: err}
	}

	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return reject(err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return reject(err)
	}
	if !strings.HasPrefix(resolved, resolvedDir+string(os.PathSeparator)) {
		return reject(fmt.Errorf("%s is outside of %s", resolved, resolvedDir))
	}
	return resolved, nil
}
