// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-logr/logr"

	"github.com/ironcore-dev/mdsync/internal/rules"
)

// DefaultConfigFile is read when no configuration file is given.
const DefaultConfigFile = "/etc/mdadm.conf"

// File holds everything loaded from the configuration file. It is created
// once at startup and handed to the components that need it.
type File struct {
	log logr.Logger

	mux     sync.Mutex
	loaded  bool
	arrays  []ArrayIdent
	devices []string

	// Rules holds the SYSFS rules of the configuration.
	Rules *rules.Store
}

// NewFile returns an empty, unloaded File.
func NewFile(log logr.Logger) *File {
	return &File{
		log:   log,
		Rules: rules.NewStore(),
	}
}

// Load reads the configuration file once. Later calls do nothing. A missing file
// leaves the File empty and unloaded.
func (c *File) Load(file string) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.loaded {
		return nil
	}
	if file == "" {
		file = DefaultConfigFile
	}
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		c.log.V(1).Info("No configuration file", "file", file)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", file, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := c.parse(f); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", file, err)
	}
	c.loaded = true
	c.log.V(1).Info("Loaded configuration", "file", file, "arrays", len(c.arrays), "devices", len(c.devices), "rules", len(c.Rules.Rules()))
	return nil
}

func (c *File) parse(r io.Reader) error {
	lines, err := ReadLines(r)
	if err != nil {
		return err
	}
	for _, line := range lines {
		words := line[1:]
		switch MatchKeyword(line[0]) {
		case KeywordDevice:
			for _, w := range words {
				if len(w) == 0 || w[0] != '/' {
					c.log.Info("Unrecognised word on DEVICE line", "word", w)
					continue
				}
				c.devices = append(c.devices, w)
			}
		case KeywordArray:
			a, err := parseArrayLine(c.log, words)
			if err != nil {
				c.log.Info("Ignoring ARRAY line", "reason", err.Error())
				continue
			}
			c.arrays = append(c.arrays, *a)
		case KeywordSysfs:
			rule, err := rules.ParseLine(c.log, words)
			if err != nil {
				c.log.Info("Ignoring SYSFS line", "reason", err.Error())
				continue
			}
			c.Rules.Add(rule)
		default:
			c.log.Info("Unknown keyword", "keyword", line[0])
		}
	}
	return nil
}

// Loaded reports whether a configuration file has been read.
func (c *File) Loaded() bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.loaded
}

// Arrays returns the ARRAY identities in file order.
func (c *File) Arrays() []ArrayIdent {
	c.mux.Lock()
	defer c.mux.Unlock()
	out := make([]ArrayIdent, len(c.arrays))
	copy(out, c.arrays)
	return out
}

// Ident returns the first ARRAY identity for devName, or the first one at all if
// devName is empty.
func (c *File) Ident(devName string) *ArrayIdent {
	c.mux.Lock()
	defer c.mux.Unlock()
	for i := range c.arrays {
		if devName == "" || c.arrays[i].DevName == devName {
			a := c.arrays[i]
			return &a
		}
	}
	return nil
}

// Devs expands the DEVICE patterns to existing paths.
func (c *File) Devs() ([]string, error) {
	c.mux.Lock()
	patterns := append([]string(nil), c.devices...)
	c.mux.Unlock()

	var devs []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid DEVICE pattern %q: %w", p, err)
		}
		devs = append(devs, matches...)
	}
	return devs, nil
}
