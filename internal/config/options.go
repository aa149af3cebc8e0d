// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// Options are the tool settings that can be kept in a YAML file instead of flags.
type Options struct {
	SysfsRoot   string        `yaml:"sysfsRoot"`
	ConfigFile  string        `yaml:"configFile"`
	MetricsAddr string        `yaml:"metricsAddr"`
	Interval    time.Duration `yaml:"interval"`
	// Arrays limits the exporter to these kernel names; empty means all.
	Arrays []string `yaml:"arrays,omitempty"`
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		SysfsRoot:   sysfs.DefaultRoot,
		ConfigFile:  DefaultConfigFile,
		MetricsAddr: ":9100",
		Interval:    30 * time.Second,
	}
}

// LoadOptions reads a YAML options file on top of DefaultOptions.
func LoadOptions(file string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(file)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to unmarshal options file %s: %w", file, err)
	}
	if opts.Interval <= 0 {
		return opts, fmt.Errorf("interval must be positive, got %s", opts.Interval)
	}
	return opts, nil
}
