// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-logr/logr"

	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
)

// MonitorFields are the snapshot groups the monitor reads.
const MonitorFields = mdsysfs.FieldLevel | mdsysfs.FieldDisks | mdsysfs.FieldArrayState |
	mdsysfs.FieldDevices | mdsysfs.FieldState | mdsysfs.FieldErrors

// Monitor periodically reads array snapshots into an ArrayCollector.
type Monitor struct {
	log       logr.Logger
	client    *mdsysfs.Client
	collector *ArrayCollector
	Interval  time.Duration
	// Arrays limits the monitor to these kernel names; empty means all arrays.
	Arrays []string
}

// NewMonitor creates a new Monitor refreshing collector every interval.
func NewMonitor(log logr.Logger, client *mdsysfs.Client, collector *ArrayCollector, interval time.Duration) *Monitor {
	return &Monitor{
		log:       log,
		client:    client,
		collector: collector,
		Interval:  interval,
	}
}

// Start refreshes the collector immediately and then on every tick until ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	if err := m.Refresh(); err != nil {
		m.log.Error(err, "Failed to read md arrays")
	}

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Monitor stopped")
			return nil
		case <-ticker.C:
			if err := m.Refresh(); err != nil {
				m.log.Error(err, "Failed to read md arrays")
			}
		}
	}
}

// Refresh reads every monitored array once. Arrays that vanished are dropped from
// the collector.
func (m *Monitor) Refresh() error {
	arrays := m.Arrays
	if len(arrays) == 0 {
		var err error
		if arrays, err = m.client.Tree().ListArrays(); err != nil {
			return fmt.Errorf("failed to list md arrays: %w", err)
		}
	}

	var errs []error
	for _, devnm := range arrays {
		a, err := m.client.Read(devnm, MonitorFields)
		if err != nil {
			m.collector.Remove(devnm)
			errs = append(errs, err)
			continue
		}
		// Only redundant levels have mismatch_cnt.
		if n, err := m.client.GetU64(devnm, "", "mismatch_cnt"); err == nil {
			a.MismatchCount = n
		}
		m.collector.Update(a)
		m.log.V(1).Info("Read md array", "array", devnm, "state", a.ArrayState.String(), "failed", a.FailedDisks)
	}

	for _, name := range m.collector.Arrays() {
		if !slices.Contains(arrays, name) {
			m.collector.Remove(name)
		}
	}
	return errors.Join(errs...)
}
