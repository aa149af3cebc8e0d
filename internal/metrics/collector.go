// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

type reading struct {
	array     *md.ArraySnapshot
	timestamp time.Time
}

// ArrayCollector exposes the latest snapshot of each array as Prometheus metrics.
type ArrayCollector struct {
	readings map[string]reading
	mux      sync.RWMutex
	// MaxAge drops snapshots that have not been refreshed for this long. Zero keeps them.
	MaxAge time.Duration

	disksDesc        *prometheus.Desc
	raidDisksDesc    *prometheus.Desc
	mismatchDesc     *prometheus.Desc
	arrayStateDesc   *prometheus.Desc
	degradedDesc     *prometheus.Desc
	memberErrorsDesc *prometheus.Desc
	memberStateDesc  *prometheus.Desc
}

// NewArrayCollector initializes a new ArrayCollector and registers it with reg if
// reg is not nil.
func NewArrayCollector(reg prometheus.Registerer) *ArrayCollector {
	c := &ArrayCollector{
		readings: make(map[string]reading),
		disksDesc: prometheus.NewDesc(
			"md_array_disks",
			"Number of member disks of an md array by state",
			[]string{"array", "state"},
			nil,
		),
		raidDisksDesc: prometheus.NewDesc(
			"md_array_raid_disks",
			"Number of configured slots of an md array",
			[]string{"array", "level"},
			nil,
		),
		mismatchDesc: prometheus.NewDesc(
			"md_array_mismatch_count",
			"Number of sectors found inconsistent by the last check or repair",
			[]string{"array"},
			nil,
		),
		arrayStateDesc: prometheus.NewDesc(
			"md_array_state_info",
			"State of an md array",
			[]string{"array", "state"},
			nil,
		),
		degradedDesc: prometheus.NewDesc(
			"md_array_degraded",
			"Whether an md array runs with failed or missing members",
			[]string{"array"},
			nil,
		),
		memberErrorsDesc: prometheus.NewDesc(
			"md_member_errors",
			"Number of read errors corrected on a member device",
			[]string{"array", "member"},
			nil,
		),
		memberStateDesc: prometheus.NewDesc(
			"md_member_state_info",
			"Roles of an md member device",
			[]string{"array", "member", "state"},
			nil,
		),
	}
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// Update stores the snapshot of an array.
func (c *ArrayCollector) Update(a *md.ArraySnapshot) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.readings[a.SysName] = reading{array: a, timestamp: time.Now()}
}

// Remove forgets an array.
func (c *ArrayCollector) Remove(devnm string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	delete(c.readings, devnm)
}

// Arrays returns the names of the arrays with a snapshot.
func (c *ArrayCollector) Arrays() []string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	names := make([]string, 0, len(c.readings))
	for name := range c.readings {
		names = append(names, name)
	}
	return names
}

// Describe and Collect implement the prometheus.Collector interface to expose metrics.
func (c *ArrayCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.disksDesc
	ch <- c.raidDisksDesc
	ch <- c.mismatchDesc
	ch <- c.arrayStateDesc
	ch <- c.degradedDesc
	ch <- c.memberErrorsDesc
	ch <- c.memberStateDesc
}

// Collect sends the metrics of every stored snapshot.
func (c *ArrayCollector) Collect(ch chan<- prometheus.Metric) {
	c.mux.RLock()
	defer c.mux.RUnlock()

	for name, r := range c.readings {
		if c.MaxAge > 0 && time.Since(r.timestamp) > c.MaxAge {
			continue
		}
		a := r.array
		for state, n := range map[string]int{
			"active":  a.ActiveDisks,
			"working": a.WorkingDisks,
			"spare":   a.SpareDisks,
			"failed":  a.FailedDisks,
		} {
			ch <- prometheus.MustNewConstMetric(c.disksDesc, prometheus.GaugeValue, float64(n), name, state)
		}
		ch <- prometheus.MustNewConstMetric(c.raidDisksDesc, prometheus.GaugeValue, float64(a.RaidDisks), name, a.Level.String())
		ch <- prometheus.MustNewConstMetric(c.mismatchDesc, prometheus.GaugeValue, float64(a.MismatchCount), name)
		ch <- prometheus.MustNewConstMetric(c.arrayStateDesc, prometheus.GaugeValue, 1, name, a.ArrayState.String())

		degraded := 0.0
		if a.FailedDisks > 0 {
			degraded = 1
		}
		ch <- prometheus.MustNewConstMetric(c.degradedDesc, prometheus.GaugeValue, degraded, name)

		for _, dev := range a.Devices {
			ch <- prometheus.MustNewConstMetric(c.memberErrorsDesc, prometheus.CounterValue, float64(dev.Errors), name, dev.SysName)
			ch <- prometheus.MustNewConstMetric(c.memberStateDesc, prometheus.GaugeValue, 1, name, dev.SysName, dev.State.String())
		}
	}
}
