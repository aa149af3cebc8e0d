// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/jaypipes/ghw"

	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// BlockDevice describes a disk or partition and how it is held relative to an array.
type BlockDevice struct {
	Name       string               `json:"name"`
	Path       string               `json:"path,omitempty"`
	Major      uint32               `json:"major"`
	Minor      uint32               `json:"minor"`
	Partition  bool                 `json:"partition,omitempty"`
	Rotational bool                 `json:"rotational"`
	ReadOnly   bool                 `json:"readOnly"`
	Vendor     string               `json:"vendor,omitempty"`
	Model      string               `json:"model,omitempty"`
	Serial     string               `json:"serial,omitempty"`
	WWID       string               `json:"wwid,omitempty"`
	SizeBytes  uint64               `json:"sizeBytes"`
	Holders    mdsysfs.HolderStatus `json:"holders"`
}

// BlockLister returns the block devices of the host.
type BlockLister func() (*ghw.BlockInfo, error)

// Inventory lists the block devices of the host and classifies their holders.
type Inventory struct {
	log    logr.Logger
	client *mdsysfs.Client
	list   BlockLister
}

// NewInventory returns an Inventory backed by ghw.
func NewInventory(log logr.Logger, client *mdsysfs.Client) *Inventory {
	return &Inventory{
		log:    log,
		client: client,
		list: func() (*ghw.BlockInfo, error) {
			return ghw.Block()
		},
	}
}

// WithLister replaces the block device source.
func (i *Inventory) WithLister(list BlockLister) *Inventory {
	i.list = list
	return i
}

// Collect returns all disks and their partitions. For each device the holders are
// classified relative to array; devices that are gone by the time their
// attributes are read are skipped.
func (i *Inventory) Collect(array string) ([]BlockDevice, error) {
	info, err := i.list()
	if err != nil {
		return nil, fmt.Errorf("failed to get block devices: %w", err)
	}

	devices := make([]BlockDevice, 0, len(info.Disks))
	for _, d := range info.Disks {
		dev := BlockDevice{
			Name:      d.Name,
			Path:      d.BusPath,
			Vendor:    d.Vendor,
			Model:     d.Model,
			Serial:    d.SerialNumber,
			WWID:      d.WWN,
			SizeBytes: d.SizeBytes,
		}
		if err := i.complete(&dev, array); err != nil {
			i.log.Info("Skipping block device", "name", d.Name, "reason", err.Error())
			continue
		}
		devices = append(devices, dev)

		for _, p := range d.Partitions {
			part := BlockDevice{
				Name:       p.Name,
				Partition:  true,
				Rotational: dev.Rotational,
				ReadOnly:   p.IsReadOnly,
				SizeBytes:  p.SizeBytes,
			}
			if err := i.complete(&part, array); err != nil {
				i.log.Info("Skipping partition", "name", p.Name, "reason", err.Error())
				continue
			}
			devices = append(devices, part)
		}
	}
	return devices, nil
}

func (i *Inventory) complete(dev *BlockDevice, array string) error {
	tree := i.client.Tree()
	s, err := sysfs.ReadText(tree.ClassBlockPath(dev.Name, "dev"))
	if err != nil {
		return err
	}
	if dev.Major, dev.Minor, err = sysfs.ParseDevNumbers(s); err != nil {
		return err
	}

	if !dev.Partition {
		if dev.Rotational, err = readBool(tree.ClassBlockPath(dev.Name, "queue", "rotational")); err != nil {
			return fmt.Errorf("failed to read rotational state for %s: %w", dev.Name, err)
		}
		if dev.ReadOnly, err = readBool(tree.ClassBlockPath(dev.Name, "ro")); err != nil {
			return fmt.Errorf("failed to read readonly state for %s: %w", dev.Name, err)
		}
	}

	if array != "" {
		if dev.Holders, err = i.client.UniqueHolder(array, dev.Major, dev.Minor); err != nil {
			return err
		}
	}
	return nil
}

func readBool(path string) (bool, error) {
	s, err := sysfs.ReadText(path)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, fmt.Errorf("unable to convert %q to int: %w", s, err)
	}
	return n == 1, nil
}
