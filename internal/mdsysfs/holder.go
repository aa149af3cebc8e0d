// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// HolderStatus classifies the holders of a block device relative to one array.
// The bits combine: HolderShared is HolderUnique|HolderOthers.
type HolderStatus int

const (
	// HolderNone means the array does not hold the device.
	HolderNone HolderStatus = 0
	// HolderUnique means the array is the only holder.
	HolderUnique HolderStatus = 1
	// HolderOthers means only other devices hold it.
	HolderOthers HolderStatus = 2
	// HolderShared means the array and other devices hold it.
	HolderShared HolderStatus = 3
)

func (s HolderStatus) String() string {
	switch s {
	case HolderNone:
		return "none"
	case HolderUnique:
		return "unique"
	case HolderOthers:
		return "others"
	case HolderShared:
		return "shared"
	}
	return fmt.Sprintf("HolderStatus(%d)", int(s))
}

// UniqueHolder checks whether devnm holds the block device major:minor, and whether
// it is the only holder. Races are expected to be excluded by the caller holding
// devnm open with O_EXCL.
func (c *Client) UniqueHolder(devnm string, major, minor uint32) (HolderStatus, error) {
	dir := c.tree.DevBlockPath(major, minor, "holders")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return HolderNone, &sysfs.Error{Kind: sysfs.KindIO, Op: "readdir", Path: dir, Err: err}
	}

	status := HolderNone
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		link, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil || link == "" {
			continue
		}
		i := strings.LastIndex(link, "/")
		if i < 0 {
			continue
		}
		if link[i+1:] == devnm {
			status |= HolderUnique
		} else {
			status |= HolderOthers
		}
	}
	return status, nil
}

// DiskToSCSIID returns the SCSI address of a block device packed as
// host<<24 | bus<<16 | target<<8 | lun.
func (c *Client) DiskToSCSIID(major, minor uint32) (uint32, error) {
	dir := c.tree.DevBlockPath(major, minor, "device", "scsi_device")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, &sysfs.Error{Kind: sysfs.KindIO, Op: "readdir", Path: dir, Err: err}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var host, bus, target, lun uint32
		if n, _ := fmt.Sscanf(e.Name(), "%d:%d:%d:%d", &host, &bus, &target, &lun); n == 4 {
			return host<<24 | bus<<16 | target<<8 | lun, nil
		}
	}
	return 0, fmt.Errorf("no SCSI address below %s", dir)
}

// DiskToSCSIIDFile is DiskToSCSIID for an open block device.
func (c *Client) DiskToSCSIIDFile(f *os.File) (uint32, error) {
	major, minor, err := DeviceNumbers(f)
	if err != nil {
		return 0, err
	}
	return c.DiskToSCSIID(major, minor)
}
