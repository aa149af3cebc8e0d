// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// Client synchronizes md array state with the kernel attribute tree. It holds no
// descriptors between calls and is safe to share, but the kernel side is not
// transactional: see Freeze.
type Client struct {
	log  logr.Logger
	tree sysfs.Tree
}

// NewClient creates a Client operating on tree.
func NewClient(log logr.Logger, tree sysfs.Tree) *Client {
	return &Client{
		log:  log,
		tree: tree,
	}
}

// Tree returns the sysfs tree the client operates on.
func (c *Client) Tree() sysfs.Tree {
	return c.tree
}

// Init verifies that devnm is an md device, i.e. that /sys/block/<devnm>/md is a directory.
func (c *Client) Init(devnm string) error {
	if devnm == "" {
		return fmt.Errorf("empty md device name")
	}
	dir := c.tree.ArrayDir(devnm)
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%s is not an md device: %w", devnm, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not an md device: %s is not a directory", devnm, dir)
	}
	return nil
}

// InitMember sets the member's sys name from its device numbers.
func (c *Client) InitMember(dev *md.MemberDevice) error {
	kname, err := c.tree.KernelName(dev.Major, dev.Minor)
	if err != nil {
		return fmt.Errorf("failed to resolve kernel name of %d:%d: %w", dev.Major, dev.Minor, err)
	}
	dev.SysName = md.MemberPrefix + kname
	return nil
}

// DeviceNumbers returns the major and minor number of an open block device.
func DeviceNumbers(f *os.File) (major, minor uint32, err error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, 0, err
	}
	var (
		st   unix.Stat_t
		serr error
	)
	if err := rc.Control(func(fd uintptr) {
		serr = unix.Fstat(int(fd), &st)
	}); err != nil {
		return 0, 0, err
	}
	if serr != nil {
		return 0, 0, fmt.Errorf("failed to stat %s: %w", f.Name(), serr)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFBLK {
		return 0, 0, fmt.Errorf("%s is not a block device", f.Name())
	}
	return unix.Major(uint64(st.Rdev)), unix.Minor(uint64(st.Rdev)), nil
}

// Devnm returns the kernel name of the md device open in f.
func (c *Client) Devnm(f *os.File) (string, error) {
	major, minor, err := DeviceNumbers(f)
	if err != nil {
		return "", err
	}
	return c.tree.KernelName(major, minor)
}
