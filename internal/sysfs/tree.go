// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRoot is the sysfs mount point.
const DefaultRoot = "/sys"

// Tree resolves md attribute paths below a sysfs root. Tests point Root at a
// temporary directory that mimics the kernel layout.
type Tree struct {
	Root string
}

// NewTree returns a Tree rooted at root, or at DefaultRoot if root is empty.
func NewTree(root string) Tree {
	if root == "" {
		root = DefaultRoot
	}
	return Tree{Root: root}
}

// BlockPath returns /sys/block/<devnm>/<elem...>.
func (t Tree) BlockPath(devnm string, elem ...string) string {
	return filepath.Join(append([]string{t.Root, "block", devnm}, elem...)...)
}

// ArrayDir returns /sys/block/<devnm>/md.
func (t Tree) ArrayDir(devnm string) string {
	return t.BlockPath(devnm, "md")
}

// ArrayAttr returns /sys/block/<devnm>/md/<attr>.
func (t Tree) ArrayAttr(devnm, attr string) string {
	return filepath.Join(t.ArrayDir(devnm), attr)
}

// MemberAttr returns /sys/block/<devnm>/md/<member>/<attr>. An empty member
// addresses the array itself.
func (t Tree) MemberAttr(devnm, member, attr string) string {
	return filepath.Join(t.ArrayDir(devnm), member, attr)
}

// DevBlockPath returns /sys/dev/block/<major>:<minor>/<elem...>.
func (t Tree) DevBlockPath(major, minor uint32, elem ...string) string {
	return filepath.Join(append([]string{t.Root, "dev", "block", fmt.Sprintf("%d:%d", major, minor)}, elem...)...)
}

// ClassBlockPath returns /sys/class/block/<name>/<elem...>.
func (t Tree) ClassBlockPath(name string, elem ...string) string {
	return filepath.Join(append([]string{t.Root, "class", "block", name}, elem...)...)
}

// ModuleParam returns /sys/module/<module>/parameters/<param>.
func (t Tree) ModuleParam(module, param string) string {
	return filepath.Join(t.Root, "module", module, "parameters", param)
}

// KernelName resolves a device number to its kernel name by following
// /sys/dev/block/<major>:<minor>.
func (t Tree) KernelName(major, minor uint32) (string, error) {
	path := t.DevBlockPath(major, minor)
	link, err := os.Readlink(path)
	if err != nil {
		return "", ioError("readlink", path, err)
	}
	return filepath.Base(link), nil
}

// ListArrays returns the kernel names of all block devices that expose an md directory.
func (t Tree) ListArrays() ([]string, error) {
	dir := filepath.Join(t.Root, "block")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioError("readdir", dir, err)
	}
	var arrays []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "md") {
			continue
		}
		if st, err := os.Stat(t.ArrayDir(e.Name())); err == nil && st.IsDir() {
			arrays = append(arrays, e.Name())
		}
	}
	return arrays, nil
}
