// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// SetString writes val to md/<member>/<name> of array devnm. An empty member
// addresses the array itself.
func (c *Client) SetString(devnm, member, name, val string) error {
	path := c.tree.MemberAttr(devnm, member, name)
	err := sysfs.WriteAttr(path, val)
	var serr *sysfs.Error
	if errors.As(err, &serr) && serr.Op == "write" {
		c.log.Error(err, "Failed to write attribute", "path", path, "value", strings.TrimSpace(val))
	}
	return err
}

// SetNum writes an unsigned decimal value.
func (c *Client) SetNum(devnm, member, name string, val uint64) error {
	return c.SetString(devnm, member, name, strconv.FormatUint(val, 10))
}

// SetNumSigned writes a signed decimal value.
func (c *Client) SetNumSigned(devnm, member, name string, val int64) error {
	return c.SetString(devnm, member, name, strconv.FormatInt(val, 10))
}

// AttributeAvailable reports whether md/<member>/<name> exists.
func (c *Client) AttributeAvailable(devnm, member, name string) bool {
	_, err := os.Stat(c.tree.MemberAttr(devnm, member, name))
	return err == nil
}

// GetString returns the raw content of an attribute, bounded by size.
func (c *Client) GetString(devnm, member, name string, size int) (string, error) {
	f, err := sysfs.OpenAttr(c.tree.MemberAttr(devnm, member, name))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()
	return sysfs.ReadBounded(f, size)
}

// GetU64 reads a single numeric attribute.
func (c *Client) GetU64(devnm, member, name string) (uint64, error) {
	f, err := sysfs.OpenAttr(c.tree.MemberAttr(devnm, member, name))
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()
	return sysfs.ReadU64(f)
}

// GetTwo reads a "N (M)" or "N / M" attribute; count tells whether M was present.
func (c *Client) GetTwo(devnm, member, name string) (first, second uint64, count int, err error) {
	f, err := sysfs.OpenAttr(c.tree.MemberAttr(devnm, member, name))
	if err != nil {
		return 0, 0, 0, err
	}
	defer func() {
		_ = f.Close()
	}()
	return sysfs.ReadTwo(f)
}

// Uevent writes event (e.g. "change") to /sys/block/<devnm>/uevent.
func (c *Client) Uevent(devnm, event string) error {
	path := c.tree.BlockPath(devnm, "uevent")
	if err := sysfs.WriteAttr(path, event); err != nil {
		c.log.Error(err, "Failed to trigger uevent", "path", path, "event", event)
		return err
	}
	return nil
}

// ComponentSize returns the per-device size in sectors of the array open in f.
func (c *Client) ComponentSize(f *os.File) (uint64, error) {
	devnm, err := c.Devnm(f)
	if err != nil {
		return 0, err
	}
	s, err := sysfs.ReadText(c.tree.ArrayAttr(devnm, "component_size"))
	if err != nil {
		return 0, err
	}
	kib, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid component size %q: %w", s, err)
	}
	return kib * 2, nil
}

// LibataAllowTPM reports whether libata's allow_tpm parameter is enabled, which
// SATA Opal security commands depend on.
func (c *Client) LibataAllowTPM() bool {
	path := c.tree.ModuleParam("libata", "allow_tpm")
	f, err := os.Open(path)
	if err != nil {
		c.log.V(1).Info("Cannot check libata allow_tpm parameter", "path", path, "error", err.Error())
		return false
	}
	defer func() {
		_ = f.Close()
	}()
	s, err := sysfs.ReadBounded(f, 3)
	if err != nil {
		return false
	}
	return strings.HasPrefix(s, "1")
}

// IsSubarray reports whether an external metadata version refers to a member
// array of a container ("/md127/0" or "-md127/0").
func IsSubarray(textVersion string) bool {
	return strings.HasPrefix(textVersion, "/") || strings.HasPrefix(textVersion, "-")
}

// ContainerDevnm extracts the container's kernel name from a subarray version.
func ContainerDevnm(textVersion string) (string, error) {
	if !IsSubarray(textVersion) {
		return "", fmt.Errorf("%q is not a subarray metadata version", textVersion)
	}
	devnm, _, _ := strings.Cut(textVersion[1:], "/")
	return devnm, nil
}

// AttrMatch reports whether attr, as read from sysfs, equals str. attr may carry a
// trailing newline or a comma followed by more words.
func AttrMatch(attr, str string) bool {
	if !strings.HasPrefix(attr, str) {
		return false
	}
	rest := attr[len(str):]
	return rest == "" || rest[0] == ',' || rest[0] == '\n'
}

// MatchWord returns the index of the first entry of list matching word, or
// len(list) if there is none.
func MatchWord(word string, list []string) int {
	for i, s := range list {
		if AttrMatch(word, s) {
			return i
		}
	}
	return len(list)
}
