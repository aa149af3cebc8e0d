// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// ReadFile reads a snapshot of the md array open in f.
func (c *Client) ReadFile(f *os.File, fields Field) (*md.ArraySnapshot, error) {
	devnm, err := c.Devnm(f)
	if err != nil {
		return nil, err
	}
	return c.Read(devnm, fields)
}

// Read builds a snapshot of array devnm containing the requested field groups.
// Any unreadable or malformed requested attribute fails the whole read. Only the
// absence of a level dependent attribute falls back to a default.
func (c *Client) Read(devnm string, fields Field) (*md.ArraySnapshot, error) {
	if err := c.Init(devnm); err != nil {
		return nil, err
	}
	r := &snapshotReader{tree: c.tree, devnm: devnm, fields: fields}
	a := md.NewArraySnapshot(devnm)
	if err := r.readArray(a); err != nil {
		return nil, err
	}
	if fields.has(FieldDevices | FieldDevicesAll) {
		if err := r.readDevices(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

type snapshotReader struct {
	tree   sysfs.Tree
	devnm  string
	fields Field
}

func (r *snapshotReader) text(member, attr string) (string, error) {
	s, err := sysfs.ReadText(r.tree.MemberAttr(r.devnm, member, attr))
	if err != nil {
		return "", fmt.Errorf("failed to read %s of %s: %w", filepath.Join(member, attr), r.devnm, err)
	}
	return s, nil
}

func (r *snapshotReader) number(member, attr string) (uint64, error) {
	s, err := r.text(member, attr)
	if err != nil {
		return 0, err
	}
	v, err := sysfs.ParseU64(s)
	if err != nil {
		return 0, r.parseErr(member, attr, err)
	}
	return v, nil
}

// optionalNumber reads a level or kernel dependent attribute. Only its absence
// yields def; unreadable or malformed content is an error like for any other attribute.
func (r *snapshotReader) optionalNumber(member, attr string, def uint64) (uint64, error) {
	v, err := r.number(member, attr)
	if sysfs.IsAbsent(err) {
		return def, nil
	}
	return v, err
}

func (r *snapshotReader) parseErr(member, attr string, err error) error {
	return &sysfs.Error{Kind: sysfs.KindParse, Op: "parse", Path: r.tree.MemberAttr(r.devnm, member, attr), Err: err}
}

func (r *snapshotReader) readArray(a *md.ArraySnapshot) error {
	var err error

	if r.fields.has(FieldVersion) {
		s, err := r.text("", "metadata_version")
		if err != nil {
			return err
		}
		if a.MajorVersion, a.MinorVersion, a.TextVersion, err = decodeMetadataVersion(s); err != nil {
			return r.parseErr("", "metadata_version", err)
		}
	}
	if r.fields.has(FieldLevel) {
		s, err := r.text("", "level")
		if err != nil {
			return err
		}
		a.Level = md.ParseLevel(s)
	}
	if r.fields.has(FieldLayout) {
		if a.Layout, err = r.number("", "layout"); err != nil {
			return err
		}
	}
	if r.fields.has(FieldDisks | FieldState) {
		n, err := r.number("", "raid_disks")
		if err != nil {
			return err
		}
		a.RaidDisks = int(n)
	}
	if r.fields.has(FieldComponent) {
		// The kernel reports KiB, the snapshot keeps sectors.
		n, err := r.number("", "component_size")
		if err != nil {
			return err
		}
		a.ComponentSize = n * 2
	}
	if r.fields.has(FieldChunk) {
		if a.ChunkSize, err = r.number("", "chunk_size"); err != nil {
			return err
		}
	}
	if r.fields.has(FieldCache) {
		// Only raid4/5/6 have a stripe cache.
		if a.CacheSize, err = r.optionalNumber("", "stripe_cache_size", 0); err != nil {
			return err
		}
	}
	if r.fields.has(FieldMismatch) {
		if a.MismatchCount, err = r.number("", "mismatch_cnt"); err != nil {
			return err
		}
	}
	if r.fields.has(FieldSafeMode) {
		s, err := r.text("", "safe_mode_delay")
		if err != nil {
			return err
		}
		if a.SafeModeDelay, err = decodeSafeModeDelay(s); err != nil {
			return r.parseErr("", "safe_mode_delay", err)
		}
	}
	if r.fields.has(FieldBitmapLocation) {
		s, err := r.text("", "bitmap/location")
		if err != nil {
			return err
		}
		if a.BitmapOffset, err = decodeBitmapLocation(s); err != nil {
			return r.parseErr("", "bitmap/location", err)
		}
	}
	if r.fields.has(FieldArrayState) {
		s, err := r.text("", "array_state")
		if err != nil {
			return err
		}
		a.ArrayState = md.ParseArrayState(s)
	}
	if r.fields.has(FieldConsistencyPolicy) {
		// Words missing from the table map to unknown, like a missing attribute.
		s, err := r.text("", "consistency_policy")
		switch {
		case sysfs.IsAbsent(err):
			a.ConsistencyPolicy = md.ConsistencyPolicyUnknown
		case err != nil:
			return err
		default:
			a.ConsistencyPolicy = md.ParseConsistencyPolicy(s)
		}
	}
	return nil
}

func (r *snapshotReader) readDevices(a *md.ArraySnapshot) error {
	dir := r.tree.ArrayDir(r.devnm)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list members of %s: %w", r.devnm, err)
	}

	a.ActiveDisks, a.WorkingDisks, a.SpareDisks, a.FailedDisks = 0, 0, 0, 0
	a.Devices = nil
	all := r.fields.has(FieldDevicesAll)

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, md.MemberPrefix) {
			continue
		}

		slot, err := r.text(name, "slot")
		if err != nil {
			gone, lerr := r.memberGone(name)
			if gone {
				continue
			}
			return &sysfs.Error{
				Kind: sysfs.KindInconsistent,
				Op:   "read",
				Path: r.tree.MemberAttr(r.devnm, name, "slot"),
				Err:  errors.Join(err, lerr),
			}
		}

		dev := md.MemberDevice{SysName: name, RaidDisk: -1}
		if n, err := strconv.Atoi(slot); err == nil {
			dev.RaidDisk = n
		}
		a.NrDisks++

		devnum, err := r.text(name, "block/dev")
		if err != nil {
			// Stale reference to a hot removed device.
			if !all {
				continue
			}
		} else if dev.Major, dev.Minor, err = sysfs.ParseDevNumbers(devnum); err != nil {
			return r.parseErr(name, "block/dev", err)
		}

		if !all {
			if state, err := r.text(name, "block/device/state"); err == nil && strings.HasPrefix(state, "offline") {
				continue
			}
		}

		if err := r.readMember(a, &dev); err != nil {
			return err
		}
		a.Devices = append(a.Devices, dev)
	}

	if r.fields.has(FieldState) && a.RaidDisks > 0 {
		a.FailedDisks = a.RaidDisks - a.ActiveDisks - a.SpareDisks
	}
	return nil
}

// memberGone distinguishes a member that is being removed from an inconsistent
// tree: when the block link is gone as well the device has left.
func (r *snapshotReader) memberGone(name string) (bool, error) {
	_, err := os.Readlink(r.tree.MemberAttr(r.devnm, name, "block"))
	if err != nil && !errors.Is(err, syscall.ENAMETOOLONG) {
		return true, nil
	}
	if err == nil {
		err = fmt.Errorf("block link of %s still present", name)
	}
	return false, err
}

func (r *snapshotReader) readMember(a *md.ArraySnapshot, dev *md.MemberDevice) error {
	var err error
	name := dev.SysName

	if r.fields.has(FieldOffset) {
		if dev.DataOffset, err = r.number(name, "offset"); err != nil {
			return err
		}
		if dev.NewDataOffset, err = r.optionalNumber(name, "new_offset", dev.DataOffset); err != nil {
			return err
		}
	}
	if r.fields.has(FieldSize) {
		n, err := r.number(name, "size")
		if err != nil {
			return err
		}
		dev.ComponentSize = n * 2
	}
	if r.fields.has(FieldState) {
		s, err := r.text(name, "state")
		if err != nil {
			return err
		}
		dev.State = md.ParseMemberState(s)
		switch {
		case dev.State.Has(md.MemberStateFaulty):
		case dev.State.Has(md.MemberStateInSync):
			a.WorkingDisks++
			a.ActiveDisks++
		default:
			a.WorkingDisks++
			a.SpareDisks++
		}
	}
	if r.fields.has(FieldErrors) {
		if dev.Errors, err = r.number(name, "errors"); err != nil {
			return err
		}
	}
	if r.fields.has(FieldRecoveryStart) {
		s, err := r.text(name, "recovery_start")
		switch {
		case sysfs.IsAbsent(err):
			dev.RecoveryStart = md.MaxSector
		case err != nil:
			return err
		default:
			if dev.RecoveryStart, err = decodeRecoveryStart(s); err != nil {
				return r.parseErr(name, "recovery_start", err)
			}
		}
	}
	if r.fields.has(FieldBadBlocks) {
		s, err := r.text(name, "bad_blocks")
		switch {
		case sysfs.IsAbsent(err):
			dev.BadBlocks.Supported = false
		case err != nil:
			return err
		default:
			dev.BadBlocks.Supported = true
			if dev.BadBlocks.Entries, err = decodeBadBlocks(s); err != nil {
				return r.parseErr(name, "bad_blocks", err)
			}
		}
	}
	if r.fields.has(FieldPPL) {
		if dev.PPLSector, err = r.optionalNumber(name, "ppl_sector", 0); err != nil {
			return err
		}
		if dev.PPLSize, err = r.optionalNumber(name, "ppl_size", 0); err != nil {
			return err
		}
	}
	return nil
}
