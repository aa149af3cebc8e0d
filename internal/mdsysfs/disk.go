// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"errors"
	"fmt"

	"github.com/ironcore-dev/mdsync/internal/api/md"
)

// insyncCommand is the state command word; the kernel reports the result as in_sync.
const insyncCommand = "insync"

// AddDisk hot-adds dev to array. The steps run in the order the kernel requires:
// the device is registered through new_dev first, which creates its dev-<kname>
// directory, and only then configured.
//
// With resume set and a partial recovery position, recovery_start is probed with a
// zero write first. If the kernel does not accept it the device is removed again,
// since it would otherwise be treated as a plain spare.
//
// AddDisk is not idempotent: a retry after a failure part way through may find the
// device already registered.
func (c *Client) AddDisk(array *md.ArraySnapshot, dev *md.MemberDevice, resume bool) error {
	devnm := array.SysName
	log := c.log.WithValues("array", devnm, "device", fmt.Sprintf("%d:%d", dev.Major, dev.Minor))

	if err := c.SetString(devnm, "", "new_dev", fmt.Sprintf("%d:%d", dev.Major, dev.Minor)); err != nil {
		return fmt.Errorf("failed to register %d:%d with %s: %w", dev.Major, dev.Minor, devnm, err)
	}
	if err := c.InitMember(dev); err != nil {
		return err
	}
	member := dev.SysName

	if resume && dev.RecoveryStart != md.MaxSector {
		if err := c.SetNum(devnm, member, "recovery_start", 0); err != nil {
			log.Info("Kernel cannot resume recovery, removing device again")
			_ = c.SetString(devnm, member, "state", md.MemberStateRemove.Name())
			return fmt.Errorf("recovery_start of %s is not writable: %w", member, err)
		}
	}

	errs := []error{
		c.SetNum(devnm, member, "offset", dev.DataOffset),
		c.SetNum(devnm, member, "size", (dev.ComponentSize+1)/2),
	}

	if !array.Level.IsContainer() {
		if array.ConsistencyPolicy == md.ConsistencyPolicyPPL {
			errs = append(errs,
				c.SetNum(devnm, member, "ppl_sector", dev.PPLSector),
				c.SetNum(devnm, member, "ppl_size", dev.PPLSize),
			)
		}
		if dev.RecoveryStart == md.MaxSector {
			// Fails as long as the array is not started.
			_ = c.SetString(devnm, member, "state", insyncCommand)
		}
		if dev.RaidDisk >= 0 {
			errs = append(errs, c.SetNumSigned(devnm, member, "slot", int64(dev.RaidDisk)))
		}
		if resume {
			_ = c.SetNum(devnm, member, "recovery_start", dev.RecoveryStart)
		}
	}

	if dev.BadBlocks.Supported {
		if err := c.SetString(devnm, member, "state", md.MemberStateExternalBBL.Name()); err != nil {
			// Older kernels cannot track bad blocks for external metadata. That is
			// only acceptable while none are known.
			if len(dev.BadBlocks.Entries) > 0 {
				log.Error(err, "The kernel has no support for bad blocks in external metadata")
				return fmt.Errorf("failed to enable external bad block list of %s: %w", member, err)
			}
		}
		for _, bb := range dev.BadBlocks.Entries {
			errs = append(errs, c.SetString(devnm, member, "bad_blocks", fmt.Sprintf("%d %d\n", bb.Sector, bb.Length)))
		}
	}

	return errors.Join(errs...)
}

// SetMemberState writes a single role to md/<member>/state. The kernel validates
// the transition; callers have to re-read the state to learn the outcome.
func (c *Client) SetMemberState(devnm, member string, role md.MemberState) error {
	name := role.Name()
	if name == md.MemberStateUnknown.String() {
		return fmt.Errorf("cannot write state %q to %s: not a single role", role, member)
	}
	if err := c.SetString(devnm, member, "state", name); err != nil {
		return fmt.Errorf("failed to set %s of %s to %s: %w", member, devnm, name, err)
	}
	return nil
}
