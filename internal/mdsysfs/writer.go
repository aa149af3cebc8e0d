// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package mdsysfs

import (
	"errors"
	"fmt"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

// readonlyMarkerOffset is where an external metadata version carries '-' instead of
// '/' while the array is read-only: "external:-md127/0".
const readonlyMarkerOffset = len(externalPrefix)

// SetArray pushes the configuration in info to a freshly created, stopped or
// inactive array. Failing hard steps are joined into the returned error. When
// the kernel refuses the "ppl" consistency policy info is downgraded to
// "resync" and no error is returned; callers must check the policy afterwards.
func (c *Client) SetArray(info *md.ArraySnapshot) error {
	devnm := info.SysName
	log := c.log.WithValues("array", devnm)

	if info.IsExternal() {
		ver := []byte(externalPrefix + info.TextVersion)
		// A reshape updates geometry of an already configured array; keep its
		// read-only marker.
		cur, err := c.GetString(devnm, "", "metadata_version", sysfs.MaxAttrSize)
		if err == nil && len(cur) > readonlyMarkerOffset && cur[readonlyMarkerOffset] == '-' && len(ver) > readonlyMarkerOffset {
			ver[readonlyMarkerOffset] = '-'
		}
		if err := c.SetString(devnm, "", "metadata_version", string(ver)); err != nil {
			log.Error(err, "This kernel does not support external metadata")
			return fmt.Errorf("failed to set external metadata version of %s: %w", devnm, err)
		}
	}

	// The level has to be set through another path for personalities without geometry.
	if info.Level < 0 {
		return nil
	}

	var errs []error
	errs = append(errs, c.SetString(devnm, "", "level", info.Level.Name()))

	// The kernel expects the pre-reshape disk count here.
	raidDisks := info.RaidDisks
	if info.ReshapeActive && info.DeltaDisks != md.DeltaDisksUnset {
		raidDisks -= info.DeltaDisks
	}
	errs = append(errs,
		c.SetNumSigned(devnm, "", "raid_disks", int64(raidDisks)),
		c.SetNum(devnm, "", "chunk_size", info.ChunkSize),
		c.SetNum(devnm, "", "layout", info.Layout),
		c.SetNum(devnm, "", "component_size", info.ComponentSize/2),
	)

	if info.CustomArraySize != 0 {
		err := c.SetNum(devnm, "", "array_size", info.CustomArraySize/2)
		if sysfs.IsAbsent(err) {
			log.Info("This kernel does not have the md/array_size attribute, the array may be larger than expected")
			err = nil
		}
		errs = append(errs, err)
	}

	if info.Level.SupportsResync() {
		errs = append(errs, c.SetNum(devnm, "", "resync_start", info.ResyncStart))
	}

	if info.ReshapeActive {
		// new_level only takes effect once the reshape completes and is set elsewhere.
		errs = append(errs,
			c.SetNum(devnm, "", "reshape_position", info.ReshapeProgress),
			c.SetNum(devnm, "", "chunk_size", info.NewChunk),
			c.SetNum(devnm, "", "layout", info.NewLayout),
			c.SetNumSigned(devnm, "", "raid_disks", int64(info.RaidDisks)),
		)
	}

	if info.ConsistencyPolicy == md.ConsistencyPolicyPPL {
		if err := c.SetString(devnm, "", "consistency_policy", info.ConsistencyPolicy.String()); err != nil {
			log.Info("This kernel does not support PPL, falling back to consistency-policy=resync")
			info.ConsistencyPolicy = md.ConsistencyPolicyResync
		}
	}

	return errors.Join(errs...)
}

// SetSafeModeDelay writes the safe mode delay in milliseconds.
func (c *Client) SetSafeModeDelay(devnm string, ms uint64) error {
	return c.SetString(devnm, "", "safe_mode_delay", encodeSafeModeDelay(ms))
}
