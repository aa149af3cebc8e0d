// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
)

func NewSetStateCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-state ARRAY MEMBER ROLE",
		Short: "Request a member role such as faulty, remove or write_mostly",
		Long: "Request a member role such as faulty, remove or write_mostly. The kernel validates the " +
			"transition; run show afterwards to see the resulting state.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c, err := o.array(devnm)
			if err != nil {
				return err
			}
			member := args[1]
			if !strings.HasPrefix(member, md.MemberPrefix) {
				member = md.MemberPrefix + member
			}
			role := md.ParseMemberState(args[2])
			if role == md.MemberStateUnknown {
				return fmt.Errorf("unknown member role %q", args[2])
			}
			return c.SetMemberState(devnm, member, role)
		},
	}
}

func NewAddDiskCommand(o *rootOptions) *cobra.Command {
	var (
		slot          int
		offset        uint64
		size          uint64
		resume        bool
		recoveryStart uint64
	)
	cmd := &cobra.Command{
		Use:   "add-disk ARRAY DEVICE",
		Short: "Hot-add a block device to an array",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c, err := o.array(devnm)
			if err != nil {
				return err
			}
			array, err := c.Read(devnm, mdsysfs.FieldLevel|mdsysfs.FieldComponent|mdsysfs.FieldConsistencyPolicy)
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer func() {
				_ = f.Close()
			}()
			major, minor, err := mdsysfs.DeviceNumbers(f)
			if err != nil {
				return err
			}

			dev := &md.MemberDevice{
				Major:         major,
				Minor:         minor,
				RaidDisk:      slot,
				DataOffset:    offset,
				ComponentSize: size,
				RecoveryStart: md.MaxSector,
			}
			if dev.ComponentSize == 0 {
				dev.ComponentSize = array.ComponentSize
			}
			if cmd.Flags().Changed("recovery-start") {
				dev.RecoveryStart = recoveryStart
			}
			if err := c.AddDisk(array, dev, resume); err != nil {
				return err
			}
			o.log.Info("Added device", "array", devnm, "member", dev.SysName)
			return nil
		},
	}
	cmd.Flags().IntVar(&slot, "slot", -1, "Slot to place the device in, -1 adds it as spare")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "Data offset in sectors")
	cmd.Flags().Uint64Var(&size, "size", 0, "Usable size in sectors, defaults to the array component size")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume an interrupted recovery")
	cmd.Flags().Uint64Var(&recoveryStart, "recovery-start", 0, "Sector to resume recovery from")
	return cmd
}
