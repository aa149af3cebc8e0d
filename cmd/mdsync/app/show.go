// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
)

// showFields leaves out attributes that only some levels have.
const showFields = (mdsysfs.FieldArray | mdsysfs.FieldMembers) &^ mdsysfs.FieldMismatch

func NewShowCommand(o *rootOptions) *cobra.Command {
	var (
		output string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "show ARRAY",
		Short: "Print a snapshot of an md array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c := o.client()
			fields := showFields
			if all {
				fields |= mdsysfs.FieldDevicesAll
			}
			a, err := c.Read(devnm, fields)
			if err != nil {
				return err
			}
			if n, err := c.GetU64(devnm, "", "mismatch_cnt"); err == nil {
				a.MismatchCount = n
			}
			return printObject(cmd.OutOrStdout(), output, a)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: yaml or json")
	cmd.Flags().BoolVar(&all, "all", false, "Include offline members and members without a block device")
	return cmd
}

func NewConfigureCommand(o *rootOptions) *cobra.Command {
	var (
		file          string
		safeModeDelay int64
	)
	cmd := &cobra.Command{
		Use:   "configure ARRAY -f FILE",
		Short: "Push the geometry of a stopped or new array from a snapshot document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c, err := o.array(devnm)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			info := md.NewArraySnapshot(devnm)
			if err := yaml.Unmarshal(data, info); err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", file, err)
			}
			info.SysName = devnm

			if err := c.SetArray(info); err != nil {
				return err
			}
			if safeModeDelay >= 0 {
				if err := c.SetSafeModeDelay(devnm, uint64(safeModeDelay)); err != nil {
					return err
				}
			}
			o.log.Info("Configured array", "array", devnm, "level", info.Level.String(), "consistencyPolicy", info.ConsistencyPolicy.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON snapshot document with the desired configuration")
	cmd.Flags().Int64Var(&safeModeDelay, "safe-mode-delay", -1, "Safe mode delay in milliseconds, negative leaves it unchanged")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
