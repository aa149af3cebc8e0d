// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironcore-dev/mdsync/internal/api/md"
	"github.com/ironcore-dev/mdsync/internal/config"
)

func NewApplyRulesCommand(o *rootOptions) *cobra.Command {
	var (
		devName string
		uuidArg string
	)
	cmd := &cobra.Command{
		Use:   "apply-rules [ARRAY...]",
		Short: "Write the SYSFS rules of the configuration file to matching arrays",
		Long: "Write the SYSFS rules of the configuration file to matching arrays. Without arguments " +
			"all arrays are considered. A rule selects arrays by name=/dev/md... or by uuid=; the UUID " +
			"of an array is taken from its ARRAY line unless --uuid is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewFile(o.log)
			if err := cfg.Load(o.options.ConfigFile); err != nil {
				return err
			}
			c := o.client()

			arrays := args
			if len(arrays) == 0 {
				var err error
				if arrays, err = c.Tree().ListArrays(); err != nil {
					return err
				}
			}
			if (devName != "" || uuidArg != "") && len(arrays) != 1 {
				return fmt.Errorf("--name and --uuid require exactly one array")
			}

			var errs []error
			for _, arg := range arrays {
				devnm, err := kernelName(arg)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if err := c.Init(devnm); err != nil {
					errs = append(errs, err)
					continue
				}

				array := md.NewArraySnapshot(devnm)
				name := devName
				if name == "" {
					name = "/dev/" + devnm
				}
				if ident := cfg.Ident(name); ident != nil && ident.UUIDSet {
					array.UUID = ident.UUID
				}
				if uuidArg != "" {
					if array.UUID, err = md.ParseUUID(uuidArg); err != nil {
						return err
					}
				}
				if err := cfg.Rules.Apply(o.log, c.Tree(), name, array); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&devName, "name", "", "Device name the array is known by, /dev/<array> if empty")
	cmd.Flags().StringVar(&uuidArg, "uuid", "", "UUID of the array")
	return cmd
}
