// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironcore-dev/mdsync/internal/probe"
)

func NewHoldersCommand(o *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "holders ARRAY",
		Short: "List block devices and whether ARRAY holds them exclusively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			devices, err := probe.NewInventory(o.log, o.client()).Collect(devnm)
			if err != nil {
				return err
			}
			if output != "" {
				return printObject(cmd.OutOrStdout(), output, devices)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tDEVICE\tSIZE\tMODEL\tHOLDERS")
			for _, d := range devices {
				_, _ = fmt.Fprintf(w, "%s\t%d:%d\t%d\t%s\t%s\n", d.Name, d.Major, d.Minor, d.SizeBytes, d.Model, d.Holders)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: yaml or json, a table if empty")
	return cmd
}
