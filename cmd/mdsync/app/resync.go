// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/ptr"

	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

func NewFreezeCommand(o *rootOptions) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "freeze ARRAY",
		Short: "Stop background resync and recovery of an array",
		Long: "Stop background resync and recovery of an array. While another sync action such as a " +
			"reshape runs, the command retries until --timeout and never interrupts it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c, err := o.array(devnm)
			if err != nil {
				return err
			}

			var result mdsysfs.FreezeResult
			err = wait.PollUntilContextTimeout(cmd.Context(), interval, timeout, true, func(context.Context) (bool, error) {
				result = c.Freeze(devnm)
				if result == mdsysfs.FreezeBusy {
					o.log.V(1).Info("Array is busy, retrying", "array", devnm)
					return false, nil
				}
				return true, nil
			})
			if err != nil {
				return fmt.Errorf("%s is busy with another sync action: %w", devnm, err)
			}
			if result == mdsysfs.FreezeUnsupported {
				return fmt.Errorf("cannot freeze resync of %s", devnm)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to retry while the array is busy")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Retry interval while the array is busy")
	return cmd
}

func NewThawCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "thaw ARRAY",
		Short: "Let background resync and recovery continue",
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
			return c.Thaw(devnm)
		},
	}
}

func NewWaitCommand(o *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "wait ARRAY ATTRIBUTE",
		Short: "Block until the kernel signals a change of an array attribute",
		Long: "Block until the kernel signals a change of an array attribute such as sync_action or " +
			"array_state. Several attributes share the --timeout budget. Without --timeout the command " +
			"waits forever.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			devnm, err := kernelName(args[0])
			if err != nil {
				return err
			}
			c, err := o.array(devnm)
			if err != nil {
				return err
			}

			var budget *time.Duration
			if timeout > 0 {
				budget = ptr.To(timeout)
			}
			for _, attr := range args[1:] {
				changed, err := waitAttr(c, devnm, attr, budget)
				if err != nil {
					return err
				}
				if changed {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), attr)
					return err
				}
			}
			return fmt.Errorf("timed out waiting for %v of %s", args[1:], devnm)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Total time to wait")
	return cmd
}

func waitAttr(c *mdsysfs.Client, devnm, attr string, budget *time.Duration) (bool, error) {
	f, err := sysfs.OpenAttr(c.Tree().ArrayAttr(devnm, attr))
	if err != nil {
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	// Notifications are only delivered after the attribute has been read.
	if _, err := sysfs.ReadBounded(f, sysfs.MaxAttrSize); err != nil {
		return false, err
	}
	return mdsysfs.Wait(f, budget)
}
