// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"flag"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/ironcore-dev/mdsync/internal/config"
	"github.com/ironcore-dev/mdsync/internal/mdsysfs"
	"github.com/ironcore-dev/mdsync/internal/sysfs"
)

const Name string = "mdsync"

// rootOptions are shared by all subcommands.
type rootOptions struct {
	optionsFile string
	options     config.Options
	zap         zap.Options

	log logr.Logger
}

func NewCommand() *cobra.Command {
	o := &rootOptions{
		options: config.DefaultOptions(),
		zap:     zap.Options{Development: true},
	}

	root := &cobra.Command{
		Use:           Name,
		Short:         "Inspect and configure Linux md RAID arrays through sysfs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.complete(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.optionsFile, "options", "", "YAML file with tool options; flags given explicitly take precedence")
	flags.StringVar(&o.options.SysfsRoot, "sysfs-root", o.options.SysfsRoot, "Mount point of sysfs")
	flags.StringVar(&o.options.ConfigFile, "config", o.options.ConfigFile, "mdadm configuration file with ARRAY, DEVICE and SYSFS lines")

	goFlags := flag.NewFlagSet(Name, flag.ContinueOnError)
	o.zap.BindFlags(goFlags)
	flags.AddGoFlagSet(goFlags)

	root.AddCommand(
		NewShowCommand(o),
		NewConfigureCommand(o),
		NewSetStateCommand(o),
		NewAddDiskCommand(o),
		NewFreezeCommand(o),
		NewThawCommand(o),
		NewWaitCommand(o),
		NewHoldersCommand(o),
		NewApplyRulesCommand(o),
		NewExporterCommand(o),
	)
	return root
}

// complete builds the logger and merges the options file under explicitly set flags.
func (o *rootOptions) complete(cmd *cobra.Command) error {
	logf.SetLogger(zap.New(zap.UseFlagOptions(&o.zap), zap.WriteTo(cmd.ErrOrStderr())))
	o.log = logf.Log.WithName(Name)

	if o.optionsFile == "" {
		return nil
	}
	fromFile, err := config.LoadOptions(o.optionsFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("sysfs-root") {
		o.options.SysfsRoot = fromFile.SysfsRoot
	}
	if !flags.Changed("config") {
		o.options.ConfigFile = fromFile.ConfigFile
	}
	if f := flags.Lookup("metrics-bind-address"); f == nil || !f.Changed {
		o.options.MetricsAddr = fromFile.MetricsAddr
	}
	if f := flags.Lookup("interval"); f == nil || !f.Changed {
		o.options.Interval = fromFile.Interval
	}
	o.options.Arrays = fromFile.Arrays
	return nil
}

func (o *rootOptions) client() *mdsysfs.Client {
	return mdsysfs.NewClient(o.log, sysfs.NewTree(o.options.SysfsRoot))
}

// array checks that devnm is an md array and returns a client for it.
func (o *rootOptions) array(devnm string) (*mdsysfs.Client, error) {
	c := o.client()
	if err := c.Init(devnm); err != nil {
		return nil, err
	}
	return c, nil
}
