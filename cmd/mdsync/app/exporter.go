// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/ironcore-dev/mdsync/internal/metrics"
)

func NewExporterCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Serve md array metrics for Prometheus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExporter(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.options.MetricsAddr, "metrics-bind-address", o.options.MetricsAddr, "The address the metrics endpoint binds to")
	cmd.Flags().DurationVar(&o.options.Interval, "interval", o.options.Interval, "How often arrays are read")
	return cmd
}

func runExporter(ctx context.Context, o *rootOptions) error {
	collector := metrics.NewArrayCollector(crmetrics.Registry)
	collector.MaxAge = 3 * o.options.Interval
	monitor := metrics.NewMonitor(o.log.WithName("monitor"), o.client(), collector, o.options.Interval)
	monitor.Arrays = o.options.Arrays

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(crmetrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              o.options.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			o.log.Error(err, "Failed to shut down metrics server")
		}
	}()
	go func() {
		if err := monitor.Start(ctx); err != nil {
			o.log.Error(err, "Monitor failed")
		}
	}()

	o.log.Info("Serving metrics", "address", o.options.MetricsAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
