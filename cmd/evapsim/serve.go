/*
Copyright 2025 The evap-crit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/metrics"
	"github.com/basmalamire-del/evap-crit-PIC11/internal/scenario"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

const serveTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenario computations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd, v)
			logger := logr.FromContextOrDiscard(ctx)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			set := metrics.NewSet(reg)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			mux.HandleFunc("/v1/scenario", scenarioHandler(ctx, set))

			addr := v.GetString("addr")
			srv := &http.Server{
				Addr:         addr,
				Handler:      mux,
				ReadTimeout:  serveTimeout,
				WriteTimeout: serveTimeout,
			}
			logger.Info("serving scenario computations", "addr", addr)
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}

// scenarioHandler computes one scenario per POST request. Computations are
// stateless and share nothing, so concurrent requests need no locking.
func scenarioHandler(ctx context.Context, set *metrics.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var spec config.ScenarioSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			http.Error(w, "malformed scenario document: "+err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		result, err := scenario.Compute(ctx, spec)
		set.Observe(result, err, time.Since(start))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInfeasibleOperatingPoint),
		errors.Is(err, core.ErrNonConvergent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
