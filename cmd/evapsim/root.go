// Command evapsim is the presentation collaborator of the evaporation and
// crystallization engine: it loads scenario documents, invokes the core, and
// renders results as tables, JSON, or CSV, or serves them over HTTP.
package main

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/logging"
)

const envPrefix = "EVAPSIM"

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "evapsim",
		Short:         "Steady-state sugar evaporation and crystallization scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v.SetEnvPrefix(envPrefix)
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			return v.BindPFlags(cmd.Flags())
		},
	}
	root.PersistentFlags().IntP("verbosity", "v", 0, "log verbosity (0=info, 1=debug, 2=trace)")

	root.AddCommand(newRunCmd(v))
	root.AddCommand(newSweepCmd(v))
	root.AddCommand(newServeCmd(v))
	return root
}

// commandContext returns a context carrying a development logger at the
// configured verbosity.
func commandContext(cmd *cobra.Command, v *viper.Viper) context.Context {
	logger := logging.NewDevLogger(v.GetInt("verbosity"))
	return logr.NewContext(cmd.Context(), logger)
}
