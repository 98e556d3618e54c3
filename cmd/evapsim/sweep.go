package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/sensitivity"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

func newSweepCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep one or two parameters around a base scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.Load(v.GetString("scenario"))
			if err != nil {
				return err
			}
			param, err := sensitivity.ParseParameter(v.GetString("param"))
			if err != nil {
				return err
			}
			ctx := commandContext(cmd, v)
			out := cmd.OutOrStdout()

			if second := v.GetString("grid"); second != "" {
				p2, err := sensitivity.ParseParameter(second)
				if err != nil {
					return err
				}
				grid, err := sensitivity.Grid(ctx, *spec, param, p2, v.GetInt("points"), v.GetInt("points"))
				if err != nil {
					return err
				}
				return renderGrid(out, param, p2, grid, v.GetString("output"))
			}

			points, err := sensitivity.Sweep(ctx, *spec, param, sensitivity.DefaultFactors(v.GetInt("points")))
			if err != nil {
				return err
			}
			return renderSweep(out, param, points, v.GetString("output"))
		},
	}
	cmd.Flags().StringP("scenario", "f", "scenario.yaml", "base scenario document")
	cmd.Flags().String("param", string(sensitivity.ParamFeedFlow), "swept parameter: feedFlow, feedFraction or steamPressure")
	cmd.Flags().String("grid", "", "second parameter for a 2-D grid (optional)")
	cmd.Flags().Int("points", sensitivity.DefaultSweepPoints, "points per swept parameter")
	cmd.Flags().StringP("output", "o", "table", "output format: table, json or csv")
	return cmd
}

func renderSweep(w io.Writer, param sensitivity.Parameter, points []sensitivity.Point, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{string(param), "steam_kgh", "area_m2", "economy", "crystal_kgh"}); err != nil {
			return err
		}
		for _, p := range points {
			rec := []string{
				formatFloat(p.Value),
				formatFloat(p.SteamConsumption),
				formatFloat(p.TotalArea),
				formatFloat(p.SteamEconomy),
				formatFloat(p.CrystalMass),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\tSTEAM [kg/h]\tAREA [m²]\tECONOMY\tCRYSTALS [kg/h]\n", param)
		for _, p := range points {
			fmt.Fprintf(tw, "%.4g\t%.1f\t%.1f\t%.2f\t%.1f\n",
				p.Value, p.SteamConsumption, p.TotalArea, p.SteamEconomy, p.CrystalMass)
		}
		return tw.Flush()
	}
	return fmt.Errorf("%w: output format must be table, json or csv, got %q", core.ErrInvalidInput, format)
}

func renderGrid(w io.Writer, p1, p2 sensitivity.Parameter, grid [][]sensitivity.GridCell, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{string(p1), string(p2), "economy"}); err != nil {
			return err
		}
		for _, row := range grid {
			for _, cell := range row {
				if err := cw.Write([]string{formatFloat(cell.X), formatFloat(cell.Y), formatFloat(cell.SteamEconomy)}); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		return cw.Error()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "%s \\ %s", p1, p2)
		for _, cell := range grid[0] {
			fmt.Fprintf(tw, "\t%.4g", cell.Y)
		}
		fmt.Fprintln(tw)
		for _, row := range grid {
			fmt.Fprintf(tw, "%.4g", row[0].X)
			for _, cell := range row {
				fmt.Fprintf(tw, "\t%.2f", cell.SteamEconomy)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}
	return fmt.Errorf("%w: output format must be table, json or csv, got %q", core.ErrInvalidInput, format)
}
