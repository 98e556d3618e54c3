package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/scenario"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/config"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute one scenario from a YAML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.Load(v.GetString("scenario"))
			if err != nil {
				return err
			}
			result, err := scenario.Compute(commandContext(cmd, v), *spec)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), result, v.GetString("output"))
		},
	}
	cmd.Flags().StringP("scenario", "f", "scenario.yaml", "scenario document to compute")
	cmd.Flags().StringP("output", "o", "table", "output format: table, json or csv")
	return cmd
}

func render(w io.Writer, result *core.ScenarioResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "csv":
		return renderCSV(w, result)
	case "table":
		return renderTable(w, result)
	}
	return fmt.Errorf("%w: output format must be table, json or csv, got %q", core.ErrInvalidInput, format)
}

func renderTable(w io.Writer, result *core.ScenarioResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EFFECT\tP [bar]\tT_boil [°C]\tLIQUID [kg/h]\tx [-]\tVAPOR [kg/h]\tDUTY [kW]\tAREA [m²]")
	for _, e := range result.Train.Effects {
		fmt.Fprintf(tw, "%d\t%.3f\t%.1f\t%.1f\t%.4f\t%.1f\t%.1f\t%.1f\n",
			e.Index+1, e.Pressure, e.BoilingTemperature,
			e.Outlet.MassFlow, e.Outlet.SucroseFraction, e.Vapor.MassFlow,
			e.HeatDuty, e.HeatTransferArea)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := result.Train
	fmt.Fprintf(w, "\nTopology: %s (liquid order %v)\n", t.Topology, t.LiquidOrder)
	fmt.Fprintf(w, "Live steam: %.1f kg/h   Evaporation: %.1f kg/h   Economy: %.2f\n",
		t.SteamConsumption, t.TotalEvaporation, t.SteamEconomy)
	fmt.Fprintf(w, "Total area: %.1f m²   Concentrate: %.1f kg/h at %.1f%% sucrose\n",
		t.TotalArea, t.Concentrate.MassFlow, 100*t.Concentrate.SucroseFraction)

	c := result.Crystallization
	fmt.Fprintf(w, "\nCrystallizer endpoint: %.1f °C (solubility %.1f%%)\n", c.EndTemperature, 100*c.SaturationFraction)
	fmt.Fprintf(w, "Crystal yield: %.1f kg/h (%.1f%% of syrup)   Dissolved sucrose: %.1f kg/h   Liquor purity: %.2f\n",
		c.CrystalMass, 100*c.CrystalFraction, c.DissolvedSucrose, c.MotherLiquorPurity)
	return nil
}

func renderCSV(w io.Writer, result *core.ScenarioResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"effect", "pressure_bar", "boiling_c", "liquid_kgh", "fraction", "vapor_kgh", "duty_kw", "area_m2"}); err != nil {
		return err
	}
	for _, e := range result.Train.Effects {
		rec := []string{
			strconv.Itoa(e.Index + 1),
			formatFloat(e.Pressure),
			formatFloat(e.BoilingTemperature),
			formatFloat(e.Outlet.MassFlow),
			formatFloat(e.Outlet.SucroseFraction),
			formatFloat(e.Vapor.MassFlow),
			formatFloat(e.HeatDuty),
			formatFloat(e.HeatTransferArea),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
