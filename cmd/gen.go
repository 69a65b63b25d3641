package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/routegen/core"
	"github.com/encodeous/routegen/state"
	"github.com/spf13/cobra"
)

func newGenCmd() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the per-router configuration data of a topology",
		Long: `Reads a topology file and writes the per-router configuration data as JSON or YAML.
Flags override the settings found in the topology file.`,
		Example: `  routegen gen -t topology.yaml -o routers.json
  routegen gen -t topology.json --protocol bgp --ip-base 2000:1::/64 --asn-base 65000`,
		Args:    cobra.NoArgs,
		GroupID: "gen",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer, err := setupLogger(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			topo, cfg, err := loadInput(cmd)
			if err != nil {
				return err
			}
			res, err := core.Generate(topo, cfg, log)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = formatFor(out)
			}
			data, err := encodeDocument(res.Document, format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
			} else {
				if err = state.PathValidator(out); err != nil {
					return err
				}
				err = os.WriteFile(out, data, 0644)
			}
			if err != nil {
				return err
			}
			log.Debug("wrote document", "output", out, "format", format)

			logReport(log, res.Report)
			if strict, _ := cmd.Flags().GetBool("strict"); strict {
				if err := res.Report.Err(); err != nil {
					return fmt.Errorf("strict mode: %w", err)
				}
			}
			return nil
		},
	}
	addTopologyFlags(genCmd)
	genCmd.Flags().StringP("output", "o", "", "output file, stdout when empty")
	genCmd.Flags().String("format", "", "output format: json or yaml (default from the output extension)")
	genCmd.Flags().Bool("strict", false, "fail when anything was skipped or left without addresses")
	return genCmd
}
