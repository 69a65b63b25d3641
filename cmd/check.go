package cmd

import (
	"fmt"
	"io"

	"github.com/encodeous/routegen/core"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Check a topology and report what generation would skip",
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
			if err := printReport(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			return res.Report.Err()
		},
	}
	addTopologyFlags(checkCmd)
	return checkCmd
}

func printReport(w io.Writer, res *core.Result) error {
	doc, report := res.Document, res.Report
	lines := []string{
		fmt.Sprintf("protocol: %s", doc.Protocol),
		fmt.Sprintf("routers: %d", len(doc.Routers)),
		fmt.Sprintf("links: %d (%d without addresses)", len(doc.Links), len(report.Unallocated)),
		fmt.Sprintf("allocated: %v", report.Allocated),
		fmt.Sprintf("free: %v", report.Free),
	}
	for _, s := range report.Skipped {
		lines = append(lines, "skipped: "+s.Error())
	}
	for _, i := range report.Unallocated {
		lines = append(lines, "unallocated: "+doc.Links[i].String())
	}
	for _, name := range report.IdFallbacks {
		lines = append(lines, fmt.Sprintf("fallback router id: %s", name))
	}
	for _, name := range report.ASNFallbacks {
		lines = append(lines, fmt.Sprintf("fallback asn: %s", name))
	}
	for _, c := range report.RouterIdConflicts {
		lines = append(lines, fmt.Sprintf("router id %s shared by %v", c.Id, c.Routers))
	}
	if report.Err() == nil {
		lines = append(lines, "ok")
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
