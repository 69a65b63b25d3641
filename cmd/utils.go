package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/encodeous/routegen/core"
	"github.com/encodeous/routegen/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// logOptions reads the persistent logging flags.
func logOptions(cmd *cobra.Command) core.LogOptions {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logPath, _ := cmd.Flags().GetString("log-file")
	asJSON, _ := cmd.Flags().GetBool("json")
	prefix, _ := cmd.Flags().GetString("log-prefix")
	return core.LogOptions{
		Verbose: verbose,
		JSON:    asJSON,
		Path:    logPath,
		Prefix:  prefix,
	}
}

func setupLogger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	log, closer, err := core.NewLogger(logOptions(cmd))
	if err != nil {
		return nil, nil, err
	}
	return core.WithRun(log), closer, nil
}

func readTopology(path string) (*state.Topology, state.GenCfg, error) {
	if path == "" {
		return nil, state.GenCfg{}, fmt.Errorf("%w: no topology file given", state.ErrMissingInput)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, state.GenCfg{}, fmt.Errorf("%w: %w", state.ErrMissingInput, err)
	}
	topo, cfg, err := state.ParseTopology(file)
	if err != nil {
		return nil, state.GenCfg{}, fmt.Errorf("%w: %s: %w", state.ErrUndecodable, path, err)
	}
	return topo, cfg, nil
}

func addTopologyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("topology", "t", "", "topology file (yaml or json)")
	_ = cmd.MarkFlagRequired("topology")
	cmd.Flags().String("protocol", "", "protocol: rip, ospf or bgp")
	cmd.Flags().String("ip-base", "", "base network of the link addresses")
	cmd.Flags().Int("subnet-bits", 0, "prefix length of each link subnet (sequential allocation)")
	cmd.Flags().String("allocation", "", "allocation policy: fixed or sequential")
	cmd.Flags().Uint32("asn-base", 0, "first router gets asn-base + 1")
	cmd.Flags().String("router-id", "", "router id strategy: from-name-digits or ordinal")
	cmd.Flags().String("asn", "", "asn strategy: from-name-digits or ordinal")
	cmd.Flags().StringSlice("exclude", nil, "networks that are never allocated")
	cmd.Flags().Int("auto-slot", 0, "hardware slot of interfaces created for graph links")
}

// loadInput reads the topology file and applies the flags the user set on
// top of the configuration found in it.
func loadInput(cmd *cobra.Command) (*state.Topology, state.GenCfg, error) {
	path, _ := cmd.Flags().GetString("topology")
	topo, cfg, err := readTopology(path)
	if err != nil {
		return nil, cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("protocol") {
		p, _ := flags.GetString("protocol")
		cfg.Protocol = state.Protocol(strings.ToLower(p))
	}
	if flags.Changed("ip-base") {
		s, _ := flags.GetString("ip-base")
		cfg.IPBase, err = netip.ParsePrefix(s)
		if err != nil {
			return nil, cfg, fmt.Errorf("%w: %w", state.ErrInvalidConfig, err)
		}
	}
	if flags.Changed("subnet-bits") {
		cfg.SubnetBits, _ = flags.GetInt("subnet-bits")
	}
	if flags.Changed("allocation") {
		a, _ := flags.GetString("allocation")
		cfg.Allocation = state.AllocPolicy(a)
	}
	if flags.Changed("asn-base") {
		cfg.ASNBase, _ = flags.GetUint32("asn-base")
	}
	if flags.Changed("router-id") {
		s, _ := flags.GetString("router-id")
		cfg.RouterId = state.IdStrategy(s)
	}
	if flags.Changed("asn") {
		s, _ := flags.GetString("asn")
		cfg.ASN = state.IdStrategy(s)
	}
	if flags.Changed("exclude") {
		excludes, _ := flags.GetStringSlice("exclude")
		cfg.Exclude = nil
		for _, e := range excludes {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, cfg, fmt.Errorf("%w: exclude: %w", state.ErrInvalidConfig, err)
			}
			cfg.Exclude = append(cfg.Exclude, p)
		}
	}
	if flags.Changed("auto-slot") {
		cfg.AutoSlot, _ = flags.GetInt("auto-slot")
	}
	return topo, cfg, nil
}

// formatFor picks the output format from the file extension, json by default.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

func encodeDocument(doc state.Document, format string) ([]byte, error) {
	switch format {
	case formatYAML:
		return yaml.Marshal(doc)
	case formatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func logReport(log *slog.Logger, report state.Report) {
	if len(report.IdFallbacks) != 0 {
		log.Info("fallback router ids used", "routers", report.IdFallbacks)
	}
	if len(report.ASNFallbacks) != 0 {
		log.Info("fallback asns used", "routers", report.ASNFallbacks)
	}
	log.Info("address space", "allocated", report.Allocated, "free", report.Free)
}
