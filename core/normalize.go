package core

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/encodeous/routegen/state"
)

// normalized is the topology after malformed items were dropped and every
// interface reference was translated to a name.
type normalized struct {
	routers  []state.NodeId
	declared map[state.NodeId][]string
	links    []state.LinkRecord
	skipped  []state.Skip
}

type endpoint struct {
	router state.NodeId
	iface  string
}

func normalize(topo *state.Topology, cfg state.GenCfg, log *slog.Logger) *normalized {
	n := &normalized{
		declared: make(map[state.NodeId][]string),
	}
	skip := func(kind state.SkipKind, idx int, err error) {
		s := state.Skip{Kind: kind, Index: idx, Err: fmt.Errorf("%w: %w", state.ErrMalformedInput, err)}
		log.Warn("skipping malformed input", "kind", kind, "index", idx, "err", err)
		n.skipped = append(n.skipped, s)
	}

	known := make(map[state.NodeId]struct{})
	for i, r := range topo.Routers {
		if r.Name == "" {
			skip(state.SkipRouter, i, fmt.Errorf("router has no name"))
			continue
		}
		if err := state.NameValidator(string(r.Name)); err != nil {
			skip(state.SkipRouter, i, err)
			continue
		}
		if _, ok := known[r.Name]; ok {
			skip(state.SkipRouter, i, fmt.Errorf("duplicate router %s", r.Name))
			continue
		}
		known[r.Name] = struct{}{}
		n.routers = append(n.routers, r.Name)
		for _, ref := range r.Interfaces {
			name, err := resolveIface(ref)
			if err != nil {
				skip(state.SkipIface, i, fmt.Errorf("router %s: %w", r.Name, err))
				continue
			}
			if !slices.Contains(n.declared[r.Name], name) {
				n.declared[r.Name] = append(n.declared[r.Name], name)
			}
		}
	}

	used := make(map[endpoint]state.LinkRecord)
	for i, l := range topo.Links {
		rec, err := resolveLink(l, known, used)
		if err != nil {
			skip(state.SkipLink, i, err)
			continue
		}
		n.addLink(rec, used)
	}

	if len(topo.Graph) == 0 {
		return n
	}
	names := make([]string, 0, len(n.routers))
	for _, r := range n.routers {
		names = append(names, string(r))
	}
	pairs, err := state.ParseGraph(topo.Graph, names)
	if err != nil {
		skip(state.SkipGraph, -1, err)
		return n
	}
	ports := make(map[state.NodeId]int)
	nextIface := func(r state.NodeId) string {
		for {
			name := InterfaceName(cfg.AutoSlot, ports[r])
			ports[r]++
			if _, taken := used[endpoint{r, name}]; !taken {
				return name
			}
		}
	}
	for _, p := range pairs {
		rec := state.LinkRecord{A: p.V1, AIface: nextIface(p.V1), B: p.V2}
		rec.BIface = nextIface(p.V2)
		n.addLink(rec, used)
	}
	log.Debug("expanded graph", "links", len(pairs))
	return n
}

func (n *normalized) addLink(rec state.LinkRecord, used map[endpoint]state.LinkRecord) {
	used[endpoint{rec.A, rec.AIface}] = rec
	used[endpoint{rec.B, rec.BIface}] = rec
	n.links = append(n.links, rec)
}

func resolveLink(l state.LinkCfg, known map[state.NodeId]struct{}, used map[endpoint]state.LinkRecord) (state.LinkRecord, error) {
	for _, r := range []state.NodeId{l.A, l.B} {
		if _, ok := known[r]; !ok {
			return state.LinkRecord{}, fmt.Errorf("unknown router %q", r)
		}
	}
	if l.A == l.B {
		return state.LinkRecord{}, fmt.Errorf("link connects %s to itself", l.A)
	}
	aIface, err := resolveIface(l.AIface)
	if err != nil {
		return state.LinkRecord{}, fmt.Errorf("router %s: %w", l.A, err)
	}
	bIface, err := resolveIface(l.BIface)
	if err != nil {
		return state.LinkRecord{}, fmt.Errorf("router %s: %w", l.B, err)
	}
	rec := state.LinkRecord{A: l.A, AIface: aIface, B: l.B, BIface: bIface}
	for _, ep := range []endpoint{{rec.A, rec.AIface}, {rec.B, rec.BIface}} {
		if prev, ok := used[ep]; ok {
			return state.LinkRecord{}, fmt.Errorf("%s %s is already used by link %s", ep.router, ep.iface, prev)
		}
	}
	return rec, nil
}

func resolveIface(ref state.IfaceRef) (string, error) {
	if err := state.IfaceValidator(ref); err != nil {
		return "", err
	}
	if ref.Raw {
		return InterfaceName(ref.Slot, ref.Port), nil
	}
	return ref.Name, nil
}
