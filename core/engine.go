package core

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/netip"
	"slices"

	"github.com/encodeous/routegen/state"
)

// Result is the outcome of one generation run.
type Result struct {
	Document    state.Document
	Report      state.Report
	Assignments map[state.NodeId][]state.Assignment
}

// Generate runs the whole pipeline over topo: normalization, address
// allocation, identifier derivation, neighbor resolution and assembly.
//
// Malformed routers and links are skipped and address exhaustion leaves the
// remaining links unaddressed; both end up in Result.Report. An error is only
// returned for a missing topology or an invalid configuration. log may be nil.
func Generate(topo *state.Topology, cfg state.GenCfg, log *slog.Logger) (*Result, error) {
	if topo == nil {
		return nil, fmt.Errorf("%w: no topology", state.ErrMissingInput)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := normalize(topo, cfg, log)
	if cfg.Protocol.NeedsPeers() {
		if err := cfg.CheckASNRange(len(n.routers)); err != nil {
			return nil, err
		}
	}
	alloc, err := NewAllocator(cfg.Allocation, cfg.IPBase, cfg.SubnetBits, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	routerIds, err := RouterIdStrategy(cfg.RouterId)
	if err != nil {
		return nil, err
	}
	asns, err := ASNStrategy(cfg.ASN, cfg.ASNBase)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Assignments: make(map[state.NodeId][]state.Assignment),
	}
	res.Report.Skipped = n.skipped

	links := make([]Link, len(n.links))
	for i, rec := range n.links {
		links[i].LinkRecord = rec
		if res.Report.Exhausted != nil {
			res.Report.Unallocated = append(res.Report.Unallocated, i)
			continue
		}
		blk, err := alloc.Next()
		if errors.Is(err, state.ErrAddressSpaceExhausted) {
			log.Warn("address space exhausted", "link", rec.String(), "remaining", len(n.links)-i)
			res.Report.Exhausted = err
			res.Report.Unallocated = append(res.Report.Unallocated, i)
			continue
		}
		if err != nil {
			return nil, err
		}
		if owner, ok := alloc.Owner(blk.B); !ok || owner != blk.Subnet {
			return nil, fmt.Errorf("%w: %s is outside of %s", state.ErrOverlap, blk.B, blk.Subnet)
		}
		links[i].Subnet = blk.Subnet
		res.Assignments[rec.A] = append(res.Assignments[rec.A], state.Assignment{
			Router: rec.A, Iface: rec.AIface, Addr: blk.A, Subnet: blk.Subnet, Link: i,
		})
		res.Assignments[rec.B] = append(res.Assignments[rec.B], state.Assignment{
			Router: rec.B, Iface: rec.BIface, Addr: blk.B, Subnet: blk.Subnet, Link: i,
		})
		log.Debug("allocated link", "link", rec.String(), "subnet", blk.Subnet)
	}

	plan := &Plan{
		Cfg:         cfg,
		Routers:     n.routers,
		Declared:    n.declared,
		Links:       links,
		Assignments: res.Assignments,
	}
	if cfg.Protocol.NeedsRouterId() {
		ids, fallbacks := routerIds.Assign(n.routers)
		plan.RouterIds = make(map[state.NodeId]state.RouterId, len(ids))
		for name, id := range ids {
			plan.RouterIds[name] = state.RouterId(id)
		}
		res.Report.IdFallbacks = fallbacks
		res.Report.RouterIdConflicts = routerIdConflicts(n.routers, plan.RouterIds)
		for _, c := range res.Report.RouterIdConflicts {
			log.Warn("routers share a router id", "id", c.Id, "routers", c.Routers)
		}
	}
	if cfg.Protocol.NeedsPeers() {
		ids, fallbacks := asns.Assign(n.routers)
		plan.ASNs = ids
		res.Report.ASNFallbacks = fallbacks
		plan.Neighbors = ResolveNeighbors(links, res.Assignments, plan.ASNs)
	}
	for _, f := range res.Report.IdFallbacks {
		log.Debug("router id fallback", "router", f)
	}
	for _, f := range res.Report.ASNFallbacks {
		log.Debug("asn fallback", "router", f)
	}

	res.Document = Assemble(plan)
	res.Report.Allocated = state.CoalescePrefix(alloc.Allocated())
	res.Report.Free = state.SubtractPrefix([]netip.Prefix{cfg.IPBase}, res.Report.Allocated)

	log.Info("generated",
		"protocol", cfg.Protocol,
		"routers", len(n.routers),
		"links", len(links),
		"unallocated", len(res.Report.Unallocated),
		"skipped", len(res.Report.Skipped))
	return res, nil
}

func routerIdConflicts(routers []state.NodeId, ids map[state.NodeId]state.RouterId) []state.RouterIdConflict {
	byId := make(map[state.RouterId][]state.NodeId)
	for _, r := range routers {
		byId[ids[r]] = append(byId[ids[r]], r)
	}
	var conflicts []state.RouterIdConflict
	for _, id := range slices.Sorted(maps.Keys(byId)) {
		if len(byId[id]) > 1 {
			conflicts = append(conflicts, state.RouterIdConflict{Id: id, Routers: byId[id]})
		}
	}
	return conflicts
}
