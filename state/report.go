package state

import (
	"errors"
	"fmt"
	"net/netip"
)

type SkipKind string

const (
	SkipRouter SkipKind = "router"
	SkipLink   SkipKind = "link"
	SkipGraph  SkipKind = "graph"
	// SkipIface drops one declared interface; Index is the router position.
	SkipIface  SkipKind = "interface"
)

// Skip records an input item that was left out of the result.
type Skip struct {
	Kind  SkipKind
	Index int // position in the input list, -1 for the whole graph
	Err   error
}

func (s Skip) Error() string {
	if s.Index < 0 {
		return fmt.Sprintf("%s skipped: %v", s.Kind, s.Err)
	}
	return fmt.Sprintf("%s %d skipped: %v", s.Kind, s.Index, s.Err)
}

func (s Skip) Unwrap() error {
	return s.Err
}

type RouterIdConflict struct {
	Id      RouterId
	Routers []NodeId
}

// Report lists everything that degraded the result of a generation run.
type Report struct {
	Skipped []Skip
	// Unallocated holds the indices (into Document.Links) of links that got no addresses.
	Unallocated []int
	// Exhausted is set when allocation stopped early.
	Exhausted error
	// IdFallbacks lists routers whose router id is the fallback value.
	IdFallbacks []NodeId
	// ASNFallbacks lists routers whose ASN could not be read from the name.
	ASNFallbacks      []NodeId
	RouterIdConflicts []RouterIdConflict
	// Allocated is the coalesced set of allocated subnets, Free what is left of the base network.
	Allocated []netip.Prefix
	Free      []netip.Prefix
}

// Err joins every non-fatal problem of the run, or returns nil when there was none.
// Identifier fallbacks are not problems and are left out.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Skipped)+2)
	for _, s := range r.Skipped {
		errs = append(errs, s)
	}
	if r.Exhausted != nil {
		errs = append(errs, fmt.Errorf("%d links left without addresses: %w", len(r.Unallocated), r.Exhausted))
	}
	for _, c := range r.RouterIdConflicts {
		errs = append(errs, fmt.Errorf("router id %s shared by %v", c.Id, c.Routers))
	}
	return errors.Join(errs...)
}
