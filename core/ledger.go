package core

import (
	"fmt"
	"net/netip"
	"slices"

	"github.com/encodeous/routegen/state"
	"github.com/gaissmai/bart"
	"go4.org/netipx"
)

// ledger remembers every block handed out so far, plus the ranges that must
// never be handed out.
type ledger struct {
	blocks  bart.Table[netip.Prefix]
	order   []netip.Prefix
	exclude []netip.Prefix
}

func newLedger(exclude []netip.Prefix) *ledger {
	l := &ledger{}
	for _, p := range exclude {
		l.exclude = append(l.exclude, p.Masked())
	}
	slices.SortFunc(l.exclude, netipx.ComparePrefix)
	return l
}

// skipPast returns the first address after every excluded range overlapping
// block. ok is false when block does not touch an excluded range.
func (l *ledger) skipPast(block netip.Prefix) (next netip.Addr, ok bool) {
	last := netipx.PrefixLastIP(block)
	for _, e := range l.exclude {
		if !e.Overlaps(block) {
			continue
		}
		ok = true
		if el := netipx.PrefixLastIP(e); el.Compare(last) > 0 {
			last = el
		}
	}
	return last.Next(), ok
}

func (l *ledger) claim(block netip.Prefix) error {
	if l.blocks.OverlapsPrefix(block) {
		return fmt.Errorf("%w: %s", state.ErrOverlap, block)
	}
	l.blocks.Insert(block, block)
	l.order = append(l.order, block)
	return nil
}

// owner returns the allocated block that contains addr.
func (l *ledger) owner(addr netip.Addr) (netip.Prefix, bool) {
	return l.blocks.Lookup(addr)
}
