package core

import (
	"fmt"
	"net/netip"

	"github.com/encodeous/routegen/state"
	"go4.org/netipx"
)

// Block is the address block of one link and the addresses of its two endpoints.
type Block struct {
	Subnet netip.Prefix
	A      netip.Addr
	B      netip.Addr
}

// Allocator hands out one block per link, in increasing address order.
// Blocks never overlap and are never handed out twice.
type Allocator interface {
	// Next returns the block for the next link. Once it fails with
	// state.ErrAddressSpaceExhausted it keeps failing.
	Next() (Block, error)
	// Owner returns the allocated block containing addr.
	Owner(addr netip.Addr) (netip.Prefix, bool)
	// Allocated returns the blocks handed out so far, in allocation order.
	Allocated() []netip.Prefix
}

type allocator struct {
	*ledger
	policy state.AllocPolicy
	bound  netip.Prefix // blocks must stay inside bound
	bits   int
	cur    netip.Addr
	done   bool
}

// NewAllocator builds the allocator for a block policy.
//
// With state.AllocFixed, base is the first block and the following blocks
// have the same size, directly adjacent in address space. Endpoints get the
// first two usable host addresses of the block.
//
// With state.AllocSequential, base is cut into /subnetBits subnets, taken in
// increasing order until base is used up. Endpoints get the second and third
// address of the subnet.
func NewAllocator(policy state.AllocPolicy, base netip.Prefix, subnetBits int, exclude []netip.Prefix) (Allocator, error) {
	if !base.IsValid() {
		return nil, fmt.Errorf("%w: invalid base network", state.ErrInvalidConfig)
	}
	base = base.Masked()
	bitLen := base.Addr().BitLen()
	a := &allocator{
		ledger: newLedger(exclude),
		policy: policy,
		cur:    base.Addr(),
	}
	switch policy {
	case state.AllocFixed:
		if base.Bits() >= bitLen {
			return nil, fmt.Errorf("%w: block %s holds a single address", state.ErrInvalidConfig, base)
		}
		// the whole address family
		a.bound = netip.PrefixFrom(base.Addr(), 0).Masked()
		a.bits = base.Bits()
	case state.AllocSequential:
		if subnetBits < base.Bits() || subnetBits > bitLen-2 {
			return nil, fmt.Errorf("%w: cannot cut /%d subnets out of %s", state.ErrInvalidConfig, subnetBits, base)
		}
		a.bound = base
		a.bits = subnetBits
	default:
		return nil, fmt.Errorf("%w: unknown allocation policy %q", state.ErrInvalidConfig, policy)
	}
	return a, nil
}

func (a *allocator) Next() (Block, error) {
	for !a.done {
		block := netip.PrefixFrom(a.cur, a.bits)
		if next, excluded := a.skipPast(block); excluded {
			a.advance(next)
			continue
		}
		a.advance(netipx.PrefixLastIP(block).Next())
		if err := a.claim(block); err != nil {
			return Block{}, err
		}
		first, second := a.hosts(block)
		return Block{Subnet: block, A: first, B: second}, nil
	}
	return Block{}, fmt.Errorf("%w: no /%d block left in %s", state.ErrAddressSpaceExhausted, a.bits, a.bound)
}

// advance moves to the block starting at next. An invalid next means the
// address family wrapped around.
func (a *allocator) advance(next netip.Addr) {
	if !next.IsValid() || !a.bound.Contains(next) {
		a.done = true
		return
	}
	a.cur = next
}

func (a *allocator) hosts(block netip.Prefix) (netip.Addr, netip.Addr) {
	network := block.Addr()
	if a.policy == state.AllocFixed && block.Bits() == network.BitLen()-1 {
		// point-to-point blocks have no network or broadcast address
		return network, network.Next()
	}
	return network.Next(), network.Next().Next()
}

func (a *allocator) Owner(addr netip.Addr) (netip.Prefix, bool) {
	return a.owner(addr)
}

func (a *allocator) Allocated() []netip.Prefix {
	return append([]netip.Prefix(nil), a.order...)
}
