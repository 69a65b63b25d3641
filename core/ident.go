package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/encodeous/routegen/state"
)

// IdentifierStrategy derives one numeric identifier per router.
type IdentifierStrategy interface {
	// Assign returns the identifier of every name, and the names that got
	// the fallback value because nothing could be derived for them.
	Assign(names []state.NodeId) (ids map[state.NodeId]uint32, fallbacks []state.NodeId)
}

// nameDigits derives the identifier from the digits in the router name.
type nameDigits struct {
	derive   func(run string) (uint32, bool)
	fallback uint32
}

// ordinal numbers routers by their position in lexicographic order, starting at base+1.
type ordinal struct {
	base uint32
}

// RouterIdStrategy returns the strategy that derives router ids.
func RouterIdStrategy(s state.IdStrategy) (IdentifierStrategy, error) {
	switch s {
	case state.IdFromNameDigits:
		return nameDigits{
			derive: func(run string) (uint32, bool) {
				id, ok := routerIdFromRun(run)
				return uint32(id), ok
			},
			fallback: uint32(state.FallbackRouterId),
		}, nil
	case state.IdOrdinal:
		return ordinal{}, nil
	}
	return nil, fmt.Errorf("%w: unknown router id strategy %q", state.ErrInvalidConfig, s)
}

// ASNStrategy returns the strategy that derives autonomous system numbers.
// With digits, a router gets base plus the number in its name, and base
// itself when there is none.
func ASNStrategy(s state.IdStrategy, base uint32) (IdentifierStrategy, error) {
	switch s {
	case state.IdFromNameDigits:
		return nameDigits{
			derive: func(run string) (uint32, bool) {
				n, err := strconv.ParseUint(run, 10, 32)
				if err != nil || uint64(base)+n > math.MaxUint32 {
					return 0, false
				}
				return base + uint32(n), true
			},
			fallback: base,
		}, nil
	case state.IdOrdinal:
		return ordinal{base: base}, nil
	}
	return nil, fmt.Errorf("%w: unknown asn strategy %q", state.ErrInvalidConfig, s)
}

func (s nameDigits) Assign(names []state.NodeId) (map[state.NodeId]uint32, []state.NodeId) {
	ids := make(map[state.NodeId]uint32, len(names))
	var fallbacks []state.NodeId
	for _, name := range names {
		run := longestDigitRun(string(name))
		id, ok := uint32(0), false
		if run != "" {
			id, ok = s.derive(run)
		}
		if !ok {
			id = s.fallback
			fallbacks = append(fallbacks, name)
		}
		ids[name] = id
	}
	return ids, fallbacks
}

func (s ordinal) Assign(names []state.NodeId) (map[state.NodeId]uint32, []state.NodeId) {
	return AssignOrdinal(names, s.base), nil
}

// DeriveRouterId reads the router id out of the router name: the longest run
// of digits n (the first one on ties) gives n.n.n.n. ok is false when the name
// holds no usable number, in which case the fallback id is returned. A run
// worth 0 counts as unusable, so R0 gets the fallback rather than 0.0.0.0,
// and so does a run above 255.
func DeriveRouterId(name state.NodeId) (id state.RouterId, ok bool) {
	if id, ok = routerIdFromRun(longestDigitRun(string(name))); ok {
		return id, true
	}
	return state.FallbackRouterId, false
}

func routerIdFromRun(run string) (state.RouterId, bool) {
	n, err := strconv.ParseUint(run, 10, 8)
	// 0.0.0.0 is not a valid router id
	if err != nil || n == 0 {
		return 0, false
	}
	return state.RouterIdFromOctet(uint8(n)), true
}

func longestDigitRun(s string) string {
	best, start := "", -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start > len(best) {
			best = s[start:i]
		}
		start = -1
	}
	return best
}

// AssignOrdinal sorts the names and numbers them from base+1 in that order.
// The result only depends on the set of names.
func AssignOrdinal(names []state.NodeId, base uint32) map[state.NodeId]uint32 {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	ids := make(map[state.NodeId]uint32, len(sorted))
	for i, name := range sorted {
		ids[name] = base + uint32(i) + 1
	}
	return ids
}
