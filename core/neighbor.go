package core

import (
	"net/netip"

	"github.com/encodeous/routegen/state"
)

// Link is a normalized link. Subnet is invalid when no block was allocated to it.
type Link struct {
	state.LinkRecord
	Subnet netip.Prefix
}

func (l Link) Allocated() bool {
	return l.Subnet.IsValid()
}

// ResolveNeighbors emits one pair of neighbor records per allocated link. The
// endpoint addresses are looked up by subnet, so parallel links between the
// same routers resolve to distinct peers.
func ResolveNeighbors(links []Link, assignments map[state.NodeId][]state.Assignment, asns map[state.NodeId]uint32) map[state.NodeId][]state.NeighborRecord {
	neighbors := make(map[state.NodeId][]state.NeighborRecord)
	for _, l := range links {
		if !l.Allocated() {
			continue
		}
		a, okA := findBySubnet(assignments[l.A], l.Subnet)
		b, okB := findBySubnet(assignments[l.B], l.Subnet)
		if !okA || !okB {
			continue
		}
		neighbors[l.A] = append(neighbors[l.A], state.NeighborRecord{
			Name: l.B,
			ASN:  asns[l.B],
			IP:   b.Addr.String(),
		})
		neighbors[l.B] = append(neighbors[l.B], state.NeighborRecord{
			Name: l.A,
			ASN:  asns[l.A],
			IP:   a.Addr.String(),
		})
	}
	return neighbors
}

func findBySubnet(assigns []state.Assignment, subnet netip.Prefix) (state.Assignment, bool) {
	for _, a := range assigns {
		if a.Subnet == subnet {
			return a, true
		}
	}
	return state.Assignment{}, false
}
