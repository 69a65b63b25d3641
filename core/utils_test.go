package core

import (
	"net/netip"

	"github.com/encodeous/routegen/state"
)

// lineTopology builds R1 - R2 - ... - Rn, every link from GigabitEthernet1/0
// of the lower router to GigabitEthernet2/0 of the next one.
func lineTopology(n int) *state.Topology {
	topo := &state.Topology{}
	for i := 1; i <= n; i++ {
		topo.Routers = append(topo.Routers, state.RouterCfg{Name: routerName(i)})
	}
	for i := 1; i < n; i++ {
		topo.Links = append(topo.Links, state.LinkCfg{
			A:      routerName(i),
			AIface: state.HwPort(1, 0),
			B:      routerName(i + 1),
			BIface: state.Named("GigabitEthernet2/0"),
		})
	}
	return topo
}

func routerName(i int) state.NodeId {
	return state.NodeId("R" + string(rune('0'+i)))
}

func bgpCfg() state.GenCfg {
	return state.GenCfg{
		Protocol: state.ProtocolBGP,
		IPBase:   netip.MustParsePrefix("10.0.0.0/30"),
		ASNBase:  65000,
	}
}
