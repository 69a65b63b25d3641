package core

import (
	"net"
	"slices"

	"github.com/encodeous/routegen/state"
)

// Plan is everything the engine derived from the topology, ready to be
// assembled into a document.
type Plan struct {
	Cfg         state.GenCfg
	Routers     []state.NodeId
	Declared    map[state.NodeId][]string
	Links       []Link
	Assignments map[state.NodeId][]state.Assignment
	RouterIds   map[state.NodeId]state.RouterId
	ASNs        map[state.NodeId]uint32
	Neighbors   map[state.NodeId][]state.NeighborRecord
}

// Assemble builds the canonical document. Only the fields of the configured
// protocol are filled in, and nothing is made up for data that is missing.
func Assemble(p *Plan) state.Document {
	doc := state.Document{
		Version:  state.DocumentVersion,
		Protocol: p.Cfg.Protocol,
		IPBase:   p.Cfg.IPBase.String(),
		Routers:  make([]state.RouterRecord, 0, len(p.Routers)),
		Links:    make([]state.LinkRecord, 0, len(p.Links)),
	}
	if p.Cfg.Protocol == state.ProtocolBGP {
		doc.ASNBase = p.Cfg.ASNBase
	}

	for _, name := range p.Routers {
		rec := state.RouterRecord{
			Name:       name,
			Interfaces: make([]state.InterfaceRecord, 0),
		}
		for _, a := range p.Assignments[name] {
			rec.Interfaces = append(rec.Interfaces, interfaceRecord(a))
		}
		switch p.Cfg.Protocol {
		case state.ProtocolRIP:
			rec.RIPNetworks = ripNetworks(p.Assignments[name])
		case state.ProtocolOSPF:
			rec.RouterId = p.RouterIds[name]
			rec.Interfaces = append(rec.Interfaces, shutdownInterfaces(p, name, rec.Interfaces)...)
		case state.ProtocolBGP:
			rec.ASN = p.ASNs[name]
			rec.RouterId = p.RouterIds[name]
			rec.Neighbors = p.Neighbors[name]
		}
		doc.Routers = append(doc.Routers, rec)
	}

	for _, l := range p.Links {
		doc.Links = append(doc.Links, l.LinkRecord)
	}
	return doc
}

func interfaceRecord(a state.Assignment) state.InterfaceRecord {
	rec := state.InterfaceRecord{
		Name:    a.Iface,
		IP:      a.Addr.String(),
		Prefix:  a.Subnet.Bits(),
		LinkNet: a.Subnet.Addr().String(),
	}
	if a.Addr.Is4() {
		rec.Mask = net.IP(net.CIDRMask(a.Subnet.Bits(), 32)).String()
	}
	return rec
}

// ripNetworks lists the distinct link networks of a router, sorted as text.
func ripNetworks(assigns []state.Assignment) []string {
	networks := make([]string, 0, len(assigns))
	for _, a := range assigns {
		networks = append(networks, a.Subnet.Addr().String())
	}
	slices.Sort(networks)
	return slices.Compact(networks)
}

// shutdownInterfaces returns the interfaces of a router that did not get an
// address: ends of unallocated links first, then declared interfaces no link uses.
func shutdownInterfaces(p *Plan, name state.NodeId, have []state.InterfaceRecord) []state.InterfaceRecord {
	seen := make(map[string]struct{}, len(have))
	for _, r := range have {
		seen[r.Name] = struct{}{}
	}
	var out []state.InterfaceRecord
	add := func(iface string) {
		if _, ok := seen[iface]; ok {
			return
		}
		seen[iface] = struct{}{}
		out = append(out, state.InterfaceRecord{Name: iface, Shutdown: true})
	}
	for _, l := range p.Links {
		if l.Allocated() {
			continue
		}
		if l.A == name {
			add(l.AIface)
		}
		if l.B == name {
			add(l.BIface)
		}
	}
	for _, iface := range p.Declared[name] {
		add(iface)
	}
	return out
}
