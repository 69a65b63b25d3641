package state

import (
	"fmt"
	"net/netip"
)

// Assignment binds one link endpoint to its address. Both endpoints of a
// link share the same Subnet, which identifies the link.
type Assignment struct {
	Router NodeId
	Iface  string
	Addr   netip.Addr
	Subnet netip.Prefix
	Link   int // index into Document.Links
}

// Prefix returns the address with the subnet's prefix length, e.g. 10.0.0.1/30.
func (a Assignment) Prefix() netip.Prefix {
	return netip.PrefixFrom(a.Addr, a.Subnet.Bits())
}

// Document is the canonical per-router record set handed to the config renderer.
type Document struct {
	Version  int            `json:"version" yaml:"version"`
	Protocol Protocol       `json:"protocol" yaml:"protocol"`
	IPBase   string         `json:"ip_base" yaml:"ip_base"`
	ASNBase  uint32         `json:"asn_base,omitempty" yaml:"asn_base,omitempty"`
	Routers  []RouterRecord `json:"routers" yaml:"routers"`
	Links    []LinkRecord   `json:"links" yaml:"links"`
}

type RouterRecord struct {
	Name        NodeId            `json:"name" yaml:"name"`
	ASN         uint32            `json:"asn,omitempty" yaml:"asn,omitempty"`
	RouterId    RouterId          `json:"router_id,omitempty" yaml:"router_id,omitempty"`
	Interfaces  []InterfaceRecord `json:"interfaces" yaml:"interfaces"`
	Neighbors   []NeighborRecord  `json:"neighbors,omitempty" yaml:"neighbors,omitempty"`
	RIPNetworks []string          `json:"rip_networks,omitempty" yaml:"rip_networks,omitempty"`
}

// InterfaceRecord describes one router interface. Address fields are empty
// when no address was allocated to it.
type InterfaceRecord struct {
	Name     string `json:"name" yaml:"name"`
	IP       string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Mask     string `json:"mask,omitempty" yaml:"mask,omitempty"` // IPv4 only
	Prefix   int    `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	LinkNet  string `json:"link_net,omitempty" yaml:"link_net,omitempty"`
	Shutdown bool   `json:"shutdown,omitempty" yaml:"shutdown,omitempty"`
}

// NeighborRecord is one router's view of a directly linked peer.
type NeighborRecord struct {
	Name NodeId `json:"name" yaml:"name"`
	ASN  uint32 `json:"asn" yaml:"asn"`
	IP   string `json:"ip" yaml:"ip"`
}

type LinkRecord struct {
	A      NodeId `json:"a" yaml:"a"`
	AIface string `json:"a_iface" yaml:"a_iface"`
	B      NodeId `json:"b" yaml:"b"`
	BIface string `json:"b_iface" yaml:"b_iface"`
}

func (l LinkRecord) String() string {
	return fmt.Sprintf("%s:%s <-> %s:%s", l.A, l.AIface, l.B, l.BIface)
}

// GetRouter returns the record of the named router, or nil.
func (d *Document) GetRouter(name NodeId) *RouterRecord {
	for i := range d.Routers {
		if d.Routers[i].Name == name {
			return &d.Routers[i]
		}
	}
	return nil
}
