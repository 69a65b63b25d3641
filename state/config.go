package state

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"net"
	"net/netip"
	"slices"
	"strings"

	"github.com/cilium/cilium/pkg/ip"
	"github.com/goccy/go-yaml"
	"go4.org/netipx"
)

// GenCfg holds the generation parameters. It usually sits at the top level of
// the topology file, next to the routers and links.
type GenCfg struct {
	Protocol   Protocol       `yaml:"protocol"`
	IPBase     netip.Prefix   `yaml:"ip_base"`
	SubnetBits int            `yaml:"subnet_bits,omitempty"` // size of each link subnet for the sequential policy
	Allocation AllocPolicy    `yaml:"allocation,omitempty"`  // empty picks the protocol default
	ASNBase    uint32         `yaml:"asn_base,omitempty"`    // zero means DefaultASNBase
	RouterId   IdStrategy     `yaml:"router_id,omitempty"`
	ASN        IdStrategy     `yaml:"asn,omitempty"`
	Exclude    []netip.Prefix `yaml:"exclude,omitempty"`   // blocks overlapping these are never handed out
	AutoSlot   int            `yaml:"auto_slot,omitempty"` // hardware slot used for interfaces of graph links
}

// Topology is the normalized node/link list handed over by the topology extractor.
type Topology struct {
	Routers []RouterCfg `yaml:"routers"`
	Links   []LinkCfg   `yaml:"links"`
	Graph   []string    `yaml:"graph,omitempty"`
}

// TopologyFile is the on-disk layout: configuration and topology share one document.
type TopologyFile struct {
	GenCfg   `yaml:",inline"`
	Topology `yaml:",inline"`
}

type RouterCfg struct {
	Name       NodeId     `yaml:"name"`
	Interfaces []IfaceRef `yaml:"interfaces,omitempty"`
}

type LinkCfg struct {
	A      NodeId   `yaml:"a"`
	AIface IfaceRef `yaml:"a_iface"`
	B      NodeId   `yaml:"b"`
	BIface IfaceRef `yaml:"b_iface"`
}

// IfaceRef is one end of a link. It is either an interface name that was
// already translated, or a raw hardware descriptor (slot, port).
type IfaceRef struct {
	Name string
	Slot int
	Port int
	Raw  bool
}

func Named(name string) IfaceRef {
	return IfaceRef{Name: name}
}

func HwPort(slot, port int) IfaceRef {
	return IfaceRef{Slot: slot, Port: port, Raw: true}
}

func (r IfaceRef) IsZero() bool {
	return r == IfaceRef{}
}

func (r IfaceRef) String() string {
	if r.Raw {
		return fmt.Sprintf("slot %d port %d", r.Slot, r.Port)
	}
	return r.Name
}

// UnmarshalYAML accepts `GigabitEthernet1/0`, `{name: GigabitEthernet1/0}` or `{slot: 1, port: 0}`.
// Any other value, a bare number included, is rejected.
// A descriptor missing its slot or port decodes with -1 in its place, so the
// link is rejected later instead of failing the whole file.
func (r *IfaceRef) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*r = Named(v)
		return nil
	case map[string]any:
	default:
		return fmt.Errorf("interface must be a name or a {slot, port} map, got %v", raw)
	}
	var desc struct {
		Name string `yaml:"name"`
		Slot *int   `yaml:"slot"`
		Port *int   `yaml:"port"`
	}
	if err := unmarshal(&desc); err != nil {
		return err
	}
	if desc.Name != "" {
		*r = Named(desc.Name)
		return nil
	}
	slot, port := -1, -1
	if desc.Slot != nil {
		slot = *desc.Slot
	}
	if desc.Port != nil {
		port = *desc.Port
	}
	*r = HwPort(slot, port)
	return nil
}

func (r IfaceRef) MarshalYAML() (any, error) {
	if r.Raw {
		return map[string]int{"slot": r.Slot, "port": r.Port}, nil
	}
	return r.Name, nil
}

// ParseTopology decodes a topology file. YAML and JSON are both accepted.
func ParseTopology(data []byte) (*Topology, GenCfg, error) {
	var file TopologyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, GenCfg{}, err
	}
	topo := file.Topology
	return &topo, file.GenCfg, nil
}

// WithDefaults fills every unset field with the protocol default.
func (c GenCfg) WithDefaults() GenCfg {
	if c.Protocol == "" {
		c.Protocol = ProtocolRIP
	}
	if !c.IPBase.IsValid() {
		c.IPBase = DefaultBase(c.Protocol)
	}
	c.IPBase = c.IPBase.Masked()
	if c.Allocation == "" {
		c.Allocation = c.Protocol.DefaultPolicy()
	}
	if c.SubnetBits == 0 && c.IPBase.IsValid() {
		if c.IPBase.Addr().Is4() {
			c.SubnetBits = DefaultSubnetBits4
		} else {
			c.SubnetBits = DefaultSubnetBits6
		}
		c.SubnetBits = max(c.SubnetBits, c.IPBase.Bits())
	}
	if c.ASNBase == 0 {
		c.ASNBase = DefaultASNBase
	}
	if c.RouterId == "" {
		c.RouterId = IdFromNameDigits
	}
	if c.ASN == "" {
		c.ASN = IdOrdinal
	}
	return c
}

func (c GenCfg) Validate() error {
	if !c.Protocol.Valid() {
		return fmt.Errorf("%w: unknown protocol %q", ErrInvalidConfig, c.Protocol)
	}
	if !c.Allocation.Valid() {
		return fmt.Errorf("%w: unknown allocation policy %q", ErrInvalidConfig, c.Allocation)
	}
	if !c.RouterId.Valid() {
		return fmt.Errorf("%w: unknown router id strategy %q", ErrInvalidConfig, c.RouterId)
	}
	if !c.ASN.Valid() {
		return fmt.Errorf("%w: unknown asn strategy %q", ErrInvalidConfig, c.ASN)
	}
	if !c.IPBase.IsValid() {
		return fmt.Errorf("%w: ip_base is not a valid network", ErrInvalidConfig)
	}
	bitLen := c.IPBase.Addr().BitLen()
	switch c.Allocation {
	case AllocFixed:
		if c.IPBase.Bits() >= bitLen {
			return fmt.Errorf("%w: ip_base %s holds a single address, a link needs two", ErrInvalidConfig, c.IPBase)
		}
	case AllocSequential:
		if c.SubnetBits < c.IPBase.Bits() {
			return fmt.Errorf("%w: subnet_bits /%d is larger than ip_base %s", ErrInvalidConfig, c.SubnetBits, c.IPBase)
		}
		if c.SubnetBits > bitLen-2 {
			return fmt.Errorf("%w: subnet_bits /%d leaves no room for two hosts", ErrInvalidConfig, c.SubnetBits)
		}
	}
	for _, p := range c.Exclude {
		if !p.IsValid() {
			return fmt.Errorf("%w: invalid exclude prefix", ErrInvalidConfig)
		}
	}
	if c.AutoSlot < 0 {
		return fmt.Errorf("%w: auto_slot must not be negative: %d", ErrInvalidConfig, c.AutoSlot)
	}
	return nil
}

// CheckASNRange makes sure base+n still fits into a 32 bit ASN.
func (c GenCfg) CheckASNRange(n int) error {
	if uint64(c.ASNBase)+uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: asn_base %d is too big for %d routers", ErrInvalidConfig, c.ASNBase, n)
	}
	return nil
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid router/group`, x)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`router/group list must not be empty`)
	}
	slices.Sort(line)
	return line, nil
}

/*
ParseGraph expands link lines into router pairs. Graph syntax is something like this:

Group1 = R1, R2, R3

Group2 = R4, R5

Group1, Group2, R6 // Group1, Group2, R6 will all be interconnected, but not within Group1 or Group2

Group1, Group1 // every router is connected to every other router

R8, R9 // R8 and R9 will be connected

Router names are case-sensitive. The result is sorted and free of duplicates.
*/
func ParseGraph(graph []string, nodes []string) ([]Pair[NodeId, NodeId], error) {
	parsedPairings := make([]Pair[string, string], 0)

	groups := make(map[string][]string)

	symbols := slices.Clone(nodes)

	// pass 0, collect all symbols

	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid graph: %s. group definition must contain one '='", line)
			}
			grp := strings.TrimSpace(spl[0])
			if slices.Contains(nodes, grp) {
				return nil, fmt.Errorf("group name must not be a router name: %s", grp)
			}
			symbols = append(symbols, grp)
		}
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	// map: group -> []<groups that the group depends on>
	topo := make(map[string][]string)
	expansion := make(map[string][]string)

	// pass 1, parse graph
	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			grp := strings.TrimSpace(spl[0])
			if _, ok := groups[grp]; ok {
				return nil, fmt.Errorf("duplicate group name: %s", grp)
			}
			lst, err := parseSymbolList(spl[1], symbols)
			if err != nil {
				return nil, err
			}
			deps := make([]string, 0)
			for _, l := range lst {
				if !slices.Contains(nodes, l) {
					deps = append(deps, l)
				} else {
					expansion[grp] = append(expansion[grp], l)
				}
			}
			slices.Sort(deps)
			deps = slices.Compact(deps)

			topo[grp] = deps
			groups[grp] = lst
		} else {
			names, err := parseSymbolList(line, symbols)
			if err != nil {
				return nil, err
			}
			if len(names) < 2 {
				return nil, fmt.Errorf("invalid pairing, %v", names)
			}
			interconnect := make([]string, 0)
			for _, name := range names {
				for _, other := range interconnect {
					parsedPairings = append(parsedPairings, MakeSortedPair(other, name))
				}
				interconnect = append(interconnect, name)
			}
			SortPairs(parsedPairings)
			parsedPairings = slices.Compact(parsedPairings)
		}
	}

	// pass 2, expand group names in topological order
	for len(topo) > 0 {
		var group string
		for _, k := range slices.Sorted(maps.Keys(topo)) {
			if len(topo[k]) == 0 {
				group = k
				break
			}
		}
		if group == "" {
			cycle := slices.Sorted(maps.Keys(topo))
			return nil, fmt.Errorf("cycle detected in graph: %v", cycle)
		}
		delete(topo, group)

		for k, deps := range topo {
			if slices.Contains(deps, group) {
				expansion[k] = append(expansion[k], expansion[group]...)
				slices.Sort(expansion[k])
				expansion[k] = slices.Compact(expansion[k])
				topo[k] = slices.DeleteFunc(deps, func(dep string) bool {
					return dep == group
				})
			}
		}
	}

	// pass 3, rewrite pairings
	pairings := make([]Pair[NodeId, NodeId], 0)
	expand := func(sym string) []NodeId {
		if slices.Contains(nodes, sym) {
			return []NodeId{NodeId(sym)}
		}
		out := make([]NodeId, 0, len(expansion[sym]))
		for _, exp := range expansion[sym] {
			out = append(out, NodeId(exp))
		}
		return out
	}
	for _, pair := range parsedPairings {
		for _, x := range expand(pair.V1) {
			for _, y := range expand(pair.V2) {
				if x != y {
					pairings = append(pairings, MakeSortedPair(x, y))
				}
			}
		}
	}
	SortPairs(pairings)
	return slices.Compact(pairings), nil
}

func MakeSortedPair[T cmp.Ordered](a, b T) Pair[T, T] {
	if a < b {
		return Pair[T, T]{a, b}
	} else {
		return Pair[T, T]{b, a}
	}
}

func toIPNets(prefixes []netip.Prefix) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(prefixes))
	for _, p := range prefixes {
		if p.IsValid() {
			nets = append(nets, &net.IPNet{
				IP:   p.Addr().AsSlice(),
				Mask: net.CIDRMask(p.Bits(), p.Addr().BitLen()),
			})
		}
	}
	return nets
}

func fromIPNets(nets []*net.IPNet) []netip.Prefix {
	output := make([]netip.Prefix, 0, len(nets))
	for _, n := range nets {
		if addr, ok := netip.AddrFromSlice(n.IP); ok {
			ones, _ := n.Mask.Size()
			output = append(output, netip.PrefixFrom(addr.Unmap(), ones))
		}
	}
	slices.SortFunc(output, netipx.ComparePrefix)
	return output
}

// SubtractPrefix returns the address space of includes that is not covered by excludes.
func SubtractPrefix(includesPrefix, excludesPrefix []netip.Prefix) []netip.Prefix {
	// includes swallowed whole by an exclude are dropped up front, RemoveCIDRs
	// only splits an include around the excludes inside it
	includes := slices.DeleteFunc(slices.Clone(includesPrefix), func(p netip.Prefix) bool {
		return slices.ContainsFunc(excludesPrefix, func(e netip.Prefix) bool {
			return e.Bits() <= p.Bits() && e.Contains(p.Addr())
		})
	})
	result := ip.RemoveCIDRs(toIPNets(includes), toIPNets(excludesPrefix))
	ipv4, ipv6 := ip.CoalesceCIDRs(result)
	return fromIPNets(append(ipv4, ipv6...))
}

// CoalescePrefix merges adjacent and nested prefixes into the smallest covering set.
func CoalescePrefix(prefixes []netip.Prefix) []netip.Prefix {
	ipv4, ipv6 := ip.CoalesceCIDRs(toIPNets(prefixes))
	return fromIPNets(append(ipv4, ipv6...))
}
