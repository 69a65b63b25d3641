package state

const sampleTopologyYAML = `
protocol: bgp
ip_base: "2000:1::/64"
asn_base: 65100
exclude: ["2000:1:0:2::/64"]
routers:
  - name: R1
  - name: R2
    interfaces:
      - Loopback0
      - {slot: 0, port: 0}
  - name: R3
links:
  - a: R1
    a_iface: {slot: 1, port: 0}
    b: R2
    b_iface: GigabitEthernet1/0
  - a: R2
    a_iface: {name: GigabitEthernet2/0}
    b: R3
    b_iface: {slot: 1, port: 0}
graph:
  - R1, R3
`

// SampleTopology is the topology described by sampleTopologyYAML.
func SampleTopology() *Topology {
	return &Topology{
		Routers: []RouterCfg{
			{Name: "R1"},
			{Name: "R2", Interfaces: []IfaceRef{Named("Loopback0"), HwPort(0, 0)}},
			{Name: "R3"},
		},
		Links: []LinkCfg{
			{A: "R1", AIface: HwPort(1, 0), B: "R2", BIface: Named("GigabitEthernet1/0")},
			{A: "R2", AIface: Named("GigabitEthernet2/0"), B: "R3", BIface: HwPort(1, 0)},
		},
		Graph: []string{"R1, R3"},
	}
}
