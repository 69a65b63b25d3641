package state

type NodeId string

// Protocol selects the routing protocol family the records are generated for.
type Protocol string

const (
	ProtocolRIP  Protocol = "rip"
	ProtocolOSPF Protocol = "ospf"
	ProtocolBGP  Protocol = "bgp"
)

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolRIP, ProtocolOSPF, ProtocolBGP:
		return true
	}
	return false
}

func (p Protocol) DefaultPolicy() AllocPolicy {
	if p == ProtocolOSPF {
		return AllocSequential
	}
	return AllocFixed
}

// NeedsRouterId is true for protocols whose process needs a router id.
func (p Protocol) NeedsRouterId() bool {
	return p == ProtocolOSPF || p == ProtocolBGP
}

// NeedsPeers is true for protocols configured with explicit neighbor records.
func (p Protocol) NeedsPeers() bool {
	return p == ProtocolBGP
}

// AllocPolicy selects how link blocks are carved from the base network.
type AllocPolicy string

const (
	// AllocFixed walks blocks of the base network's own size, starting at the base.
	AllocFixed AllocPolicy = "fixed"
	// AllocSequential carves same-size subnets out of the base network.
	AllocSequential AllocPolicy = "sequential"
)

func (a AllocPolicy) Valid() bool {
	return a == AllocFixed || a == AllocSequential
}

// IdStrategy selects how a numeric identifier is derived for a router.
type IdStrategy string

const (
	IdFromNameDigits IdStrategy = "from-name-digits"
	IdOrdinal        IdStrategy = "ordinal"
)

func (s IdStrategy) Valid() bool {
	return s == IdFromNameDigits || s == IdOrdinal
}
