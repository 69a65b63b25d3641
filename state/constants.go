package state

import "net/netip"

// DocumentVersion is bumped whenever the shape of Document changes.
const DocumentVersion = 1

var (
	// DefaultASNBase is the private ASN range start; the first router gets DefaultASNBase+1.
	DefaultASNBase = uint32(65000)

	DefaultSubnetBits4 = 30
	DefaultSubnetBits6 = 64

	// FallbackRouterId is used when a router id cannot be derived from the name.
	FallbackRouterId = RouterIdFromOctet(1)

	defaultBases = map[Protocol]netip.Prefix{
		ProtocolRIP:  netip.MustParsePrefix("10.0.0.0/30"),
		ProtocolOSPF: netip.MustParsePrefix("2001:db8::/64"),
		ProtocolBGP:  netip.MustParsePrefix("2000:1::/64"),
	}
)

// DefaultBase returns the base network used when the configuration has none.
func DefaultBase(p Protocol) netip.Prefix {
	return defaultBases[p]
}
