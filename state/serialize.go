package state

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// RouterId is a 32 bit router identifier, written in dotted-quad form.
type RouterId uint32

// RouterIdFromOctet repeats n in all four octets: 7 -> 7.7.7.7.
func RouterIdFromOctet(n uint8) RouterId {
	v := uint32(n)
	return RouterId(v<<24 | v<<16 | v<<8 | v)
}

func (r RouterId) Addr() netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(r))
	return netip.AddrFrom4(b)
}

func (r RouterId) String() string {
	return r.Addr().String()
}

func (r RouterId) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RouterId) UnmarshalText(text []byte) error {
	addr, err := netip.ParseAddr(string(text))
	if err != nil {
		return err
	}
	if !addr.Is4() {
		return fmt.Errorf("router id must be an IPv4 address: %s", text)
	}
	b := addr.As4()
	*r = RouterId(binary.BigEndian.Uint32(b[:]))
	return nil
}
