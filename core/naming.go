package core

import "fmt"

// InterfaceName translates a hardware (slot, port) pair into the platform
// interface name. Slot 0 holds the onboard FastEthernet ports, every other
// slot a Gigabit module.
func InterfaceName(slot, port int) string {
	if slot == 0 {
		return fmt.Sprintf("FastEthernet%d/%d", slot, port)
	}
	return fmt.Sprintf("GigabitEthernet%d/%d", slot, port)
}
