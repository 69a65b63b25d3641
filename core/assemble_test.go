package core

import (
	"testing"

	"github.com/encodeous/routegen/state"
	"github.com/stretchr/testify/assert"
)

func TestRipNetworks(t *testing.T) {
	networks := ripNetworks([]state.Assignment{
		assign("H", "g3", "10.0.0.9", "10.0.0.8/30", 2),
		assign("H", "g0", "10.0.0.1", "10.0.0.0/30", 0),
		assign("H", "g4", "10.0.0.10", "10.0.0.8/30", 3),
		assign("H", "g1", "10.0.0.13", "10.0.0.12/30", 1),
	})
	assert.Equal(t, []string{"10.0.0.0", "10.0.0.12", "10.0.0.8"}, networks)

	assert.Empty(t, ripNetworks(nil))
}
