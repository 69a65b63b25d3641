package state

import "errors"

var (
	// ErrMissingInput is fatal: there is no topology to work on.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidConfig is fatal: the generation parameters cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUndecodable is fatal: the topology file exists but is not valid YAML or JSON.
	ErrUndecodable = errors.New("cannot decode topology")
	// ErrMalformedInput marks a router or link that was skipped.
	ErrMalformedInput = errors.New("malformed input")
	// ErrAddressSpaceExhausted is returned by an allocator that has no block left.
	ErrAddressSpaceExhausted = errors.New("address space exhausted")
	// ErrOverlap means a block was about to be handed out twice.
	ErrOverlap = errors.New("overlapping allocation")
)
