package blemidi

import (
	"github.com/leandrodaf/blemidi/internal/session"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// NewStreamer creates a BLE-MIDI streamer with the specified options.
// It applies default options and wires the platform BLE stack unless a
// custom manager is injected.
//
// opts ...contracts.Option: A variadic list of option functions to customize the session configuration.
//
// Returns:
//   - contracts.Streamer: An instance of the BLE-MIDI streamer.
//   - error: An error, if any occurred during the creation of the streamer.
func NewStreamer(opts ...contracts.Option) (contracts.Streamer, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	if options.Manager == nil {
		manager, err := newPlatformManager(&options)
		if err != nil {
			return nil, err
		}
		options.Manager = manager
	}

	return session.New(options.Manager, &options), nil
}
