package blemidi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/blemidi/internal/ble/goble"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system has no BLE stack
// implementation.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// managerInitializers maps OS names to corresponding BLE manager initializers.
var managerInitializers = map[string]func(*contracts.SessionOptions) (contracts.Manager, error){
	"linux":  goble.NewManager, // BlueZ/HCI manager.
	"darwin": goble.NewManager, // CoreBluetooth manager.
}

// newPlatformManager opens the host BLE stack for the current operating
// system, returning ErrUnsupportedOS when there is none.
func newPlatformManager(opts *contracts.SessionOptions) (contracts.Manager, error) {
	if initializer, exists := managerInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
