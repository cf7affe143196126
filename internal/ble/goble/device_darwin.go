//go:build darwin
// +build darwin

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// newDevice opens the CoreBluetooth central manager.
func newDevice() (ble.Device, error) {
	return darwin.NewDevice()
}
