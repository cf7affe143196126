//go:build linux
// +build linux

package goble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// newDevice opens the default HCI device through BlueZ.
func newDevice() (ble.Device, error) {
	return linux.NewDevice()
}
