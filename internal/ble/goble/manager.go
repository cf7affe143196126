// Package goble implements the BLE capability contracts on top of
// github.com/go-ble/ble. It is the production collaborator behind
// contracts.Manager; string-based error classification for stacks that
// report authorization failures only as text happens at this boundary.
package goble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// ErrUnsupportedPlatform is returned when the host OS has no go-ble device
// implementation.
var ErrUnsupportedPlatform = errors.New("BLE is not supported on this platform")

// Manager exposes the host Bluetooth stack. go-ble drives a single HCI
// device, so Adapters always returns exactly one adapter once the device
// opens successfully.
type Manager struct {
	adapter *adapter
}

// NewManager opens the default host Bluetooth device.
func NewManager(opts *contracts.SessionOptions) (contracts.Manager, error) {
	dev, err := newDevice()
	if err != nil {
		return nil, fmt.Errorf("opening Bluetooth device: %w", err)
	}
	opts.Logger.Info("Bluetooth device opened")
	return &Manager{adapter: newAdapter(dev, opts.Logger)}, nil
}

// Adapters implements contracts.Manager.
func (m *Manager) Adapters() ([]contracts.Adapter, error) {
	return []contracts.Adapter{m.adapter}, nil
}

// adapter wraps one ble.Device and collects advertisements between
// StartScan and Peripherals.
type adapter struct {
	dev    ble.Device
	logger contracts.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	found    map[string]*peripheral
	order    []string
	scanning bool
}

func newAdapter(dev ble.Device, logger contracts.Logger) *adapter {
	return &adapter{dev: dev, logger: logger}
}

// StartScan begins collecting advertisements in the background. Results
// accumulate until Peripherals or StopScan is called.
func (a *adapter) StartScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scanning {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.found = make(map[string]*peripheral)
	a.order = nil
	a.scanning = true

	go func() {
		err := a.dev.Scan(ctx, false, a.handleAdvertisement)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("scan terminated", a.logger.Field().Error("error", err))
		}
	}()
	return nil
}

// StopScan stops the background scan. Collected peripherals stay available.
func (a *adapter) StopScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	return nil
}

func (a *adapter) stopLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.scanning = false
}

// Peripherals stops the scan and returns everything seen so far in
// discovery order. The HCI device cannot dial while a scan is running.
func (a *adapter) Peripherals() ([]contracts.Peripheral, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()

	peripherals := make([]contracts.Peripheral, 0, len(a.order))
	for _, key := range a.order {
		peripherals = append(peripherals, a.found[key])
	}
	return peripherals, nil
}

// handleAdvertisement records a peripheral the first time its address is
// seen and merges later advertisements into it; scan responses often carry
// the name the initial advertisement lacked.
func (a *adapter) handleAdvertisement(adv ble.Advertisement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.scanning {
		return
	}

	key := adv.Addr().String()
	p, seen := a.found[key]
	if !seen {
		p = newPeripheral(a.dev, adv.Addr(), a.logger)
		a.found[key] = p
		a.order = append(a.order, key)
	}
	p.mergeAdvertisement(adv)
}
