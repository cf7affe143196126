package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// writeAttempt records one call into the fake peripheral's write path.
type writeAttempt struct {
	mode    contracts.WriteMode
	payload []byte
}

type fakeManager struct {
	adapters   []contracts.Adapter
	adapterErr error
}

func (m *fakeManager) Adapters() ([]contracts.Adapter, error) {
	return m.adapters, m.adapterErr
}

type fakeAdapter struct {
	peripherals []contracts.Peripheral

	scanStarted bool
	scanStopped bool
}

func (a *fakeAdapter) StartScan() error {
	a.scanStarted = true
	return nil
}

func (a *fakeAdapter) StopScan() error {
	a.scanStopped = true
	return nil
}

func (a *fakeAdapter) Peripherals() ([]contracts.Peripheral, error) {
	return a.peripherals, nil
}

// fakePeripheral is an in-memory stand-in for a BLE device. writeFunc, when
// set, scripts the outcome of each write; otherwise writes succeed.
type fakePeripheral struct {
	props contracts.PeripheralProperties
	chars []contracts.Characteristic

	connectErr  error
	discoverErr error

	writeFunc func(attempt int, mode contracts.WriteMode) error

	connected     bool
	writes        []writeAttempt
	subscribed    bool
	unsubscribed  bool
	disconnected  bool
	notifications chan contracts.Notification
}

func newFakePeripheral(name string, services []uuid.UUID, chars ...contracts.Characteristic) *fakePeripheral {
	return &fakePeripheral{
		props:         contracts.PeripheralProperties{LocalName: name, Services: services},
		chars:         chars,
		notifications: make(chan contracts.Notification, 16),
	}
}

func (p *fakePeripheral) Properties() (contracts.PeripheralProperties, error) {
	return p.props, nil
}

func (p *fakePeripheral) IsConnected() (bool, error) {
	return p.connected, nil
}

func (p *fakePeripheral) Connect(_ context.Context) error {
	if p.connectErr != nil {
		return p.connectErr
	}
	p.connected = true
	return nil
}

func (p *fakePeripheral) Disconnect() error {
	p.connected = false
	p.disconnected = true
	return nil
}

func (p *fakePeripheral) DiscoverServices(_ context.Context) error {
	return p.discoverErr
}

func (p *fakePeripheral) Characteristics() []contracts.Characteristic {
	return p.chars
}

func (p *fakePeripheral) Subscribe(_ contracts.Characteristic) error {
	p.subscribed = true
	return nil
}

func (p *fakePeripheral) Unsubscribe(_ contracts.Characteristic) error {
	p.unsubscribed = true
	return nil
}

func (p *fakePeripheral) Notifications() (<-chan contracts.Notification, error) {
	return p.notifications, nil
}

func (p *fakePeripheral) Write(_ contracts.Characteristic, payload []byte, mode contracts.WriteMode) error {
	attempt := len(p.writes)
	p.writes = append(p.writes, writeAttempt{mode: mode, payload: append([]byte(nil), payload...)})
	if p.writeFunc != nil {
		return p.writeFunc(attempt, mode)
	}
	return nil
}
