package goble

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-ble/ble"
	"github.com/google/uuid"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// notificationBuffer bounds the inbound stream; when the consumer lags, the
// oldest value is dropped so the BLE callback never blocks the stack.
const notificationBuffer = 64

// peripheral implements contracts.Peripheral over a go-ble client
// connection. The handle outlives the connection: it is created during
// scanning and connected/disconnected explicitly by the session.
type peripheral struct {
	dev    ble.Device
	addr   ble.Addr
	logger contracts.Logger

	mu     sync.Mutex
	props  contracts.PeripheralProperties
	client ble.Client
	chars  []resolvedCharacteristic

	notifications chan contracts.Notification
}

// resolvedCharacteristic pairs the contract descriptor with the go-ble
// handle needed for writes and subscriptions.
type resolvedCharacteristic struct {
	descriptor contracts.Characteristic
	handle     *ble.Characteristic
}

func newPeripheral(dev ble.Device, addr ble.Addr, logger contracts.Logger) *peripheral {
	return &peripheral{
		dev:           dev,
		addr:          addr,
		logger:        logger,
		notifications: make(chan contracts.Notification, notificationBuffer),
	}
}

// mergeAdvertisement folds one advertisement into the cached properties.
// Called with the adapter lock held during scanning.
func (p *peripheral) mergeAdvertisement(adv ble.Advertisement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name := adv.LocalName(); name != "" {
		p.props.LocalName = name
	}
	for _, svc := range adv.Services() {
		id, err := parseBLEUUID(svc)
		if err != nil {
			continue
		}
		if !containsUUID(p.props.Services, id) {
			p.props.Services = append(p.props.Services, id)
		}
	}
}

// Properties implements contracts.Peripheral.
func (p *peripheral) Properties() (contracts.PeripheralProperties, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	props := p.props
	props.Services = append([]uuid.UUID(nil), p.props.Services...)
	return props, nil
}

// IsConnected implements contracts.Peripheral.
func (p *peripheral) IsConnected() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return false, nil
	}
	select {
	case <-p.client.Disconnected():
		return false, nil
	default:
		return true, nil
	}
}

// Connect implements contracts.Peripheral.
func (p *peripheral) Connect(ctx context.Context) error {
	client, err := p.dev.Dial(ctx, p.addr)
	if err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "connect", Err: err}
	}
	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
	return nil
}

// Disconnect implements contracts.Peripheral.
func (p *peripheral) Disconnect() error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.chars = nil
	p.mu.Unlock()
	if client == nil {
		return nil
	}
	if err := client.CancelConnection(); err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "disconnect", Err: err}
	}
	return nil
}

// DiscoverServices implements contracts.Peripheral. go-ble performs its own
// request sequencing; ctx is accepted for the contract but cancellation of
// an in-flight discovery is not supported by the stack.
func (p *peripheral) DiscoverServices(_ context.Context) error {
	client := p.currentClient()
	if client == nil {
		return &contracts.Error{Kind: contracts.KindUnknown, Op: "discover", Err: fmt.Errorf("peripheral %s is not connected", p.addr)}
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "discover", Err: err}
	}

	var chars []resolvedCharacteristic
	for _, svc := range profile.Services {
		for _, c := range svc.Characteristics {
			id, err := parseBLEUUID(c.UUID)
			if err != nil {
				p.logger.Debug("skipping characteristic with malformed UUID",
					p.logger.Field().String("uuid", c.UUID.String()))
				continue
			}
			chars = append(chars, resolvedCharacteristic{
				descriptor: contracts.Characteristic{UUID: id, Flags: flagsFromProperty(c.Property)},
				handle:     c,
			})
		}
	}

	p.mu.Lock()
	p.chars = chars
	p.mu.Unlock()
	return nil
}

// Characteristics implements contracts.Peripheral.
func (p *peripheral) Characteristics() []contracts.Characteristic {
	p.mu.Lock()
	defer p.mu.Unlock()
	descriptors := make([]contracts.Characteristic, len(p.chars))
	for i, rc := range p.chars {
		descriptors[i] = rc.descriptor
	}
	return descriptors
}

// Subscribe implements contracts.Peripheral. Inbound values are copied and
// enqueued on the notification stream; when the stream is full the oldest
// value is dropped so the stack callback never blocks.
func (p *peripheral) Subscribe(c contracts.Characteristic) error {
	client, handle, err := p.resolve(c, "subscribe")
	if err != nil {
		return err
	}

	handler := func(req []byte) {
		value := append([]byte(nil), req...)
		n := contracts.Notification{UUID: c.UUID, Value: value}
		select {
		case p.notifications <- n:
		default:
			select {
			case <-p.notifications:
				p.logger.Warn("notification buffer full; dropping oldest value")
			default:
			}
			select {
			case p.notifications <- n:
			default:
			}
		}
	}

	if err := client.Subscribe(handle, false, handler); err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "subscribe", Err: err}
	}
	return nil
}

// Unsubscribe implements contracts.Peripheral.
func (p *peripheral) Unsubscribe(c contracts.Characteristic) error {
	client, handle, err := p.resolve(c, "unsubscribe")
	if err != nil {
		return err
	}
	if err := client.Unsubscribe(handle, false); err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "unsubscribe", Err: err}
	}
	return nil
}

// Notifications implements contracts.Peripheral.
func (p *peripheral) Notifications() (<-chan contracts.Notification, error) {
	return p.notifications, nil
}

// Write implements contracts.Peripheral. Errors are wrapped with a
// classification so the write strategy can branch on a typed kind.
func (p *peripheral) Write(c contracts.Characteristic, payload []byte, mode contracts.WriteMode) error {
	client, handle, err := p.resolve(c, "write")
	if err != nil {
		return err
	}
	noRsp := mode == contracts.WriteWithoutResponse
	if err := client.WriteCharacteristic(handle, payload, noRsp); err != nil {
		return &contracts.Error{Kind: contracts.KindOf(err), Op: "write", Err: err}
	}
	return nil
}

// resolve maps a contract descriptor back to its go-ble handle.
func (p *peripheral) resolve(c contracts.Characteristic, op string) (ble.Client, *ble.Characteristic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, nil, &contracts.Error{Kind: contracts.KindUnknown, Op: op, Err: fmt.Errorf("peripheral %s is not connected", p.addr)}
	}
	for _, rc := range p.chars {
		if rc.descriptor.UUID == c.UUID {
			return p.client, rc.handle, nil
		}
	}
	return nil, nil, &contracts.Error{Kind: contracts.KindNotSupported, Op: op, Err: fmt.Errorf("characteristic %s was not discovered on %s", c.UUID, p.addr)}
}

func (p *peripheral) currentClient() ble.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client
}

// flagsFromProperty maps go-ble property bits onto the contract flags.
func flagsFromProperty(prop ble.Property) contracts.CharacteristicFlags {
	var f contracts.CharacteristicFlags
	if prop&ble.CharNotify != 0 {
		f |= contracts.FlagNotify
	}
	if prop&ble.CharWrite != 0 {
		f |= contracts.FlagWrite
	}
	if prop&ble.CharWriteNR != 0 {
		f |= contracts.FlagWriteWithoutResponse
	}
	return f
}

// parseBLEUUID converts a go-ble UUID into its 128-bit form, expanding 16-
// and 32-bit identifiers over the Bluetooth SIG base UUID.
func parseBLEUUID(u ble.UUID) (uuid.UUID, error) {
	s := u.String()
	switch len(s) {
	case 4:
		s = "0000" + s + "-0000-1000-8000-00805f9b34fb"
	case 8:
		s = s + "-0000-1000-8000-00805f9b34fb"
	}
	return uuid.Parse(s)
}

func containsUUID(list []uuid.UUID, id uuid.UUID) bool {
	for _, u := range list {
		if u == id {
			return true
		}
	}
	return false
}
