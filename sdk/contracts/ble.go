package contracts

import (
	"context"

	"github.com/google/uuid"
)

// Well-known BLE MIDI identities (Bluetooth SIG "MIDI over BLE" profile).
var (
	// MIDIServiceUUID is the standard BLE MIDI service UUID.
	MIDIServiceUUID = uuid.MustParse("03b80e5a-ede8-4b33-a751-6ce34ec4c700")
	// MIDICharacteristicUUID is the standard BLE MIDI data I/O characteristic UUID.
	MIDICharacteristicUUID = uuid.MustParse("7772e5db-3868-4112-a1a9-f2669d106bf3")
)

// WriteMode selects the GATT write procedure used for an outgoing payload.
type WriteMode int

const (
	// WriteWithResponse waits for the peer to acknowledge the write.
	WriteWithResponse WriteMode = iota
	// WriteWithoutResponse returns as soon as the payload is queued; lower
	// latency, no delivery confirmation.
	WriteWithoutResponse
)

// String returns the human-readable name of the write mode for diagnostics.
func (m WriteMode) String() string {
	if m == WriteWithoutResponse {
		return "write-without-response"
	}
	return "write-with-response"
}

// CharacteristicFlags is the capability set advertised by a characteristic.
type CharacteristicFlags uint8

const (
	// FlagNotify indicates the characteristic pushes value updates.
	FlagNotify CharacteristicFlags = 1 << iota
	// FlagWrite indicates support for acknowledged writes.
	FlagWrite
	// FlagWriteWithoutResponse indicates support for unacknowledged writes.
	FlagWriteWithoutResponse
)

// Has reports whether all bits in flag are present in the capability set.
func (f CharacteristicFlags) Has(flag CharacteristicFlags) bool {
	return f&flag == flag
}

// Characteristic describes a GATT characteristic discovered on a peripheral.
// It is immutable once discovered; the platform implementation resolves it
// back to its own handle when asked to write or subscribe.
type Characteristic struct {
	UUID  uuid.UUID           // 128-bit characteristic identity.
	Flags CharacteristicFlags // Capability set {notify, write, write-without-response}.
}

// Notification is one inbound value update from a subscribed characteristic.
type Notification struct {
	UUID  uuid.UUID // Identity of the characteristic that produced the value.
	Value []byte    // Raw payload as delivered by the peripheral.
}

// PeripheralProperties carries the advertisement data used to evaluate a
// peripheral before connecting.
type PeripheralProperties struct {
	LocalName string      // Advertised device name; empty when the stack omits it.
	Services  []uuid.UUID // Advertised service UUIDs; may be empty on many stacks.
}

// Peripheral is the capability interface over one remote BLE device. The
// handle is owned by the platform stack; callers drive its lifecycle
// explicitly from discovery through Disconnect.
type Peripheral interface {
	Properties() (PeripheralProperties, error)
	IsConnected() (bool, error)
	Connect(ctx context.Context) error
	Disconnect() error

	DiscoverServices(ctx context.Context) error
	Characteristics() []Characteristic

	Subscribe(c Characteristic) error
	Unsubscribe(c Characteristic) error
	// Notifications returns the stream of inbound value updates for this
	// peripheral. The channel is closed only when the peripheral disconnects.
	Notifications() (<-chan Notification, error)

	// Write sends payload to the characteristic using the requested mode.
	// Failures must be classifiable through KindOf.
	Write(c Characteristic, payload []byte, mode WriteMode) error
}

// Adapter is one local Bluetooth radio. Scanning is dwell-based: StartScan
// begins collecting advertisements, Peripherals stops the scan and returns
// everything seen so far.
type Adapter interface {
	StartScan() error
	StopScan() error
	Peripherals() ([]Peripheral, error)
}

// Manager enumerates the local Bluetooth adapters.
type Manager interface {
	Adapters() ([]Adapter, error)
}

// Streamer drives complete BLE-MIDI sessions across every available adapter.
type Streamer interface {
	// Run scans, connects and streams the configured note range to each
	// matching peripheral in turn. It returns an error only for run-fatal
	// conditions; individual peripheral failures are logged and skipped.
	Run(ctx context.Context) error
}

// PeripheralFilter decides whether a discovered peripheral should be tried.
type PeripheralFilter func(props PeripheralProperties) bool
