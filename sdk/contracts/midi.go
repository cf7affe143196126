package contracts

// MIDICommand represents the status byte of a MIDI channel message.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
)

// TimestampHeader is the leading byte of a BLE-MIDI packet. The profile
// reserves it for a millisecond timestamp; this module sends the fixed
// high-bit-set header the way most simple senders do.
const TimestampHeader byte = 0x80

// MIDIEvent is one Note On/Off event to be sent over the BLE MIDI
// characteristic. Note and Velocity follow MIDI numbering (0-127); range
// enforcement is the caller's responsibility.
type MIDIEvent struct {
	On       bool // true for Note On, false for Note Off.
	Note     byte // MIDI note number.
	Velocity byte // Note velocity; conventionally 0 for Note Off.
}

// Packet encodes the event as the canonical 4-byte BLE-MIDI wire packet
// [timestamp-header, status, note, velocity].
func (e MIDIEvent) Packet() []byte {
	status := byte(NoteOff)
	if e.On {
		status = byte(NoteOn)
	}
	return []byte{TimestampHeader, status, e.Note, e.Velocity}
}
