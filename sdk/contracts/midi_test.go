package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMIDIEventPacketNoteOn(t *testing.T) {
	for note := byte(21); note <= 108; note++ {
		for _, velocity := range []byte{0, 1, 0x40, 0x64, 127} {
			e := MIDIEvent{On: true, Note: note, Velocity: velocity}
			assert.Equal(t, []byte{0x80, 0x90, note, velocity}, e.Packet())
		}
	}
}

func TestMIDIEventPacketNoteOff(t *testing.T) {
	for note := byte(21); note <= 108; note++ {
		e := MIDIEvent{On: false, Note: note, Velocity: 0}
		assert.Equal(t, []byte{0x80, 0x80, note, 0x00}, e.Packet())
	}
}

func TestMIDIEventStatusByteIgnoresNoteAndVelocity(t *testing.T) {
	// The status byte depends only on the On flag.
	on := MIDIEvent{On: true, Note: 127, Velocity: 127}.Packet()
	off := MIDIEvent{On: false, Note: 0, Velocity: 127}.Packet()
	assert.Equal(t, byte(NoteOn), on[1])
	assert.Equal(t, byte(NoteOff), off[1])
	assert.Equal(t, TimestampHeader, on[0])
	assert.Equal(t, TimestampHeader, off[0])
}
