package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/blemidi/internal/logger"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

func newTestSession() *Session {
	opts := &contracts.SessionOptions{Logger: logger.NewNopLogger()}
	return New(nil, opts)
}

func midiChar(flags contracts.CharacteristicFlags) contracts.Characteristic {
	return contracts.Characteristic{UUID: contracts.MIDICharacteristicUUID, Flags: flags}
}

func TestWritePacketPrefersWithoutResponse(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)
	packet := contracts.MIDIEvent{On: true, Note: 60, Velocity: 0x64}.Packet()

	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWriteWithoutResponse|contracts.FlagWrite), packet)

	require.NoError(t, err)
	require.Len(t, p.writes, 1)
	assert.Equal(t, contracts.WriteWithoutResponse, p.writes[0].mode)
	assert.Equal(t, packet, p.writes[0].payload)
}

func TestWritePacketNoFallbackOnPlainFailure(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)
	cause := errors.New("att: write rejected")
	p.writeFunc = func(int, contracts.WriteMode) error { return cause }

	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWriteWithoutResponse), []byte{0x80, 0x90, 60, 0x64})

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	// A non-authorization failure with no acknowledged-write support must
	// surface immediately with exactly one attempt.
	require.Len(t, p.writes, 1)
	assert.Equal(t, contracts.WriteWithoutResponse, p.writes[0].mode)
}

func TestWritePacketFallsBackWhenBothModesSupported(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)
	p.writeFunc = func(attempt int, _ contracts.WriteMode) error {
		if attempt == 0 {
			return errors.New("att: write rejected")
		}
		return nil
	}

	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWriteWithoutResponse|contracts.FlagWrite), []byte{0x80, 0x90, 60, 0x64})

	require.NoError(t, err)
	require.Len(t, p.writes, 2)
	assert.Equal(t, contracts.WriteWithoutResponse, p.writes[0].mode)
	assert.Equal(t, contracts.WriteWithResponse, p.writes[1].mode)
}

func TestWritePacketFallsBackOnAuthorizationFailure(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)
	cause := errors.New("bluez: Not Authorized")
	p.writeFunc = func(int, contracts.WriteMode) error { return cause }

	// Only write-without-response is advertised, but an authorization
	// failure still earns one acknowledged attempt.
	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWriteWithoutResponse), []byte{0x80, 0x90, 60, 0x64})

	require.Error(t, err)
	require.Len(t, p.writes, 2)
	assert.Equal(t, contracts.WriteWithoutResponse, p.writes[0].mode)
	assert.Equal(t, contracts.WriteWithResponse, p.writes[1].mode)

	// Guidance is added, the original error stays retrievable.
	assert.Contains(t, err.Error(), "pairing/bonding")
	assert.Contains(t, err.Error(), "Not Authorized")
	assert.ErrorIs(t, err, cause)
}

func TestWritePacketAuthorizationCaseInsensitive(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)
	cause := errors.New("writing value: not authorized")
	p.writeFunc = func(int, contracts.WriteMode) error { return cause }

	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWriteWithoutResponse), []byte{0x80, 0x90, 60, 0x64})

	require.Error(t, err)
	assert.True(t, contracts.IsUnauthorized(err))
	assert.ErrorIs(t, err, cause)
}

func TestWritePacketDirectAcknowledgedWrite(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)

	err := s.writePacket(p, midiChar(contracts.FlagNotify|contracts.FlagWrite), []byte{0x80, 0x80, 60, 0})

	require.NoError(t, err)
	require.Len(t, p.writes, 1)
	assert.Equal(t, contracts.WriteWithResponse, p.writes[0].mode)
}

func TestWritePacketUnwritableCharacteristic(t *testing.T) {
	s := newTestSession()
	p := newFakePeripheral("dev", nil)

	err := s.writePacket(p, midiChar(contracts.FlagNotify), []byte{0x80, 0x90, 60, 0x64})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotWritable)
	assert.Equal(t, contracts.KindNotSupported, contracts.KindOf(err))
	// The platform write path must never be touched.
	assert.Empty(t, p.writes)
}
