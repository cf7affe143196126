package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

func TestFindMIDICharacteristic(t *testing.T) {
	otherUUID := uuid.MustParse("00002a37-0000-1000-8000-00805f9b34fb")

	tests := []struct {
		name  string
		chars []contracts.Characteristic
		want  contracts.CharacteristicFlags
		found bool
	}{
		{
			name: "notify and write without response",
			chars: []contracts.Characteristic{
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagNotify | contracts.FlagWriteWithoutResponse},
			},
			want:  contracts.FlagNotify | contracts.FlagWriteWithoutResponse,
			found: true,
		},
		{
			name: "notify and acknowledged write",
			chars: []contracts.Characteristic{
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagNotify | contracts.FlagWrite},
			},
			want:  contracts.FlagNotify | contracts.FlagWrite,
			found: true,
		},
		{
			name: "identity matches but notify missing",
			chars: []contracts.Characteristic{
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagWrite},
			},
			found: false,
		},
		{
			name: "identity matches but no write mode",
			chars: []contracts.Characteristic{
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagNotify},
			},
			found: false,
		},
		{
			name: "capabilities fine but identity differs",
			chars: []contracts.Characteristic{
				{UUID: otherUUID, Flags: contracts.FlagNotify | contracts.FlagWrite | contracts.FlagWriteWithoutResponse},
			},
			found: false,
		},
		{
			name:  "no characteristics at all",
			chars: nil,
			found: false,
		},
		{
			name: "first satisfying match wins",
			chars: []contracts.Characteristic{
				{UUID: otherUUID, Flags: contracts.FlagNotify | contracts.FlagWrite},
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagNotify | contracts.FlagWriteWithoutResponse},
				{UUID: contracts.MIDICharacteristicUUID, Flags: contracts.FlagNotify | contracts.FlagWrite},
			},
			want:  contracts.FlagNotify | contracts.FlagWriteWithoutResponse,
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := findMIDICharacteristic(tt.chars)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, contracts.MIDICharacteristicUUID, c.UUID)
				assert.Equal(t, tt.want, c.Flags)
			}
		})
	}
}
