package session

import (
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// findMIDICharacteristic picks the characteristic usable as the BLE MIDI
// transport: identity must match the well-known MIDI characteristic UUID and
// the capability set must include notify plus at least one write mode. The
// first match in discovery order wins; absence is reported, not an error.
func findMIDICharacteristic(chars []contracts.Characteristic) (contracts.Characteristic, bool) {
	for _, c := range chars {
		if c.UUID != contracts.MIDICharacteristicUUID {
			continue
		}
		if !c.Flags.Has(contracts.FlagNotify) {
			continue
		}
		if c.Flags.Has(contracts.FlagWrite) || c.Flags.Has(contracts.FlagWriteWithoutResponse) {
			return c, true
		}
	}
	return contracts.Characteristic{}, false
}
