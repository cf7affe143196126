package session

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// ErrNotWritable is returned when the resolved characteristic supports no
// write mode at all. Retrying can never succeed.
var ErrNotWritable = errors.New("BLE MIDI characteristic is not writable")

const pairingGuidance = "many devices require pairing/bonding before they accept MIDI writes; " +
	"pair the device (for example via `bluetoothctl pair`/`trust`/`connect`) and retry"

// writePacket sends one wire packet through the characteristic, preferring
// write-without-response for latency. On failure it falls back to a single
// acknowledged write when the error looks like an authorization problem or
// when the characteristic supports acknowledged writes anyway.
func (s *Session) writePacket(p contracts.Peripheral, c contracts.Characteristic, packet []byte) error {
	supportsWithout := c.Flags.Has(contracts.FlagWriteWithoutResponse)
	supportsWith := c.Flags.Has(contracts.FlagWrite)

	if supportsWithout {
		err := p.Write(c, packet, contracts.WriteWithoutResponse)
		if err == nil {
			return nil
		}
		if !supportsWith && !contracts.IsUnauthorized(err) {
			return augmentWriteError(err)
		}
		s.logger.Warn("write without response failed; retrying with response",
			s.logger.Field().Error("error", err))
	}

	if supportsWith || supportsWithout {
		if err := p.Write(c, packet, contracts.WriteWithResponse); err != nil {
			return augmentWriteError(err)
		}
		return nil
	}

	return &contracts.Error{Kind: contracts.KindNotSupported, Op: "write", Err: ErrNotWritable}
}

// augmentWriteError attaches pairing guidance to authorization failures. The
// original error stays in the chain for diagnostics.
func augmentWriteError(err error) error {
	if contracts.IsUnauthorized(err) {
		return fmt.Errorf("operation not authorized while writing to BLE MIDI characteristic (%s): %w",
			pairingGuidance, err)
	}
	return err
}
