package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// ErrNoAdapters is returned when the host exposes no Bluetooth adapters.
// This is fatal for the whole run.
var ErrNoAdapters = errors.New("no Bluetooth adapters found")

const unknownPeripheralName = "(peripheral name unknown)"

// Session drives BLE-MIDI streaming sessions over every adapter the manager
// exposes: scan, evaluate, connect, resolve the MIDI characteristic,
// subscribe, stream the note range, tear down. Peripheral sessions run
// strictly sequentially.
type Session struct {
	manager contracts.Manager
	opts    *contracts.SessionOptions
	logger  contracts.Logger
}

// New creates a session driver over the given capability stack.
func New(manager contracts.Manager, opts *contracts.SessionOptions) *Session {
	return &Session{manager: manager, opts: opts, logger: opts.Logger}
}

// Run implements contracts.Streamer. Adapter absence is the only run-fatal
// condition; per-peripheral failures are logged and skipped.
func (s *Session) Run(ctx context.Context) error {
	adapters, err := s.manager.Adapters()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoAdapters, err)
	}
	if len(adapters) == 0 {
		return ErrNoAdapters
	}

	for _, adapter := range adapters {
		if err := s.runAdapter(ctx, adapter); err != nil {
			return err
		}
	}
	return nil
}

// runAdapter performs one scan window on the adapter and then tries each
// discovered peripheral in turn.
func (s *Session) runAdapter(ctx context.Context, adapter contracts.Adapter) error {
	s.logger.Info("starting scan")
	if err := adapter.StartScan(); err != nil {
		return fmt.Errorf("starting scan: %w", err)
	}

	if err := sleep(ctx, s.opts.ScanWindow); err != nil {
		_ = adapter.StopScan()
		return err
	}

	peripherals, err := adapter.Peripherals()
	if err != nil {
		return fmt.Errorf("enumerating peripherals: %w", err)
	}
	if len(peripherals) == 0 {
		s.logger.Warn("no BLE peripherals found")
		return nil
	}

	for _, p := range peripherals {
		if err := s.tryPeripheral(ctx, p); err != nil {
			if ctx.Err() != nil {
				return err
			}
			// Fatal for this peripheral's session only.
			s.logger.Error("peripheral session aborted",
				s.logger.Field().Error("error", err))
		}
	}
	return nil
}

// tryPeripheral runs the per-peripheral state machine. A nil return means
// either a completed stream or a clean skip (filter mismatch, connection
// failure, missing characteristic).
func (s *Session) tryPeripheral(ctx context.Context, p contracts.Peripheral) error {
	props, err := p.Properties()
	if err != nil {
		return fmt.Errorf("reading peripheral properties: %w", err)
	}
	name := props.LocalName
	if name == "" {
		name = unknownPeripheralName
	}

	connected, err := p.IsConnected()
	if err != nil {
		return fmt.Errorf("querying connection state of %q: %w", name, err)
	}
	s.logger.Info("peripheral discovered",
		s.logger.Field().String("peripheral", name),
		s.logger.Field().Bool("connected", connected))

	if !s.accept(props) {
		s.logger.Info("skipping peripheral, filter mismatch",
			s.logger.Field().String("peripheral", name))
		return nil
	}
	s.logger.Info("found candidate peripheral",
		s.logger.Field().String("peripheral", name))

	if !connected {
		if err := p.Connect(ctx); err != nil {
			s.logger.Error("error connecting to peripheral",
				s.logger.Field().String("peripheral", name),
				s.logger.Field().Error("error", err))
			return nil
		}
	}
	connected, err = p.IsConnected()
	if err != nil {
		return fmt.Errorf("querying connection state of %q: %w", name, err)
	}
	if !connected {
		return nil
	}
	s.logger.Info("connected to peripheral",
		s.logger.Field().String("peripheral", name))

	s.logger.Info("discovering services",
		s.logger.Field().String("peripheral", name))
	if err := p.DiscoverServices(ctx); err != nil {
		return fmt.Errorf("discovering services on %q: %w", name, err)
	}

	char, ok := findMIDICharacteristic(p.Characteristics())
	if !ok {
		s.logger.Warn("peripheral does not expose a usable BLE MIDI characteristic",
			s.logger.Field().String("peripheral", name))
		if err := p.Disconnect(); err != nil {
			return fmt.Errorf("disconnecting from %q: %w", name, err)
		}
		return nil
	}

	return s.stream(ctx, p, char, name)
}

// accept applies the evaluation policy: advertised name must contain the
// configured substring, and a non-empty advertised service list must include
// the MIDI service. Many stacks omit service UUIDs from advertisements, so
// an empty list does not disqualify a peripheral.
func (s *Session) accept(props contracts.PeripheralProperties) bool {
	if s.opts.PeripheralFilter != nil {
		return s.opts.PeripheralFilter(props)
	}
	if !strings.Contains(props.LocalName, s.opts.NameFilter) {
		return false
	}
	if len(props.Services) > 0 && !slices.Contains(props.Services, contracts.MIDIServiceUUID) {
		return false
	}
	return true
}

// stream subscribes, spawns the notification listener and drives the note
// range through the write strategy, then tears down in reverse order. The
// listener is cancelled abruptly after the drain delay; notifications still
// in flight at that point are lost, which is accepted.
func (s *Session) stream(ctx context.Context, p contracts.Peripheral, char contracts.Characteristic, name string) error {
	s.logger.Info("subscribing to BLE MIDI characteristic",
		s.logger.Field().String("characteristic", char.UUID.String()),
		s.logger.Field().Uint8("flags", uint8(char.Flags)))
	if err := p.Subscribe(char); err != nil {
		return fmt.Errorf("subscribing on %q: %w", name, err)
	}

	notifications, err := p.Notifications()
	if err != nil {
		return fmt.Errorf("opening notification stream of %q: %w", name, err)
	}

	listenerCtx, cancelListener := context.WithCancel(ctx)
	defer cancelListener()
	go s.listen(listenerCtx, name, notifications)

	s.logger.Info("sending note range",
		s.logger.Field().Uint8("first", s.opts.FirstNote),
		s.logger.Field().Uint8("last", s.opts.LastNote))
	for note := s.opts.FirstNote; ; note++ {
		s.logger.Debug("note on", s.logger.Field().Uint8("note", note))
		on := contracts.MIDIEvent{On: true, Note: note, Velocity: s.opts.NoteOnVelocity}
		if err := s.writePacket(p, char, on.Packet()); err != nil {
			return fmt.Errorf("writing note on %d to %q: %w", note, name, err)
		}
		if err := sleep(ctx, s.opts.NoteOnDwell); err != nil {
			return err
		}

		s.logger.Debug("note off", s.logger.Field().Uint8("note", note))
		off := contracts.MIDIEvent{On: false, Note: note, Velocity: 0}
		if err := s.writePacket(p, char, off.Packet()); err != nil {
			return fmt.Errorf("writing note off %d to %q: %w", note, name, err)
		}
		if err := sleep(ctx, s.opts.NoteOffDwell); err != nil {
			return err
		}

		if note >= s.opts.LastNote {
			break
		}
	}

	s.logger.Info("finished sending notes, allowing notifications to drain",
		s.logger.Field().String("peripheral", name))
	if err := sleep(ctx, s.opts.DrainDelay); err != nil {
		return err
	}

	s.logger.Info("unsubscribing from BLE MIDI characteristic",
		s.logger.Field().String("peripheral", name))
	if err := p.Unsubscribe(char); err != nil {
		return fmt.Errorf("unsubscribing on %q: %w", name, err)
	}

	s.logger.Info("disconnecting from peripheral",
		s.logger.Field().String("peripheral", name))
	if err := p.Disconnect(); err != nil {
		return fmt.Errorf("disconnecting from %q: %w", name, err)
	}
	return nil
}

// listen consumes the notification stream until cancelled, logging each
// inbound value. It shares nothing mutable with the send loop and must never
// block it.
func (s *Session) listen(ctx context.Context, name string, notifications <-chan contracts.Notification) {
	var count uint64
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			count++
			s.logger.Info("notification received",
				s.logger.Field().Uint64("seq", count),
				s.logger.Field().String("peripheral", name),
				s.logger.Field().String("characteristic", n.UUID.String()),
				s.logger.Field().Bytes("payload", n.Value))
		}
	}
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
