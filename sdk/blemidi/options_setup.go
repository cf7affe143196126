package blemidi

import (
	"errors"
	"time"

	"github.com/leandrodaf/blemidi/internal/logger"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// ErrInvalidNoteRange is returned when the configured note range is reversed.
var ErrInvalidNoteRange = errors.New("invalid note range: last note precedes first note")

// Defaults mirror the standard full-piano sweep.
const (
	defaultNameFilter          = "MIDI"
	defaultFirstNote      byte = 21  // A0
	defaultLastNote       byte = 108 // C8
	defaultNoteOnVelocity byte = 0x64

	defaultNoteOnDwell  = 80 * time.Millisecond
	defaultNoteOffDwell = 20 * time.Millisecond
	defaultScanWindow   = 5 * time.Second
	defaultDrainDelay   = time.Second
)

// applyDefaultOptions sets default values for SessionOptions if not
// explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify SessionOptions.
//
// Returns:
//   - contracts.SessionOptions: A structure containing the finalized session options with defaults applied.
//   - error: An error if the resulting configuration is invalid.
func applyDefaultOptions(opts ...contracts.Option) (contracts.SessionOptions, error) {
	options := &contracts.SessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.NameFilter == "" {
		options.NameFilter = defaultNameFilter
	}
	if options.FirstNote == 0 && options.LastNote == 0 {
		options.FirstNote = defaultFirstNote
		options.LastNote = defaultLastNote
	}
	if options.LastNote < options.FirstNote {
		return contracts.SessionOptions{}, ErrInvalidNoteRange
	}
	if options.NoteOnVelocity == 0 {
		options.NoteOnVelocity = defaultNoteOnVelocity
	}
	if options.NoteOnDwell == 0 {
		options.NoteOnDwell = defaultNoteOnDwell
	}
	if options.NoteOffDwell == 0 {
		options.NoteOffDwell = defaultNoteOffDwell
	}
	if options.ScanWindow == 0 {
		options.ScanWindow = defaultScanWindow
	}
	if options.DrainDelay == 0 {
		options.DrainDelay = defaultDrainDelay
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
