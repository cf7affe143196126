package contracts

import "time"

// SessionOptions defines the configuration for a BLE-MIDI streaming session.
type SessionOptions struct {
	Logger   Logger   // Logger for session events and errors.
	LogLevel LogLevel // Level of logging to use.

	NameFilter       string           // Substring an advertised name must contain.
	PeripheralFilter PeripheralFilter // Optional override of the evaluation policy.

	FirstNote      byte // Lowest note of the streamed range.
	LastNote       byte // Highest note of the streamed range (inclusive).
	NoteOnVelocity byte // Velocity used for every Note On.

	NoteOnDwell  time.Duration // Delay after each Note On.
	NoteOffDwell time.Duration // Delay after each Note Off.
	ScanWindow   time.Duration // Fixed dwell between StartScan and Peripherals.
	DrainDelay   time.Duration // Grace period for in-flight notifications before teardown.

	Manager Manager // Platform capability stack; defaults to the host BLE stack.
}

// Option is a function that modifies SessionOptions.
type Option func(*SessionOptions)

// WithLogger sets the logger for the session.
func WithLogger(l Logger) Option {
	return func(opts *SessionOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the session.
func WithLogLevel(level LogLevel) Option {
	return func(opts *SessionOptions) {
		opts.LogLevel = level
	}
}

// WithNameFilter sets the substring an advertised peripheral name must
// contain to be tried.
func WithNameFilter(substring string) Option {
	return func(opts *SessionOptions) {
		opts.NameFilter = substring
	}
}

// WithPeripheralFilter replaces the default name/service evaluation policy.
func WithPeripheralFilter(filter PeripheralFilter) Option {
	return func(opts *SessionOptions) {
		opts.PeripheralFilter = filter
	}
}

// WithNoteRange sets the inclusive range of notes streamed to each peripheral.
func WithNoteRange(first, last byte) Option {
	return func(opts *SessionOptions) {
		opts.FirstNote = first
		opts.LastNote = last
	}
}

// WithNoteOnVelocity sets the velocity used for Note On events.
func WithNoteOnVelocity(velocity byte) Option {
	return func(opts *SessionOptions) {
		opts.NoteOnVelocity = velocity
	}
}

// WithPacing sets the delays applied after each Note On and Note Off.
func WithPacing(noteOn, noteOff time.Duration) Option {
	return func(opts *SessionOptions) {
		opts.NoteOnDwell = noteOn
		opts.NoteOffDwell = noteOff
	}
}

// WithScanWindow sets how long each adapter scans before peripherals are
// enumerated.
func WithScanWindow(window time.Duration) Option {
	return func(opts *SessionOptions) {
		opts.ScanWindow = window
	}
}

// WithDrainDelay sets the grace period left for in-flight notifications
// between the last write and teardown.
func WithDrainDelay(delay time.Duration) Option {
	return func(opts *SessionOptions) {
		opts.DrainDelay = delay
	}
}

// WithManager injects a custom capability stack, replacing the host BLE
// platform. Intended for tests and embedders with their own transport.
func WithManager(m Manager) Option {
	return func(opts *SessionOptions) {
		opts.Manager = m
	}
}
