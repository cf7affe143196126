package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/leandrodaf/blemidi/internal/logger"
	"github.com/leandrodaf/blemidi/sdk/blemidi"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// Drives a GZUT-MIDI light controller with the same streamer: low velocity,
// even pacing. The controller interprets canonical 4-byte BLE-MIDI packets;
// note number selects the LED.
func main() {
	log := logger.NewZapLogger()

	streamer, err := blemidi.NewStreamer(
		contracts.WithLogger(log),
		contracts.WithNameFilter("GZUT-MIDI"),
		contracts.WithNoteOnVelocity(0x02),
		contracts.WithPacing(50*time.Millisecond, 50*time.Millisecond),
	)
	if err != nil {
		log.Fatal("Failed to initialize light show", log.Field().Error("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := streamer.Run(ctx); err != nil {
		log.Fatal("Light show failed", log.Field().Error("error", err))
	}
}
