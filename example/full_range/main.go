package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/leandrodaf/blemidi/internal/logger"
	"github.com/leandrodaf/blemidi/sdk/blemidi"
	"github.com/leandrodaf/blemidi/sdk/contracts"
)

// Sweeps the full piano range (A0-C8) over every BLE MIDI peripheral in
// reach. Ctrl+C stops the session cleanly.
func main() {
	log := logger.NewZapLogger()

	streamer, err := blemidi.NewStreamer(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Fatal("Failed to initialize BLE-MIDI streamer", log.Field().Error("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := streamer.Run(ctx); err != nil {
		log.Fatal("BLE-MIDI session failed", log.Field().Error("error", err))
	}
}
