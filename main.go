package main

import (
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/cbir/cmd"
)

// main is the entry point of the demo binary. It sets up logging based
// on the CBIR_DEMO_DEBUG environment variable, starts a goroutine to
// listen for interrupt signals, and executes the demo command.
func main() {

	// If CBIR_DEMO_DEBUG is false, 0, or unset, disable logging; otherwise enable it.
	debugMode := strings.TrimSpace(strings.ToLower(os.Getenv("CBIR_DEMO_DEBUG")))
	if debugMode == "false" || debugMode == "0" || debugMode == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan)

	cmd.Execute()
}

// listenForInterrupt exits the program when an interrupt signal is received.
func listenForInterrupt(stopChan chan os.Signal) {
	<-stopChan
	log.Fatal().Msg("Interrupt signal received. Exiting...")
}
