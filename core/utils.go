package core

import (
	"github.com/rs/zerolog/log"
	"os"
	"strconv"
	"time"
)

// GetSeed receives a seed value for random number generation from the CBIR_SEED environment variable, falling back to the current time when it is unset or unparseable.
func GetSeed() int64 {
	seedStr := os.Getenv("CBIR_SEED")
	if seedStr != "" {
		if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			log.Info().Msgf("Using seed from CBIR_SEED value: %d", seed)
			return seed
		}
		log.Warn().Msgf("Failed to parse CBIR_SEED value: %s", seedStr)
	}

	seed := time.Now().UnixNano()
	log.Info().Msgf("Using current time as seed: %d", seed)
	return seed
}
