package app

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

const testModeEnv = "STATEMENTS_TEST_MODE"

var testMode = sync.OnceValue(readTestMode)

// readTestMode accepts any strconv.ParseBool spelling; unset or unparsable
// values mean off.
func readTestMode() bool {
	on, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(testModeEnv)))
	return err == nil && on
}

// InTestMode reports whether STATEMENTS_TEST_MODE is on. The value is read once.
func InTestMode() bool {
	return testMode()
}

// RefreshTestMode drops the cached flag so the next call rereads the environment.
func RefreshTestMode() {
	testMode = sync.OnceValue(readTestMode)
}

// SkipStartup reports whether binary must exit before opening listeners or
// dialing Redis, logging the reason when it does.
func SkipStartup(logger *slog.Logger, binary string) bool {
	if !InTestMode() {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("test mode detected, skipping startup",
		slog.String("binary", binary),
		slog.String("env", testModeEnv),
	)
	return true
}
