package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "COHORT_TOOLS_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether the process runs under `go test` with the
// testing helper imported. Access logging is silenced in that mode.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}
