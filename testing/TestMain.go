// Package testing switches the process into test mode when imported by a
// test binary.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("COURTVISION_TEST_MODE", "1")
		if os.Getenv("STATSAPI_BASE_URL") == "" {
			_ = os.Setenv("STATSAPI_BASE_URL", "http://127.0.0.1:0")
		}
		if os.Getenv("LOG_FORMAT") == "" {
			_ = os.Setenv("LOG_FORMAT", "json")
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be delegated to from package tests that need test mode set
// before any flag parsing.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
