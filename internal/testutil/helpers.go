// Package testutil holds shared test helpers.
package testutil

import (
	"os"
	"testing"
)

// RequireDevice skips the test unless the WGPEERD_DEVICE_TEST
// environment variable is set. Tests needing a real WireGuard device
// (wgctrl access) only run in an environment that provides one.
func RequireDevice(t *testing.T) {
	t.Helper()
	if os.Getenv("WGPEERD_DEVICE_TEST") == "" {
		t.Skip("Skipping test: requires WGPEERD_DEVICE_TEST environment")
	}
}
