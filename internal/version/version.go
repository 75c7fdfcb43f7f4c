// Package version carries build information stamped in with -ldflags, e.g.
//
//	-X github.com/avtest-qa/booking-e2e/internal/version.Version=v1.2.0
package version

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String is the cobra --version text.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Full adds the Go toolchain to String.
func Full() string {
	return fmt.Sprintf("%s with %s", String(), runtime.Version())
}

// Fields stamps the build onto a run log so results can be traced to a binary.
func Fields(e *zerolog.Event) *zerolog.Event {
	return e.Str("version", Version).Str("commit", Commit)
}
