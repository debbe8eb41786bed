package app

import "fmt"

// Set via ldflags, e.g.
// go build -ldflags "-X github.com/heartmarshall/anikor-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns the version string reported at startup and by /health.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
