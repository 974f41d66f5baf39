package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/vivtool/vivtool/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/vivtool/vivtool/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/vivtool/vivtool/internal/version.Date={{.Date}}
)
