// Package version provides build information for roommap.
package version

// Version and Commit can be overridden at build time using:
//
//	go build -ldflags "-X github.com/AaronLay10/roommap/internal/version.Version=x.y.z -X github.com/AaronLay10/roommap/internal/version.Commit=abc123"
var (
	Version = "0.1.0"
	Commit  = "dev"
)

// String returns "version (commit)".
func String() string {
	return Version + " (" + Commit + ")"
}
