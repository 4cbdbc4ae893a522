// Package version carries build metadata, set with -ldflags at release time.
package version

var (
	// Version is the release of this module.
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
)

// String renders the version with its commit.
func String() string {
	if GitSHA == "unknown" || GitSHA == "" {
		return Version
	}
	return Version + "+" + GitSHA
}
