package version

// Version is the orchestrator version, set at build time with
// -ldflags "-X github.com/rxtech-lab/argo-orchestrator/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
