package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// Development marks an unversioned build; it is compatible with everything.
const Development = "main"

// CheckClientCompatibility reports whether a client built against
// clientVersion can talk to a server running serverVersion.
//
// Rules:
//   - an empty client version or a "main" build on either side skips the check
//   - major versions must match
//   - the client minor version must not be newer than the server's
//
// Examples:
//   - server 1.4.0, client 1.2.7 -> OK
//   - server 1.2.0, client 1.3.0 -> ERROR (client newer)
//   - server 2.0.0, client 1.9.0 -> ERROR (major differs)
func CheckClientCompatibility(serverVersion, clientVersion string) error {
	serverVersion = strings.TrimPrefix(serverVersion, "v")
	clientVersion = strings.TrimPrefix(clientVersion, "v")

	if clientVersion == "" || serverVersion == Development || clientVersion == Development {
		return nil
	}

	server, err := semver.NewVersion(serverVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid server version '%s'", serverVersion)
	}

	client, err := semver.NewVersion(clientVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid client version '%s'", clientVersion)
	}

	if server.Major() != client.Major() {
		return errors.Newf(errors.ErrCodeIncompatibleVersion, "major version mismatch: server is %d.x.x but client is %d.x.x",
			server.Major(), client.Major())
	}

	if client.Minor() > server.Minor() {
		return errors.Newf(errors.ErrCodeIncompatibleVersion, "client %s is newer than server %d.%d.x",
			client.String(), server.Major(), server.Minor())
	}

	return nil
}
