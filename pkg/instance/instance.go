package instance

import (
	"os"

	"github.com/angelmondragon/servicehub-gateway/pkg/env"
)

const defaultID = "local"

// GetID returns the gateway instance identifier: SERVICEHUB_INSTANCE_ID, then the
// platform dyno name, then the hostname.
func GetID() string {
	if id := env.First("SERVICEHUB_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return defaultID
}
