package instance

import (
	"os"

	"github.com/angelmondragon/stockline-backend/pkg/env"
)

// ID names the running process in logs: an explicit instance id, the dyno name,
// the hostname, then "local".
func ID() string {
	if id, ok := env.First("STOCKLINE_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
