package instance

import (
	"os"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/env"
)

// GetID identifies the running process in logs. ASESFY_INSTANCE_ID wins over the
// platform dyno name, then the hostname.
func GetID() string {
	if id, ok := env.First("ASESFY_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
