package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode names one of the servers this binary can run.
type ServiceMode string

const (
	// ServiceModeAPI serves login, BYOA delegation and the todo REST API on HTTP_ADDR.
	ServiceModeAPI ServiceMode = "api"
	// ServiceModeMCP serves the bearer-protected MCP tool endpoint on MCP_ADDR.
	ServiceModeMCP ServiceMode = "mcp"
)

// serviceModeAll expands to every mode.
const serviceModeAll = "all"

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeAPI, ServiceModeMCP}
}

// ParseServices parses SERVICES, a comma-separated list such as "api,mcp".
// Names are case-insensitive and "all" enables every mode.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	if strings.TrimSpace(servicesStr) == "" {
		return nil, errors.New("at least one service must be specified")
	}

	services := make(map[ServiceMode]bool)
	for _, part := range strings.Split(servicesStr, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		switch name {
		case "":
			continue
		case serviceModeAll:
			for _, m := range ValidServiceModes() {
				services[m] = true
			}
		case string(ServiceModeAPI), string(ServiceModeMCP):
			services[ServiceMode(name)] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: api, mcp, all)", name)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return services, nil
}
