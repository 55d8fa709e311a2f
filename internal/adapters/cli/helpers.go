package cli

import (
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/infrastructure/config"
)

const fallbackServerURL = "http://localhost:8090"

const planDateLayout = "2006-01-02"

// resolveServerURL resolves the daemon URL from flags or defaults.
// Priority: --server flag (or COLDROUTE_SERVER env) > user config > localhost
func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err == nil {
		if userCfg, err := userConfigHandler.Load(); err == nil && userCfg.ServerURL != "" {
			return userCfg.ServerURL
		}
	}

	return fallbackServerURL
}

// newDaemonClient connects to the daemon at the resolved server URL
func newDaemonClient() (*DaemonClient, error) {
	client, err := NewDaemonClient(resolveServerURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return client, nil
}

// resolvePlanDate resolves a plan date from the given flag or defaults.
// Priority: --date flag > user config default > today
func resolvePlanDate(flagDate string) (string, error) {
	raw := flagDate
	if raw == "" {
		userConfigHandler, err := config.NewUserConfigHandler()
		if err == nil {
			if userCfg, err := userConfigHandler.Load(); err == nil {
				raw = userCfg.DefaultPlanDate
			}
		}
	}
	if raw == "" {
		return time.Now().Format(planDateLayout), nil
	}

	if _, err := time.Parse(planDateLayout, raw); err != nil {
		return "", fmt.Errorf("invalid plan date %q: expected YYYY-MM-DD", raw)
	}
	return raw, nil
}

// resolveDepotID resolves a depot id from the given flag or the user config.
// Empty means the daemon picks the sole depot for the date.
func resolveDepotID(flagDepot string) string {
	if flagDepot != "" {
		return flagDepot
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return ""
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return ""
	}
	return userCfg.DefaultDepotID
}
