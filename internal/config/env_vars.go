package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar     = "APP_NAME"
	folderEnvVar   = "FOLDER"
	debugPortVar   = "CURSOR_DEBUG_PORT"
	browserPathVar = "CURSOR_BROWSER"
	loginURLVar    = "CURSOR_LOGIN_URL"
	apiBaseURLVar  = "CURSOR_API_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ CaptureConfig = EnvVars{}
var _ DashboardConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Cursor Usage")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, defaultDataFolder())
}

// GetDebugPort returns the fixed local port the spawned browser exposes its
// remote debugging endpoint on.
func (EnvVars) GetDebugPort() string {
	return GetEnv(debugPortVar, "9222")
}

// GetBrowserPath returns an explicit browser executable path, overriding the
// platform probe when set.
func (EnvVars) GetBrowserPath() string {
	return GetEnv(browserPathVar, "")
}

func (EnvVars) GetLoginURL() string {
	return GetEnv(loginURLVar, "https://cursor.com/dashboard")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "https://cursor.com")
}

func defaultDataFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cursor-usage"
	}
	return filepath.Join(home, ".cursor-usage")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
