package config

type Config interface {
	EnvConfig
	CaptureConfig
	DashboardConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
}

// CaptureConfig holds everything the browser capture flow needs to launch
// and drive an isolated browser instance.
type CaptureConfig interface {
	GetDebugPort() string
	GetBrowserPath() string
	GetLoginURL() string
}

// DashboardConfig locates the cookie-authenticated dashboard API.
type DashboardConfig interface {
	GetAPIBaseURL() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
