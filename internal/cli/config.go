package cli

import (
	"os"

	appconfig "github.com/mcoot/fivem-rosterbot/internal/config"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool

	// App is the process configuration read from the environment and .env.
	App appconfig.Config
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ROSTERCTL_SERVER", "http://localhost:5000"),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadApp reads the process configuration.
func (c *Config) LoadApp() error {
	app, err := appconfig.Load()
	if err != nil {
		return err
	}
	c.App = app
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
