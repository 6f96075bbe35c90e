package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ssisim/agent-sim-platform/internal/log"
)

// Cache providers
const (
	CacheProviderRedis = "redis"
	CacheProviderNone  = "none"
)

const (
	defaultServerPort       = 3000
	defaultInviteCodeLength = 5
	defaultQRStoreTTLSecs   = 300
)

// Configuration holds the project configuration
type Configuration struct {
	ServerUrl  string
	ServerPort int
	Database   Database   `mapstructure:"Database"`
	Cache      Cache      `mapstructure:"Cache"`
	Log        Log        `mapstructure:"Log"`
	API        API        `mapstructure:"API"`
	Invitation Invitation `mapstructure:"Invitation"`
}

// Database has the database configuration
// URL: The database connection string
type Database struct {
	URL string `mapstructure:"Url" tip:"The Datasource name locator"`
}

// Cache configuration. Provider selects the backend; "none" disables it.
type Cache struct {
	Provider string `mapstructure:"Provider" tip:"Cache provider: redis or none"`
	Url      string `mapstructure:"Url" tip:"The cache url"`
}

// Log holds runtime log configurations
//
// Level: The minimum log level to show on logs. Values can be
//
//	 -4: Debug
//		0: Info
//		4: Warning
//		8: Error
//
// Mode: Log mode is the format of the log.
// 1: JSON
// 2: Text
type Log struct {
	Level int `mapstructure:"Level" tip:"Minimum level to log: (-4:Debug, 0:Info, 4:Warning, 8:Error)"`
	Mode  int `mapstructure:"Mode" tip:"Log format (1: JSON, 2:Structured text)"`
}

// API holds the http surface configuration
type API struct {
	AllowedOrigins string `mapstructure:"AllowedOrigins" tip:"Comma separated allowed CORS origins, or *"`
}

// Invitation holds the invitation artifact configuration
type Invitation struct {
	CodeLength    int `mapstructure:"CodeLength" tip:"Invite code length in digits"`
	QRStoreTTLSec int `mapstructure:"QRStoreTTLSec" tip:"Seconds an invitation QR payload stays retrievable"`
}

// Sanitize performs some basic checks and sanitizations in the configuration.
// Returns nil if config is acceptable, error otherwise.
func (c *Configuration) Sanitize() error {
	if c.Database.URL == "" {
		return fmt.Errorf("a database URL must be provided")
	}
	if c.ServerUrl != "" {
		sUrl, err := c.validateServerUrl()
		if err != nil {
			return fmt.Errorf("serverUrl is not a valid URL <%s>: %w", c.ServerUrl, err)
		}
		c.ServerUrl = sUrl
	}
	if c.Invitation.CodeLength <= 0 {
		c.Invitation.CodeLength = defaultInviteCodeLength
	}
	if c.Invitation.QRStoreTTLSec <= 0 {
		c.Invitation.QRStoreTTLSec = defaultQRStoreTTLSecs
	}
	if c.Cache.Provider == "" {
		c.Cache.Provider = CacheProviderNone
	}
	return nil
}

// AllowedOriginsList returns the CORS origins as a slice. A wildcard or an
// empty configuration yields ["*"].
func (c *Configuration) AllowedOriginsList() []string {
	raw := strings.TrimSpace(c.API.AllowedOrigins)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *Configuration) validateServerUrl() (string, error) {
	sUrl, err := url.ParseRequestURI(c.ServerUrl)
	if err != nil {
		return c.ServerUrl, err
	}
	if sUrl.Scheme == "" {
		return c.ServerUrl, fmt.Errorf("server URL must be an absolute URL")
	}
	sUrl.RawQuery = ""
	return strings.Trim(strings.Trim(sUrl.String(), "/"), "?"), nil
}

// Load loads the configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (*Configuration, error) {
	_ = godotenv.Load()
	bindEnv()

	config := &Configuration{
		ServerPort: defaultServerPort,
		Log: Log{
			Level: log.LevelDebug,
			Mode:  log.OutputText,
		},
		Invitation: Invitation{
			CodeLength:    defaultInviteCodeLength,
			QRStoreTTLSec: defaultQRStoreTTLSecs,
		},
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	return config, nil
}

func bindEnv() {
	viper.SetEnvPrefix("SIM")
	_ = viper.BindEnv("ServerUrl", "SIM_SERVER_URL")
	_ = viper.BindEnv("ServerPort", "SIM_SERVER_PORT")

	_ = viper.BindEnv("Database.Url", "SIM_DATABASE_URL")

	_ = viper.BindEnv("Cache.Provider", "SIM_CACHE_PROVIDER")
	_ = viper.BindEnv("Cache.Url", "SIM_CACHE_URL")

	_ = viper.BindEnv("Log.Level", "SIM_LOG_LEVEL")
	_ = viper.BindEnv("Log.Mode", "SIM_LOG_MODE")

	_ = viper.BindEnv("API.AllowedOrigins", "SIM_ALLOWED_ORIGINS")

	_ = viper.BindEnv("Invitation.CodeLength", "SIM_INVITE_CODE_LENGTH")
	_ = viper.BindEnv("Invitation.QRStoreTTLSec", "SIM_QR_STORE_TTL_SEC")

	viper.AutomaticEnv()
}
