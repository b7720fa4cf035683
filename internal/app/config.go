package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the storefront server configuration, loadable from
// environment variables (OTAMANGA_ prefix), flags, or YAML config files.
type Config struct {
	Addr       string `default:"0.0.0.0:8080" usage:"Storefront listen address"`
	BackendURL string `usage:"Backend API base URL" flag:"backend-url"`
	Cart       CartConfig
	Graceful   GracefulConfig
}

// CartConfig controls browsing sessions.
type CartConfig struct {
	IdleTimeout  time.Duration `default:"30m" usage:"Evict carts untouched for this long" flag:"cart-idle-timeout"`
	SecureCookie bool          `default:"false" usage:"Mark the cart cookie Secure" flag:"cart-secure-cookie"`
	CookieTTL    time.Duration `default:"0s" usage:"Cart cookie lifetime, zero for a browser session cookie" flag:"cart-cookie-ttl"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "OTAMANGA",
		Files:     []string{"config.yaml", "/etc/otamanga/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults(os.Getenv)
	return &cfg, nil
}

// applyDefaults fills the backend URL and honours the PORT variable set by
// hosting platforms.
func (c *Config) applyDefaults(getenv func(string) string) {
	if c.BackendURL == "" {
		c.BackendURL = apiclient.DefaultBaseURL
	}
	if port := getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
