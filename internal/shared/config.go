package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const redacted = "********"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Scope        string `toml:"scope"`
	AuthURL      string `toml:"auth_url,omitempty"`
	TokenURL     string `toml:"token_url,omitempty"`
	APIURL       string `toml:"api_url,omitempty"`
}

// Scopes splits the space separated scope string.
func (s SpotifyConfig) Scopes() []string {
	return strings.Fields(s.Scope)
}

// ServerConfig contains HTTP server and session cookie settings.
type ServerConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	SessionTTL   Duration `toml:"session_ttl"`
	CookieName   string   `toml:"cookie_name"`
	SecureCookie bool     `toml:"secure_cookie"`
	HTTPTimeout  Duration `toml:"http_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so it can be written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads a TOML configuration file, layers it over [DefaultConfig], and expands ${VAR}
// references in the Spotify settings and server host against the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := embeddedConfig()
	if _, err := toml.Decode(string(data), config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.resolveEnv()
	return config, nil
}

// ResolveConfig loads path when it exists and falls back to [DefaultConfig] otherwise.
func ResolveConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	config := embeddedConfig()
	config.resolveEnv()
	return config
}

// embeddedConfig parses the embedded example without touching ${VAR} references.
func embeddedConfig() *Config {
	var config Config
	if _, err := toml.Decode(string(exampleConf), &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// resolveEnv resolves ${VAR} references once, after every layer has been decoded.
func (c *Config) resolveEnv() {
	c.Credentials.Spotify = c.Credentials.Spotify.expand()
	c.Server.Host = expandEnv(c.Server.Host)
}

// envRef matches ${VAR}. Bare $VAR is left alone so secrets may contain '$'.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces each ${VAR} in s with the value of VAR, or "" when unset.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

func (s SpotifyConfig) expand() SpotifyConfig {
	s.ClientID = expandEnv(s.ClientID)
	s.ClientSecret = expandEnv(s.ClientSecret)
	s.RedirectURI = expandEnv(s.RedirectURI)
	s.Scope = expandEnv(s.Scope)
	s.AuthURL = expandEnv(s.AuthURL)
	s.TokenURL = expandEnv(s.TokenURL)
	s.APIURL = expandEnv(s.APIURL)
	return s
}

// Validate checks the settings the web front-end cannot start without.
func (c *Config) Validate() error {
	sp := c.Credentials.Spotify
	if sp.ClientID == "" || sp.ClientSecret == "" {
		return ErrMissingCredentials
	}

	if _, err := url.ParseRequestURI(sp.RedirectURI); err != nil {
		return fmt.Errorf("%w: redirect_uri %q", ErrInvalidConfig, sp.RedirectURI)
	}

	if len(sp.Scopes()) == 0 {
		return fmt.Errorf("%w: scope must not be empty", ErrInvalidConfig)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Server.Port)
	}

	if c.Server.SessionTTL.Duration <= 0 {
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	}

	if c.Server.CookieName == "" {
		return fmt.Errorf("%w: cookie_name must not be empty", ErrInvalidConfig)
	}

	return nil
}

// Redacted encodes the configuration as TOML with the client secret masked.
func (c *Config) Redacted() ([]byte, error) {
	cp := *c
	if cp.Credentials.Spotify.ClientSecret != "" {
		cp.Credentials.Spotify.ClientSecret = redacted
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cp); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
