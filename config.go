package analyticord

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the public Analyticord service.
	DefaultBaseURL = "https://analyticord.solutions"
	// DefaultFlushInterval is how often pending counts are submitted.
	DefaultFlushInterval = 60 * time.Second
	// DefaultTimeout applies to the *http.Client the library builds itself.
	DefaultTimeout = 30 * time.Second
)

// Environment variables read by LoadConfig.
const (
	EnvURL           = "ANALYTICORD_URL"
	EnvBotToken      = "ANALYTICORD_BOT_TOKEN"
	EnvUserToken     = "ANALYTICORD_USER_TOKEN"
	EnvFlushInterval = "ANALYTICORD_FLUSH_INTERVAL"
	EnvTimeout       = "ANALYTICORD_TIMEOUT"
	EnvEvents        = "ANALYTICORD_EVENTS"
)

// Config holds the settings a client is built from.
type Config struct {
	// BaseURL is the scheme and host of the API, without the /api prefix.
	BaseURL string `yaml:"base_url" validate:"required,http_url"`

	// BotToken authorizes login and submissions.
	BotToken string `yaml:"bot_token" validate:"required"`

	// UserToken authorizes the data retrieval endpoints. Optional.
	UserToken string `yaml:"user_token"`

	// FlushInterval is the period of the background flush loop.
	FlushInterval time.Duration `yaml:"flush_interval" validate:"gt=0"`

	// Timeout is used only when the library creates the HTTP client.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Events are registered in addition to the built-in "messages" event.
	Events []string `yaml:"events" validate:"dive,required"`
}

// DefaultConfig returns a Config with every optional field set.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		FlushInterval: DefaultFlushInterval,
		Timeout:       DefaultTimeout,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config and reports every offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigError{Op: "validate config", Err: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return &ConfigError{
		Op:  "validate config",
		Err: fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, ", ")),
	}
}

// LoadConfig builds a Config from defaults, then the YAML file at path (if
// path is non-empty), then environment variables. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("analyticord: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("analyticord: parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvBotToken); ok && v != "" {
		c.BotToken = v
	}
	if v, ok := lookup(EnvUserToken); ok && v != "" {
		c.UserToken = v
	}
	if v, ok := lookup(EnvFlushInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Op: "parse " + EnvFlushInterval, Err: err}
		}
		c.FlushInterval = d
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Op: "parse " + EnvTimeout, Err: err}
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvEvents); ok && v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Events = append(c.Events, name)
			}
		}
	}
	return nil
}
