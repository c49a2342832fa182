package pagewatch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/pagewatch/textdiff"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration must be >= 0, got %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the pagewatch run configuration.
//
// WebhookURL is the one required secret; it normally arrives via the
// PAGEWATCH_WEBHOOK_URL environment variable rather than the file, but the
// yaml field exists for setups that keep the file itself secret.
type Config struct {
	URL           string   `yaml:"url"`
	StatePath     string   `yaml:"state_path"`
	WebhookURL    string   `yaml:"webhook_url"`
	MaxDiffLines  int      `yaml:"max_diff_lines"`
	ExcerptLines  int      `yaml:"excerpt_lines"`
	FetchTimeout  Duration `yaml:"fetch_timeout"`
	NotifyTimeout Duration `yaml:"notify_timeout"`
	UserAgent     string   `yaml:"user_agent"`
}

// WebhookEnv is the environment variable carrying the webhook destination.
const WebhookEnv = "PAGEWATCH_WEBHOOK_URL"

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with production defaults.
func (c *Config) ApplyDefaults() {
	if c.StatePath == "" {
		c.StatePath = "pagewatch.db"
	}
	if c.MaxDiffLines <= 0 {
		c.MaxDiffLines = textdiff.DefaultMaxLines
	}
	if c.ExcerptLines < 0 {
		c.ExcerptLines = 0
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = Duration(30 * time.Second)
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = Duration(10 * time.Second)
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; pagewatch/1.0)"
	}
}

// Validate checks that the run can start. requireWebhook is false for dry
// runs, where the message goes to stdout instead of a webhook.
func (c *Config) Validate(requireWebhook bool) error {
	if c.URL == "" {
		return errors.New("config: url is required")
	}
	if requireWebhook && c.WebhookURL == "" {
		return fmt.Errorf("config: webhook destination is required (set %s)", WebhookEnv)
	}
	return nil
}
