package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"moonmoji/moonphase"
)

// AppConfig is a global variable for configuration
var AppConfig Config

// Config holds the settings shared by all commands
type Config struct {
	TelegramBotToken   string        `yaml:"telegram_bot_token"`
	TelegramChatID     string        `yaml:"telegram_chat_id"`
	CronExpression     string        `yaml:"cron_expression"`
	StateFilePath      string        `yaml:"state_file_path"`
	StatusFilePath     string        `yaml:"status_file_path"`
	StatusInterval     time.Duration `yaml:"status_interval"`
	VariantProbability float64       `yaml:"variant_probability"`
	DemoDays           int           `yaml:"demo_days"`
	LogLevel           string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		CronExpression:     "0 20 * * *",
		StateFilePath:      "state.txt",
		StatusFilePath:     "moonmoji.status",
		StatusInterval:     time.Minute,
		VariantProbability: moonphase.DefaultVariantProbability,
		DemoDays:           moonphase.DemoDays,
		LogLevel:           "info",
	}
}

// LoadConfig initializes AppConfig from an optional YAML file and the environment
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load reads path (skipped when empty or missing) on top of the defaults,
// then applies environment variables
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides replaces fields whose environment variable is set
func (c *Config) applyEnvOverrides() {
	c.TelegramBotToken = getEnv("TG_BOT_TOKEN", c.TelegramBotToken)
	c.TelegramChatID = getEnv("CHAT_ID", c.TelegramChatID)
	c.CronExpression = getEnv("CRON_EXPRESSION", c.CronExpression)
	c.StateFilePath = getEnv("STATE_FILE_PATH", c.StateFilePath)
	c.StatusFilePath = getEnv("STATUS_FILE_PATH", c.StatusFilePath)
	c.StatusInterval = toDuration(getEnv("STATUS_INTERVAL", ""), c.StatusInterval)
	c.VariantProbability = strToFloat(getEnv("VARIANT_PROBABILITY", ""), c.VariantProbability)
	c.DemoDays = toInt(getEnv("DEMO_DAYS", ""), c.DemoDays)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// UnmarshalYAML reads status_interval in the forms STATUS_INTERVAL accepts,
// "90s" or a plain number of seconds, and the rest of the file as usual
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config

	node := *value
	if node.Kind == yaml.MappingNode {
		node.Content = make([]*yaml.Node, 0, len(value.Content))
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if key.Value != "status_interval" {
				node.Content = append(node.Content, key, val)
				continue
			}
			d, err := parseDuration(val.Value)
			if err != nil {
				return fmt.Errorf("status_interval on line %d: %w", val.Line, err)
			}
			c.StatusInterval = d
		}
	}
	return node.Decode((*plain)(c))
}

// Validate checks the values every command relies on
func (c Config) Validate() error {
	if c.VariantProbability < 0 || c.VariantProbability > 1 {
		return fmt.Errorf("variant probability %v is outside [0, 1]", c.VariantProbability)
	}
	if c.DemoDays <= 0 {
		return fmt.Errorf("demo days must be positive, got %d", c.DemoDays)
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status interval must be positive, got %s", c.StatusInterval)
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot needs
func (c Config) ValidateBot() error {
	if c.TelegramBotToken == "" || c.TelegramChatID == "" {
		return errors.New("TG_BOT_TOKEN and CHAT_ID must be set")
	}
	if _, err := c.ChatID(); err != nil {
		return err
	}
	if c.CronExpression == "" {
		return errors.New("CRON_EXPRESSION must not be empty")
	}
	return nil
}

// ChatID returns TelegramChatID as a number
func (c Config) ChatID() (int64, error) {
	id, err := strconv.ParseInt(c.TelegramChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("CHAT_ID %q is not a number: %w", c.TelegramChatID, err)
	}
	return id, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// toInt converts a string to int, keeping fallback when it can't
func toInt(s string, fallback int) int {
	if out, err := strconv.Atoi(s); err == nil {
		return out
	}
	return fallback
}

// strToFloat converts a string to float64, keeping fallback when it can't
func strToFloat(s string, fallback float64) float64 {
	if out, err := strconv.ParseFloat(s, 64); err == nil {
		return out
	}
	return fallback
}

// parseDuration accepts "90s" style durations or a plain number of seconds
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a duration nor a number of seconds", s)
	}
	return time.Duration(secs) * time.Second, nil
}

// toDuration is parseDuration keeping fallback when s can't be read
func toDuration(s string, fallback time.Duration) time.Duration {
	if d, err := parseDuration(s); err == nil {
		return d
	}
	return fallback
}
