package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultPath is where a deployment normally installs the agent config.
const DefaultPath = "/etc/autopatch/config.json"

// Config holds the agent configuration. It is constructed once at process
// start and never mutated afterwards.
type Config struct {
	AdminEmail   string `json:"admin_email"`
	FromAddress  string `json:"from_address"`
	SMTPServer   string `json:"smtp_server"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	LogFilePath  string `json:"log_file"`
	StrictParse  bool   `json:"strict_parse"`
}

// Load reads configuration from the JSON file at configPath, then applies
// environment overrides. A missing file is not an error so that a pure
// environment-driven deployment works; a present but unreadable file is.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		FromAddress: "autopatch@localhost",
		SMTPPort:    25,
		LogFilePath: "/var/log/autopatch.log",
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// fall through to environment
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg.AdminEmail = getEnv("AUTOPATCH_ADMIN_EMAIL", cfg.AdminEmail)
	cfg.FromAddress = getEnv("AUTOPATCH_FROM_ADDRESS", cfg.FromAddress)
	cfg.SMTPServer = getEnv("AUTOPATCH_SMTP_SERVER", cfg.SMTPServer)
	cfg.SMTPUser = getEnv("AUTOPATCH_SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPassword = getEnv("AUTOPATCH_SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.LogFilePath = getEnv("AUTOPATCH_LOG_FILE", cfg.LogFilePath)

	if v := os.Getenv("AUTOPATCH_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTOPATCH_SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTPPort = port
	}
	if v := os.Getenv("AUTOPATCH_STRICT_PARSE"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTOPATCH_STRICT_PARSE %q: %w", v, err)
		}
		cfg.StrictParse = strict
	}

	return cfg, nil
}

// Validate checks the fields an unattended run depends on. Check-only runs
// skip this since they neither write the log nor send mail.
func (c *Config) Validate() error {
	if c.AdminEmail == "" {
		return fmt.Errorf("admin_email is required")
	}
	if c.SMTPServer == "" {
		return fmt.Errorf("smtp_server is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("smtp_port %d is out of range", c.SMTPPort)
	}
	if c.LogFilePath == "" {
		return fmt.Errorf("log_file is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
