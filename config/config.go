package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Account configuration
	StartingTokens int64 // Tokens granted on auto-registration

	// Session engine configuration
	CrashTickInterval   time.Duration // How often the crash multiplier advances
	CrashMultiplierStep float64       // Multiplier increase per tick
	CrashDeadline       time.Duration // Hard deadline for a crash session
	InteractiveDeadline time.Duration // Deadline for mines/streak sessions

	// TimeoutForfeitsStake controls what happens when an interactive session
	// times out with no progress: true forfeits the stake, false refunds it.
	TimeoutForfeitsStake bool

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults
		StartingTokens:       1000,
		CrashTickInterval:    150 * time.Millisecond,
		CrashMultiplierStep:  0.05,
		CrashDeadline:        180 * time.Second,
		InteractiveDeadline:  120 * time.Second,
		TimeoutForfeitsStake: true,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if tokens := os.Getenv("STARTING_TOKENS"); tokens != "" {
		if parsed, err := strconv.ParseInt(tokens, 10, 64); err == nil {
			config.StartingTokens = parsed
		}
	}
	if interval := os.Getenv("CRASH_TICK_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.CrashTickInterval = time.Duration(parsed) * time.Millisecond
		}
	}
	if deadline := os.Getenv("INTERACTIVE_DEADLINE_SECONDS"); deadline != "" {
		if parsed, err := strconv.Atoi(deadline); err == nil && parsed > 0 {
			config.InteractiveDeadline = time.Duration(parsed) * time.Second
		}
	}
	if forfeit := os.Getenv("TIMEOUT_FORFEITS_STAKE"); forfeit != "" {
		config.TimeoutForfeitsStake = forfeit != "false"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
