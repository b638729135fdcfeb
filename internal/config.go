package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`

	SpacePollInterval   time.Duration `env:"SPACE_POLL_INTERVAL,required=true"`
	MessagePollInterval time.Duration `env:"MESSAGE_POLL_INTERVAL,required=true"`
	PollJitter          time.Duration `env:"POLL_JITTER"`
	WriteRetries        int           `env:"WRITE_RETRIES,required=true"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,required=true"`
	HeartbeatInterval   time.Duration `env:"HEARTBEAT_INTERVAL,required=true"`

	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL,default=gemini-2.0-flash"`
	EnrichTimeout time.Duration `env:"ENRICH_TIMEOUT,default=10s"`

	BlockedWords    []string `env:"BLOCKED_WORDS"`
	CharReplacement string   `env:"CHARACTER_REPLACEMENT,default=*"`
}

func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}
