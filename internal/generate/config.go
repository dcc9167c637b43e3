package generate

import (
	"fmt"

	"github.com/hinwong/salescast/internal/logger"
)

// Config is the immutable parameter bundle for one decode run.
//
// MaxNewTokens, when set, takes precedence over MaxLength and is converted
// to an absolute limit at run start (prompt length + MaxNewTokens). A
// MaxLength of 0 means unset.
type Config struct {
	MaxLength    int
	MaxNewTokens *int

	TopP              float64
	Temperature       float64
	DoSample          bool
	RepetitionPenalty float64

	// Seed feeds the sampling rng. Runs with DoSample=false ignore it.
	Seed int64
}

// DefaultConfig mirrors the chat defaults of the original demo: diverse
// sampling with a mild repetition penalty.
func DefaultConfig() Config {
	return Config{
		MaxLength:         32768,
		TopP:              0.8,
		Temperature:       0.7,
		DoSample:          true,
		RepetitionPenalty: 1.005,
	}
}

// ResolveMaxLength turns the config into the single authoritative absolute
// length for a run of the given prompt length. Exactly one source wins:
// MaxNewTokens when present, otherwise a legacy MaxLength. Both diagnostics
// here are non-fatal; only a fully unset length is an error.
func (c Config) ResolveMaxLength(promptLen int, log logger.Logger) (int, error) {
	if log == nil {
		log = logger.Default()
	}

	var maxLength int
	switch {
	case c.MaxNewTokens != nil:
		maxLength = promptLen + *c.MaxNewTokens
		if c.MaxLength > 0 {
			log.Warn("both max_new_tokens and max_length are set; max_new_tokens takes precedence",
				"max_new_tokens", *c.MaxNewTokens, "max_length", c.MaxLength)
		}
	case c.MaxLength > 0:
		maxLength = c.MaxLength
		log.Warn("controlling generation length with max_length is deprecated; set max_new_tokens instead",
			"max_length", c.MaxLength)
	default:
		return 0, fmt.Errorf("%w: neither max_length nor max_new_tokens is set", ErrConfiguration)
	}

	if promptLen >= maxLength {
		log.Warn("prompt length reaches max_length; generation may produce no output",
			"prompt_length", promptLen, "max_length", maxLength)
	}
	return maxLength, nil
}

func (c Config) validate() error {
	if c.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be > 0, got %v", ErrConfiguration, c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("%w: top_p must be in [0,1], got %v", ErrConfiguration, c.TopP)
	}
	if c.RepetitionPenalty < 1 {
		return fmt.Errorf("%w: repetition_penalty must be >= 1, got %v", ErrConfiguration, c.RepetitionPenalty)
	}
	return nil
}
