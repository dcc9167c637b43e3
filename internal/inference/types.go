// Package inference ties prompt assembly, the decode loop, and request
// defaults into the engine surface the API and CLI consume.
package inference

import (
	"context"

	"github.com/hinwong/salescast/internal/generate"
	"github.com/hinwong/salescast/internal/prompt"
)

// StreamFunc observes one emission per decode step. Each call carries the
// entire decoded generated-so-far text, not a delta; callers diff against
// the previous call when they need incremental characters.
type StreamFunc func(text string)

type Engine interface {
	Generate(ctx context.Context, req *Request, stream StreamFunc) (*Result, error)
	Close() error
}

// Request is a fully resolved generation request.
type Request struct {
	System   string
	History  []prompt.Message
	UserTurn string

	MaxNewTokens *int
	MaxLength    int

	TopP              float64
	Temperature       float64
	DoSample          bool
	RepetitionPenalty float64
	Seed              int64
}

type Result struct {
	Text  string
	Stats generate.Stats
}
