package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/hinwong/salescast/internal/generate"
	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/prompt"
)

// EngineImpl renders the prompt, runs the decoder, and accumulates the
// result. One EngineImpl is shared across sessions; it holds no per-run
// state.
type EngineImpl struct {
	decoder   *generate.Decoder
	assembler prompt.Assembler
	log       logger.Logger
}

// NewEngine builds an engine over the given model and tokenizer
// capabilities. eosTokenIDs is the vocabulary's end-of-sequence id set.
func NewEngine(m generate.Model, tok generate.Tokenizer, eosTokenIDs []int, log logger.Logger) *EngineImpl {
	if log == nil {
		log = logger.Default()
	}
	return &EngineImpl{
		decoder: &generate.Decoder{
			Model:       m,
			Tokenizer:   tok,
			EOSTokenIDs: eosTokenIDs,
			Log:         log,
		},
		assembler: prompt.New(),
		log:       log,
	}
}

// Generate runs one decode for the request, invoking stream once per step
// with the full generated-so-far text. On a fatal mid-run error the last
// streamed text stays valid but the returned error reports the failure and
// no further output is emitted.
func (e *EngineImpl) Generate(ctx context.Context, req *Request, stream StreamFunc) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	rendered, err := e.assembler.Assemble(req.System, req.History, req.UserTurn)
	if err != nil {
		return nil, fmt.Errorf("assemble prompt: %w", err)
	}

	var (
		stats generate.Stats
		text  string
	)
	start := time.Now()
	for emitted, err := range e.decoder.Stream(ctx, rendered, req.config()) {
		if err != nil {
			return nil, err
		}
		text = emitted
		stats.TokensGenerated++
		if stream != nil {
			stream(emitted)
		}
	}
	stats.Duration = time.Since(start)
	if secs := stats.Duration.Seconds(); secs > 0 {
		stats.TPS = float64(stats.TokensGenerated) / secs
	}

	return &Result{Text: text, Stats: stats}, nil
}

func (e *EngineImpl) Close() error {
	if closer, ok := e.decoder.Model.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
