// Package generate implements the streaming autoregressive decode loop:
// config resolution, stopping policy, and the pull-based decoder that turns
// per-step model logits into incrementally observable text.
package generate

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/logits"
)

// Stats describes a finished run.
type Stats struct {
	TokensGenerated int
	Duration        time.Duration
	TPS             float64
}

// Decoder drives decode runs against a shared model and tokenizer. The
// Decoder itself is stateless across runs; all mutable state (token
// sequence, session cache) is owned by the run that created it.
type Decoder struct {
	Model     Model
	Tokenizer Tokenizer

	// EOSTokenIDs are the vocabulary's end-of-sequence ids. Producing any
	// of them finishes the sequence.
	EOSTokenIDs []int

	// Criteria are extra stopping predicates registered alongside the
	// max-length bound every run gets.
	Criteria []Criteria

	Log logger.Logger
}

// Stream runs one decode and yields the full decoded generated-so-far text
// once per step. Consecutive emissions are prefix extensions of each other
// (modulo trailing end-of-sequence stripping); callers wanting deltas diff
// against the previous emission. The caller cancels a run simply by not
// pulling further values; the per-run model session is released on every
// exit path. After a fatal error is yielded the stream is closed and no
// further text follows.
func (d *Decoder) Stream(ctx context.Context, prompt string, cfg Config) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		log := d.Log
		if log == nil {
			log = logger.Default()
		}

		if err := cfg.validate(); err != nil {
			yield("", err)
			return
		}

		promptIDs, err := d.Tokenizer.Encode(prompt)
		if err != nil {
			yield("", fmt.Errorf("encode prompt: %w", err))
			return
		}

		maxLength, err := cfg.ResolveMaxLength(len(promptIDs), log)
		if err != nil {
			yield("", err)
			return
		}

		policy := NewStopPolicy(d.EOSTokenIDs,
			append([]Criteria{MaxLengthCriteria(maxLength)}, d.Criteria...)...)

		pipeline := logits.Pipeline{
			logits.RepetitionPenalty{Penalty: float32(cfg.RepetitionPenalty)},
			logits.Temperature{Value: float32(cfg.Temperature)},
			logits.TopP{P: float32(cfg.TopP)},
		}
		selector := logits.NewSelector(cfg.DoSample, cfg.Seed)

		sess, err := d.Model.NewSession(ctx)
		if err != nil {
			yield("", fmt.Errorf("%w: %v", ErrModelExecution, err))
			return
		}
		defer sess.Close()

		// Prefill: feed the prompt through the session so the first
		// loop iteration already has next-position logits.
		var scores []float32
		for _, id := range promptIDs {
			if scores, err = sess.Forward(id); err != nil {
				yield("", fmt.Errorf("%w: prefill: %v", ErrModelExecution, err))
				return
			}
		}

		ids := append([]int(nil), promptIDs...)
		unfinished := true

		for unfinished {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			scores, err = pipeline.Apply(ids, scores)
			if err != nil {
				yield("", err)
				return
			}
			next, err := selector.Pick(scores)
			if err != nil {
				yield("", err)
				return
			}

			ids = append(ids, next)
			if policy.IsEOS(next) {
				unfinished = false
			}
			stop := policy.ShouldStop(ids)

			generated := policy.StripTrailingEOS(ids[len(promptIDs):])
			text, err := d.Tokenizer.Decode(generated)
			if err != nil {
				yield("", fmt.Errorf("decode output: %w", err))
				return
			}
			if !yield(text, nil) {
				return
			}
			if !unfinished || stop {
				return
			}

			if scores, err = sess.Forward(next); err != nil {
				yield("", fmt.Errorf("%w: step %d: %v", ErrModelExecution, len(ids)-len(promptIDs), err))
				return
			}
		}
	}
}

// Run consumes a stream to completion and returns the final emission.
func (d *Decoder) Run(ctx context.Context, prompt string, cfg Config) (string, Stats, error) {
	var (
		stats Stats
		text  string
	)
	start := time.Now()
	for emitted, err := range d.Stream(ctx, prompt, cfg) {
		if err != nil {
			return text, stats, err
		}
		text = emitted
		stats.TokensGenerated++
	}
	stats.Duration = time.Since(start)
	if secs := stats.Duration.Seconds(); secs > 0 {
		stats.TPS = float64(stats.TokensGenerated) / secs
	}
	return text, stats, nil
}
