package generate

import "context"

// Model is the external model capability. Implementations own their
// weights and any accelerator resources; a Model is shared and read-mostly
// across concurrent runs and must never be mutated by a run.
type Model interface {
	// NewSession acquires per-run continuation state (cache of
	// intermediate computation carried between steps). The session is
	// exclusively owned by one decode run.
	NewSession(ctx context.Context) (Session, error)
}

// Session is the per-run forward capability. Forward consumes one token
// and returns the logits for the position after it; the session keeps
// whatever cache it needs internally. Close releases the state and must be
// called on every exit path.
type Session interface {
	Forward(id int) ([]float32, error)
	Close() error
}

// Tokenizer is the external tokenizer capability. It must be
// deterministic and round-trip-stable for ids it produced.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}
