package toy

import (
	"context"
	"fmt"

	"github.com/hinwong/salescast/internal/generate"
)

// Canned streamer replies the toy model scripts its output from. The
// prompt hash picks one, so the same conversation always gets the same
// answer.
var replies = []string{
	"Hello friends! This one is an absolute steal today, and stock is running low. Any questions, fire away!",
	"Great question! It ships within 24 hours, and returns are free for seven days, no questions asked.",
	"You will love this: premium materials, everyday price. Tap add to cart before this batch sells out!",
	"Thank you for the order! You have excellent taste. Anything else I can walk you through?",
	"This is our best seller of the week. Grab the limited-time bundle while the discount lasts!",
}

// Model is a deterministic scripted language model. Each session hashes
// the tokens it is fed to pick a canned reply, then emits that reply one
// token per step followed by the turn terminator.
type Model struct {
	tok     *Tokenizer
	scripts [][]int
}

// NewModel builds the model over the tokenizer's vocabulary.
func NewModel(tok *Tokenizer) *Model {
	m := &Model{tok: tok}
	for _, r := range replies {
		ids, _ := tok.Encode(r)
		m.scripts = append(m.scripts, append(ids, IMEndTokenID))
	}
	return m
}

// NewSession acquires per-run continuation state. Sessions are independent
// and never touch the shared script table.
func (m *Model) NewSession(ctx context.Context) (generate.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{m: m}, nil
}

type session struct {
	m      *Model
	script []int
	pos    int
	hash   uint64
	closed bool
}

// Forward consumes one token and returns logits for the next position.
// While the input deviates from the current script (the prompt phase), the
// rolling hash keeps re-selecting a script; once predictions are fed back
// the session walks the script to its end.
func (s *session) Forward(id int) ([]float32, error) {
	if s.closed {
		return nil, fmt.Errorf("forward on closed session")
	}
	if id < 0 || id >= s.m.tok.VocabSize() {
		return nil, fmt.Errorf("token id %d out of vocabulary", id)
	}

	if s.script != nil && s.pos < len(s.script) && id == s.script[s.pos] {
		s.pos++
	} else {
		s.hash = s.hash*1099511628211 ^ uint64(id)
		s.script = s.m.scripts[s.hash%uint64(len(s.m.scripts))]
		s.pos = 0
	}

	next := EOSTokenID
	if s.pos < len(s.script) {
		next = s.script[s.pos]
	}

	logits := make([]float32, s.m.tok.VocabSize())
	for i := range logits {
		// Low deterministic background scores so the scripted token
		// dominates under any sane sampling configuration.
		logits[i] = -2 - float32(i%13)*0.25
	}
	logits[next] = 12
	return logits, nil
}

func (s *session) Close() error {
	s.closed = true
	return nil
}
