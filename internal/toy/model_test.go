package toy

import (
	"context"
	"strings"
	"testing"

	"github.com/hinwong/salescast/internal/generate"
)

func TestTokenizerRoundTrip(t *testing.T) {
	tok := NewTokenizer()
	text := "Hello, family!\n<|im_end|></s>"
	ids, err := tok.Encode(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := tok.Decode(ids)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != text {
		t.Fatalf("round trip: got %q, want %q", back, text)
	}
}

func TestTokenizerEOSTokenIDs(t *testing.T) {
	tok := NewTokenizer()
	got := tok.EOSTokenIDs()
	if len(got) != 2 || got[0] != EOSTokenID || got[1] != IMEndTokenID {
		t.Fatalf("eos ids: got %v", got)
	}
}

func TestModelGeneratesCannedReplyAndStops(t *testing.T) {
	tok := NewTokenizer()
	d := &generate.Decoder{
		Model:       NewModel(tok),
		Tokenizer:   tok,
		EOSTokenIDs: tok.EOSTokenIDs(),
	}
	maxNew := 512
	cfg := generate.Config{
		MaxNewTokens:      &maxNew,
		Temperature:       0.7,
		TopP:              0.8,
		DoSample:          true,
		RepetitionPenalty: 1.005,
	}

	text, _, err := d.Run(context.Background(), "<|im_start|>user\nhi<|im_end|>\n<|im_start|>assistant\n", cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	found := false
	for _, reply := range replies {
		if text == reply {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("generated text is not a canned reply: %q", text)
	}
	if strings.Contains(text, "<|im_end|>") {
		t.Fatalf("turn terminator surfaced in output: %q", text)
	}
}

func TestModelIsDeterministicPerPrompt(t *testing.T) {
	tok := NewTokenizer()
	d := &generate.Decoder{
		Model:       NewModel(tok),
		Tokenizer:   tok,
		EOSTokenIDs: tok.EOSTokenIDs(),
	}
	maxNew := 512
	cfg := generate.Config{
		MaxNewTokens:      &maxNew,
		Temperature:       1,
		TopP:              1,
		DoSample:          false,
		RepetitionPenalty: 1,
	}

	a, _, err := d.Run(context.Background(), "same prompt", cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, _, err := d.Run(context.Background(), "same prompt", cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a != b {
		t.Fatalf("runs diverged: %q vs %q", a, b)
	}
}

func TestSessionRejectsUseAfterClose(t *testing.T) {
	tok := NewTokenizer()
	m := NewModel(tok)
	sess, err := m.NewSession(context.Background())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := sess.Forward(5); err == nil {
		t.Fatalf("forward on a closed session must fail")
	}
}
