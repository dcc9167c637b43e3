package inference

import (
	"context"
	"strings"
	"testing"

	"github.com/hinwong/salescast/internal/generate"
	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/prompt"
	"github.com/hinwong/salescast/internal/toy"
)

func newToyEngine() *EngineImpl {
	tok := toy.NewTokenizer()
	return NewEngine(toy.NewModel(tok), tok, tok.EOSTokenIDs(), logger.Discard())
}

func TestGenerateStreamsFullTextPerStep(t *testing.T) {
	e := newToyEngine()
	newTokens := 512
	req := ResolveRequest(RequestOptions{
		System:       "You are a sales host.",
		UserTurn:     "Tell me about it",
		MaxNewTokens: &newTokens,
	}, generate.DefaultConfig())

	var emissions []string
	res, err := e.Generate(context.Background(), &req, func(text string) {
		emissions = append(emissions, text)
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(emissions) == 0 {
		t.Fatalf("no emissions observed")
	}
	for i := 1; i < len(emissions); i++ {
		if !strings.HasPrefix(emissions[i], emissions[i-1]) {
			t.Fatalf("emission %d is not a prefix extension: %q -> %q", i, emissions[i-1], emissions[i])
		}
	}
	if res.Text != emissions[len(emissions)-1] {
		t.Fatalf("final text must equal the last emission: %q vs %q", res.Text, emissions[len(emissions)-1])
	}
	if res.Stats.TokensGenerated != len(emissions) {
		t.Fatalf("one emission per step: %d emissions, %d tokens", len(emissions), res.Stats.TokensGenerated)
	}
}

func TestGenerateCarriesHistoryIntoPrompt(t *testing.T) {
	e := newToyEngine()
	newTokens := 512
	req := ResolveRequest(RequestOptions{
		UserTurn: "and shipping?",
		History: []prompt.Message{
			{Role: prompt.RoleUser, Content: "price?"},
			{Role: prompt.RoleAssistant, Content: "only 99!"},
		},
		MaxNewTokens: &newTokens,
	}, generate.DefaultConfig())

	res, err := e.Generate(context.Background(), &req, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text == "" {
		t.Fatalf("empty completion")
	}
}

func TestGenerateRejectsBadHistoryRole(t *testing.T) {
	e := newToyEngine()
	newTokens := 8
	req := ResolveRequest(RequestOptions{
		UserTurn:     "hi",
		History:      []prompt.Message{{Role: "narrator", Content: "x"}},
		MaxNewTokens: &newTokens,
	}, generate.DefaultConfig())

	if _, err := e.Generate(context.Background(), &req, nil); err == nil {
		t.Fatalf("expected a prompt assembly error")
	}
}

func TestGenerateRequiresRequest(t *testing.T) {
	e := newToyEngine()
	if _, err := e.Generate(context.Background(), nil, nil); err == nil {
		t.Fatalf("nil request must fail")
	}
}
