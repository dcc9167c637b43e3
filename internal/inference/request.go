package inference

import (
	"github.com/hinwong/salescast/internal/generate"
	"github.com/hinwong/salescast/internal/prompt"
)

// RequestOptions are caller-supplied overrides. All sampling fields are
// pointers so "not set" is distinguishable from a zero value.
type RequestOptions struct {
	System   string
	History  []prompt.Message
	UserTurn string

	MaxNewTokens *int
	MaxLength    *int

	TopP              *float64
	Temperature       *float64
	DoSample          *bool
	RepetitionPenalty *float64
	Seed              *int64
}

// ResolveRequest layers opts over defaults and returns the concrete
// request a run will use.
func ResolveRequest(opts RequestOptions, defaults generate.Config) Request {
	req := Request{
		System:            opts.System,
		History:           opts.History,
		UserTurn:          opts.UserTurn,
		MaxNewTokens:      defaults.MaxNewTokens,
		MaxLength:         defaults.MaxLength,
		TopP:              defaults.TopP,
		Temperature:       defaults.Temperature,
		DoSample:          defaults.DoSample,
		RepetitionPenalty: defaults.RepetitionPenalty,
		Seed:              defaults.Seed,
	}

	if opts.MaxNewTokens != nil {
		req.MaxNewTokens = opts.MaxNewTokens
	}
	if opts.MaxLength != nil {
		req.MaxLength = *opts.MaxLength
	}
	if opts.TopP != nil {
		req.TopP = *opts.TopP
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.DoSample != nil {
		req.DoSample = *opts.DoSample
	}
	if opts.RepetitionPenalty != nil {
		req.RepetitionPenalty = *opts.RepetitionPenalty
	}
	if opts.Seed != nil {
		req.Seed = *opts.Seed
	}

	return req
}

func (r *Request) config() generate.Config {
	return generate.Config{
		MaxLength:         r.MaxLength,
		MaxNewTokens:      r.MaxNewTokens,
		TopP:              r.TopP,
		Temperature:       r.Temperature,
		DoSample:          r.DoSample,
		RepetitionPenalty: r.RepetitionPenalty,
		Seed:              r.Seed,
	}
}
