package api

import (
	"github.com/hinwong/salescast/internal/persona"
	"github.com/hinwong/salescast/internal/prompt"
)

// ChatRequest starts one selling-chat turn. Messages carries the
// conversation so far; the final entry must be the new user turn. All
// sampling fields are optional overrides of the server defaults.
type ChatRequest struct {
	StreamerID int64            `json:"streamer_id,omitempty"`
	Product    *persona.Product `json:"product,omitempty"`
	Messages   []prompt.Message `json:"messages"`
	Stream     bool             `json:"stream,omitempty"`

	MaxNewTokens      *int     `json:"max_new_tokens,omitempty"`
	MaxLength         *int     `json:"max_length,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	DoSample          *bool    `json:"do_sample,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	Seed              *int64   `json:"seed,omitempty"`
}

// ChatResponse is the non-streaming reply.
type ChatResponse struct {
	ID       string    `json:"id"`
	Object   string    `json:"object"`
	Created  int64     `json:"created"`
	Streamer string    `json:"streamer,omitempty"`
	Text     string    `json:"text"`
	Usage    ChatUsage `json:"usage"`
}

type ChatUsage struct {
	CompletionTokens int     `json:"completion_tokens"`
	TokensPerSecond  float64 `json:"tokens_per_second"`
}

// ChatStreamEvent is one SSE payload. Object is "chat.delta" while text is
// arriving, then "chat.done" or "chat.error" exactly once.
type ChatStreamEvent struct {
	ID     string     `json:"id"`
	Object string     `json:"object"`
	Delta  string     `json:"delta,omitempty"`
	Text   string     `json:"text,omitempty"`
	Usage  *ChatUsage `json:"usage,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// StreamerPayload is the create/update body for persona records.
type StreamerPayload struct {
	Name                 string `json:"name"`
	Character            string `json:"character"`
	Avatar               string `json:"avatar"`
	TTSWeightTag         string `json:"tts_weight_tag"`
	TTSReferenceSentence string `json:"tts_reference_sentence"`
	TTSReferenceAudio    string `json:"tts_reference_audio"`
	PosterImage          string `json:"poster_image"`
	BaseMP4Path          string `json:"base_mp4_path"`
	UserID               *int64 `json:"user_id,omitempty"`
}

func (p StreamerPayload) toStreamer() persona.Streamer {
	return persona.Streamer{
		Name:                 p.Name,
		Character:            p.Character,
		Avatar:               p.Avatar,
		TTSWeightTag:         p.TTSWeightTag,
		TTSReferenceSentence: p.TTSReferenceSentence,
		TTSReferenceAudio:    p.TTSReferenceAudio,
		PosterImage:          p.PosterImage,
		BaseMP4Path:          p.BaseMP4Path,
		UserID:               p.UserID,
	}
}
