// Package persona stores sales-streamer personas and builds the system
// instruction a persona speaks with.
package persona

import (
	"fmt"
	"strings"
)

// Streamer is one sales-streamer persona. Character is the free-text
// description of how the persona talks; the TTS and media fields point at
// assets the presentation layer uses and are opaque here.
type Streamer struct {
	ID        int64  `json:"streamer_id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Avatar    string `json:"avatar"`

	TTSWeightTag         string `json:"tts_weight_tag"`
	TTSReferenceSentence string `json:"tts_reference_sentence"`
	TTSReferenceAudio    string `json:"tts_reference_audio"`

	PosterImage string `json:"poster_image"`
	BaseMP4Path string `json:"base_mp4_path"`

	Deleted bool   `json:"delete"`
	UserID  *int64 `json:"user_id,omitempty"`
}

// Product is the item currently being presented. It is carried per
// request, not persisted here.
type Product struct {
	Name       string `json:"name"`
	Highlights string `json:"highlights"`
}

// Instruction builds the system instruction for a selling session: the
// persona's character sheet, plus the product briefing when one is set.
func (s *Streamer) Instruction(product *Product) string {
	var sb strings.Builder
	if s.Character != "" {
		sb.WriteString(s.Character)
	} else {
		fmt.Fprintf(&sb, "You are %s, a top live-commerce sales streamer. Present products enthusiastically and answer customer questions using the product information.", s.Name)
	}
	if product != nil && product.Name != "" {
		fmt.Fprintf(&sb, "\nYou are currently presenting: %s.", product.Name)
		if product.Highlights != "" {
			fmt.Fprintf(&sb, "\nProduct highlights: %s", product.Highlights)
		}
	}
	return sb.String()
}

// WantToBuyReplies are the canned quick replies a viewer can send when
// they decide to buy. The UI picks one at random for the add-to-cart
// button.
var WantToBuyReplies = []string{
	"I'm going to buy it.",
	"I'm ready to place the order.",
	"I've decided to buy it.",
	"I'm about to check out.",
	"I'm going to purchase this product.",
	"I'll take it.",
	"Adding this one to my cart.",
	"I'm ready to buy now.",
	"I've made up my mind, I'm buying it.",
	"Count me in for one.",
}
