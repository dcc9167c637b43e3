// Package prompt assembles conversation history into the single prompt
// string the decoder consumes.
package prompt

import (
	"fmt"
	"strings"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Fixed role-delimiter templates. The decoder treats the assembled string
// as opaque; these markers only have to agree with what the model was
// trained on.
const (
	bosToken        = "<s>"
	systemTemplate  = "<|im_start|>system\n%s<|im_end|>\n"
	userTemplate    = "<|im_start|>user\n%s<|im_end|>\n"
	robotTemplate   = "<|im_start|>assistant\n%s<|im_end|>\n"
	generationOpen  = "<|im_start|>assistant\n"
	currentTemplate = userTemplate + generationOpen
)

// Assembler renders prompts. WithHistory controls whether prior turns are
// included; the current user turn and the generation header always are.
type Assembler struct {
	WithHistory bool
}

// New returns an Assembler that includes history.
func New() Assembler {
	return Assembler{WithHistory: true}
}

// Assemble produces the prompt for one generation: system instruction,
// optional history, then the current user turn followed by the assistant
// generation header. History messages must alternate between user and
// assistant roles; any other role is rejected.
func (a Assembler) Assemble(system string, history []Message, userTurn string) (string, error) {
	var sb strings.Builder
	sb.WriteString(bosToken)
	fmt.Fprintf(&sb, systemTemplate, system)

	if a.WithHistory {
		for i, msg := range history {
			switch msg.Role {
			case RoleUser:
				fmt.Fprintf(&sb, userTemplate, msg.Content)
			case RoleAssistant:
				fmt.Fprintf(&sb, robotTemplate, msg.Content)
			default:
				return "", fmt.Errorf("history[%d]: unsupported role %q", i, msg.Role)
			}
		}
	}

	fmt.Fprintf(&sb, currentTemplate, userTurn)
	return sb.String(), nil
}
