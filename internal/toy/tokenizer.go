// Package toy provides a deterministic, dependency-free model and
// tokenizer implementing the decode capabilities. It backs the demo server
// and the CLI chat loop; real weight loading lives outside this repo.
package toy

import (
	"fmt"
	"strings"
)

// Special token ids. The vocabulary defines two end-of-sequence ids: a
// structural end token and the role-specific turn terminator.
const (
	EOSTokenID   = 0 // "</s>"
	IMEndTokenID = 1 // "<|im_end|>"
	IMStartID    = 2 // "<|im_start|>"
)

var specials = []string{"</s>", "<|im_end|>", "<|im_start|>"}

// Tokenizer is a rune-level tokenizer over printable ASCII with a handful
// of special marker tokens. It is deterministic and round-trips any id
// sequence it produced.
type Tokenizer struct {
	runes []rune
	index map[rune]int
}

func NewTokenizer() *Tokenizer {
	t := &Tokenizer{index: make(map[rune]int)}
	alphabet := []rune{'\n'}
	for r := rune(' '); r <= '~'; r++ {
		alphabet = append(alphabet, r)
	}
	for _, r := range alphabet {
		t.index[r] = len(specials) + len(t.runes)
		t.runes = append(t.runes, r)
	}
	return t
}

// VocabSize is the number of ids the model must score.
func (t *Tokenizer) VocabSize() int {
	return len(specials) + len(t.runes)
}

// EOSTokenIDs returns both end-of-sequence ids.
func (t *Tokenizer) EOSTokenIDs() []int {
	return []int{EOSTokenID, IMEndTokenID}
}

// Encode maps text to ids, recognizing special marker strings first and
// falling back to one id per rune. Runes outside the vocabulary map to '?'.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	var ids []int
	for len(text) > 0 {
		matched := false
		for i, sp := range specials {
			if strings.HasPrefix(text, sp) {
				ids = append(ids, i)
				text = text[len(sp):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		r := []rune(text)[0]
		id, ok := t.index[r]
		if !ok {
			id = t.index['?']
		}
		ids = append(ids, id)
		text = text[len(string(r)):]
	}
	return ids, nil
}

// Decode maps ids back to text.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		switch {
		case id >= 0 && id < len(specials):
			sb.WriteString(specials[id])
		case id >= len(specials) && id < t.VocabSize():
			sb.WriteRune(t.runes[id-len(specials)])
		default:
			return "", fmt.Errorf("token id %d out of vocabulary", id)
		}
	}
	return sb.String(), nil
}
