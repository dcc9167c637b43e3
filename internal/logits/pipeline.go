// Package logits transforms raw next-token scores into the distribution the
// decoder samples from.
package logits

import (
	"errors"
	"math"
	"sort"
)

// ErrInvalidDistribution is returned when every vocabulary entry has been
// excluded and there is nothing left to sample. This signals a pipeline or
// configuration bug (for example top_p <= 0), not bad user input.
var ErrInvalidDistribution = errors.New("logits: no viable next token in distribution")

var negInf = float32(math.Inf(-1))

// Processor rewrites a score vector for the next position. ids is the full
// token sequence generated so far, including the prompt. Processors may
// modify scores in place and must return a vector of the same length.
type Processor interface {
	Process(ids []int, scores []float32) []float32
}

// Pipeline applies processors in order. The order is fixed by construction:
// repetition penalty runs on raw scores, temperature on the penalized
// scores, and top-p on the tempered scores.
type Pipeline []Processor

// Apply runs every processor over scores and validates that at least one
// candidate survived.
func (p Pipeline) Apply(ids []int, scores []float32) ([]float32, error) {
	for _, proc := range p {
		scores = proc.Process(ids, scores)
	}
	for _, s := range scores {
		if s > negInf {
			return scores, nil
		}
	}
	return nil, ErrInvalidDistribution
}

// RepetitionPenalty down-weights tokens that already appear in the
// sequence: positive scores are divided by the penalty and negative scores
// multiplied, so the repeated token always loses relative likelihood.
type RepetitionPenalty struct {
	Penalty float32
}

func (r RepetitionPenalty) Process(ids []int, scores []float32) []float32 {
	if r.Penalty <= 1 {
		return scores
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(scores) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if scores[id] > 0 {
			scores[id] /= r.Penalty
		} else {
			scores[id] *= r.Penalty
		}
	}
	return scores
}

// Temperature scales scores by the inverse temperature. Values below 1
// sharpen the distribution, values above 1 flatten it.
type Temperature struct {
	Value float32
}

func (t Temperature) Process(_ []int, scores []float32) []float32 {
	if t.Value <= 0 || t.Value == 1 {
		return scores
	}
	inv := 1 / t.Value
	for i := range scores {
		scores[i] *= inv
	}
	return scores
}

// TopP keeps the smallest set of highest-probability tokens whose
// cumulative softmax mass reaches P and excludes the rest by setting their
// score to -Inf (nucleus filtering).
type TopP struct {
	P float32
}

func (t TopP) Process(_ []int, scores []float32) []float32 {
	if t.P >= 1 {
		return scores
	}
	probs := Softmax(scores)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	keep := make([]bool, len(scores))
	var cum float64
	for _, id := range order {
		if t.P > 0 {
			keep[id] = true
		}
		cum += probs[id]
		if float32(cum) >= t.P {
			break
		}
	}
	for i := range scores {
		if !keep[i] {
			scores[i] = negInf
		}
	}
	return scores
}

// Softmax normalizes scores into probabilities with float64 accumulation
// and max subtraction for numerical stability. Entries at -Inf map to zero.
func Softmax(scores []float32) []float64 {
	maxv := negInf
	for _, s := range scores {
		if s > maxv {
			maxv = s
		}
	}
	probs := make([]float64, len(scores))
	if maxv == negInf {
		return probs
	}
	var sum float64
	for i, s := range scores {
		if s == negInf {
			continue
		}
		e := math.Exp(float64(s - maxv))
		probs[i] = e
		sum += e
	}
	if sum == 0 {
		return probs
	}
	inv := 1 / sum
	for i := range probs {
		probs[i] *= inv
	}
	return probs
}
