package logits

import (
	"errors"
	"testing"
)

func TestArgmaxSelectsHighestScore(t *testing.T) {
	// Fixed toy vocabulary from the greedy decoding contract.
	idx, err := Argmax([]float32{0.1, 0.9, 0.05, 0.05})
	if err != nil {
		t.Fatalf("argmax: %v", err)
	}
	if idx != 1 {
		t.Fatalf("got %d, want 1", idx)
	}
}

func TestArgmaxTieBreaksToLowestIndex(t *testing.T) {
	idx, err := Argmax([]float32{0.2, 0.9, 0.9, 0.1})
	if err != nil {
		t.Fatalf("argmax: %v", err)
	}
	if idx != 1 {
		t.Fatalf("tie should resolve to the lowest index: got %d", idx)
	}
}

func TestArgmaxEmptyDistribution(t *testing.T) {
	if _, err := Argmax([]float32{negInf, negInf}); !errors.Is(err, ErrInvalidDistribution) {
		t.Fatalf("got %v, want ErrInvalidDistribution", err)
	}
}

func TestSelectorGreedyIgnoresSeed(t *testing.T) {
	a := NewSelector(false, 1)
	b := NewSelector(false, 99)
	scores := []float32{-1, 5, 3, 7, 2}
	got1, _ := a.Pick(scores)
	got2, _ := b.Pick(scores)
	if got1 != 3 || got2 != 3 {
		t.Fatalf("greedy selection not deterministic: %d vs %d", got1, got2)
	}
}

func TestSelectorSamplingDeterministicPerSeed(t *testing.T) {
	scores := []float32{0, 1, 2, 3, 4}
	a := NewSelector(true, 42)
	b := NewSelector(true, 42)
	for i := 0; i < 20; i++ {
		x, err := a.Pick(scores)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		y, _ := b.Pick(scores)
		if x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestSelectorSamplingRespectsExclusions(t *testing.T) {
	// Everything but index 2 is excluded, so every draw must return 2.
	scores := []float32{negInf, negInf, 1.0, negInf}
	s := NewSelector(true, 7)
	for i := 0; i < 10; i++ {
		idx, err := s.Pick(scores)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if idx != 2 {
			t.Fatalf("sampled excluded token %d", idx)
		}
	}
}
