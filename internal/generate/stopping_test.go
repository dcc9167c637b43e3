package generate

import "testing"

func TestStopPolicyAnyEOS(t *testing.T) {
	p := NewStopPolicy([]int{3, 9})
	for _, id := range []int{3, 9} {
		if !p.IsEOS(id) {
			t.Fatalf("id %d should be end-of-sequence", id)
		}
	}
	if p.IsEOS(4) {
		t.Fatalf("id 4 should not be end-of-sequence")
	}
}

func TestStopPolicyCriteriaCompose(t *testing.T) {
	var neverFired, lenFired bool
	p := NewStopPolicy(nil,
		func(ids []int) bool { neverFired = true; return false },
		func(ids []int) bool { lenFired = true; return len(ids) >= 3 },
	)

	if p.ShouldStop([]int{1, 2}) {
		t.Fatalf("no predicate satisfied yet")
	}
	// Any single predicate firing stops the run.
	if !p.ShouldStop([]int{1, 2, 3}) {
		t.Fatalf("length predicate should have fired")
	}
	if !neverFired || !lenFired {
		t.Fatalf("all predicates must be consulted")
	}
}

func TestMaxLengthCriteria(t *testing.T) {
	crit := MaxLengthCriteria(4)
	if crit([]int{1, 2, 3}) {
		t.Fatalf("fired below the bound")
	}
	if !crit([]int{1, 2, 3, 4}) {
		t.Fatalf("did not fire at the bound")
	}
}

func TestStripTrailingEOS(t *testing.T) {
	p := NewStopPolicy([]int{0, 9})
	cases := []struct {
		name string
		in   []int
		want []int
	}{
		{"strips-single-trailing", []int{5, 6, 9}, []int{5, 6}},
		{"strips-only-one", []int{5, 9, 9}, []int{5, 9}},
		{"keeps-interior", []int{9, 5, 6}, []int{9, 5, 6}},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.StripTrailingEOS(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
