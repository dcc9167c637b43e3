package generate

// Criteria is an external stopping predicate over the full token sequence,
// prompt included. Any registered predicate returning true ends the run.
type Criteria func(ids []int) bool

// MaxLengthCriteria stops once the total sequence reaches maxLength
// tokens. Every run registers one, so a decode is bounded regardless of
// sampling outcomes.
func MaxLengthCriteria(maxLength int) Criteria {
	return func(ids []int) bool {
		return len(ids) >= maxLength
	}
}

// StopPolicy decides per step whether generation must end. A sequence is
// finished the moment it emits any configured end-of-sequence id, and the
// run also ends when any criteria fires: stop sources compose with OR,
// never AND.
type StopPolicy struct {
	eos      map[int]struct{}
	criteria []Criteria
}

// NewStopPolicy builds a policy from the end-of-sequence id set and any
// number of external predicates.
func NewStopPolicy(eosIDs []int, criteria ...Criteria) *StopPolicy {
	eos := make(map[int]struct{}, len(eosIDs))
	for _, id := range eosIDs {
		eos[id] = struct{}{}
	}
	return &StopPolicy{eos: eos, criteria: criteria}
}

// IsEOS reports whether id is one of the configured end-of-sequence ids.
func (p *StopPolicy) IsEOS(id int) bool {
	_, ok := p.eos[id]
	return ok
}

// ShouldStop evaluates the external predicates against ids.
func (p *StopPolicy) ShouldStop(ids []int) bool {
	for _, crit := range p.criteria {
		if crit(ids) {
			return true
		}
	}
	return false
}

// StripTrailingEOS removes a single trailing end-of-sequence token so the
// decoded text never surfaces its textual form.
func (p *StopPolicy) StripTrailingEOS(ids []int) []int {
	if n := len(ids); n > 0 && p.IsEOS(ids[n-1]) {
		return ids[:n-1]
	}
	return ids
}
