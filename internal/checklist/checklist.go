package checklist

import (
	"fmt"

	"trade-gate/internal/config"
)

// Definition is an ordered set of yes/no questions with a pass threshold and
// an optional subset of risk-critical indices whose "no" answer vetoes the
// trade outright. Immutable after construction.
type Definition struct {
	questions     []string
	riskCritical  map[int]bool
	passThreshold int
}

func NewDefinition(questions []string, riskCritical []int, passThreshold int) (*Definition, error) {
	n := len(questions)
	if n == 0 {
		return nil, fmt.Errorf("checklist: no questions")
	}
	if passThreshold < 1 || passThreshold > n {
		return nil, fmt.Errorf("checklist: pass threshold %d out of range 1..%d", passThreshold, n)
	}
	rc := make(map[int]bool, len(riskCritical))
	for _, i := range riskCritical {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("checklist: risk-critical index %d out of range 0..%d", i, n-1)
		}
		rc[i] = true
	}
	qs := make([]string, n)
	copy(qs, questions)
	return &Definition{questions: qs, riskCritical: rc, passThreshold: passThreshold}, nil
}

func (d *Definition) Len() int                { return len(d.questions) }
func (d *Definition) Question(i int) string   { return d.questions[i] }
func (d *Definition) PassThreshold() int      { return d.passThreshold }
func (d *Definition) RiskCritical(i int) bool { return d.riskCritical[i] }

// FromConfig builds the active definition: explicit questions win, otherwise
// one of the built-in variants, with optional threshold/risk overrides.
func FromConfig(cfg config.ChecklistConfig) (*Definition, error) {
	questions := cfg.Questions
	risk := cfg.RiskCritical
	threshold := cfg.PassThreshold

	if len(questions) == 0 {
		switch cfg.Variant {
		case "", "extended16":
			questions = extended16Questions
			if risk == nil {
				risk = extended16RiskCritical
			}
			if threshold == 0 {
				threshold = 12
			}
		case "standard10":
			questions = standard10Questions
			if threshold == 0 {
				threshold = 7
			}
		default:
			return nil, fmt.Errorf("checklist: unknown variant %q", cfg.Variant)
		}
	}
	if threshold == 0 {
		threshold = (len(questions) + 1) / 2
	}
	return NewDefinition(questions, risk, threshold)
}
