package checklist

// Verdict is the three-way gate outcome. The string form is what gets
// persisted; keep it stable.
type Verdict string

const (
	VerdictApprove     Verdict = "approve"
	VerdictRejectScore Verdict = "reject_score"
	VerdictRejectRisk  Verdict = "reject_risk"
)

// Label is the user-facing rendering of a verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictApprove:
		return "✅ Entry approved"
	case VerdictRejectScore:
		return "❌ Entry rejected: score below threshold"
	case VerdictRejectRisk:
		return "🛑 Entry rejected: risk rule failed"
	}
	return string(v)
}

type Result struct {
	YesCount int
	Verdict  Verdict
	Vetoed   bool
}

// Score counts "yes" answers and applies the gate. A "no" on any
// risk-critical index vetoes the trade no matter how high the score;
// otherwise the threshold comparison is inclusive.
func Score(answers []bool, def *Definition) Result {
	yes := 0
	vetoed := false
	for i, a := range answers {
		if a {
			yes++
		} else if def.RiskCritical(i) {
			vetoed = true
		}
	}

	res := Result{YesCount: yes, Vetoed: vetoed}
	switch {
	case vetoed:
		res.Verdict = VerdictRejectRisk
	case yes >= def.PassThreshold():
		res.Verdict = VerdictApprove
	default:
		res.Verdict = VerdictRejectScore
	}
	return res
}
