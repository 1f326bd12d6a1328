package checklist

import (
	"strings"

	"trade-gate/internal/config"
)

// MistakeSet is the closed enumeration of self-reported mistake codes a
// trader may pick after a session.
type MistakeSet struct {
	order  []string
	labels map[string]string
}

var defaultMistakes = []config.Code{
	{Code: "1", Label: "Did not take profit on the exit plan"},
	{Code: "2", Label: "Entered without the setup confirming"},
	{Code: "3", Label: "No stop-loss set"},
	{Code: "4", Label: "Averaged down a loser"},
	{Code: "5", Label: "Oversized the position"},
	{Code: "6", Label: "Chased an extended move"},
}

func NewMistakeSet(codes []config.Code) *MistakeSet {
	if len(codes) == 0 {
		codes = defaultMistakes
	}
	m := &MistakeSet{labels: make(map[string]string, len(codes))}
	for _, c := range codes {
		m.order = append(m.order, c.Code)
		m.labels[c.Code] = c.Label
	}
	return m
}

func (m *MistakeSet) Valid(code string) bool {
	_, ok := m.labels[code]
	return ok
}

// Parse splits comma-separated input and validates every token; one bad
// token rejects the whole input. Repeated codes collapse to one, keeping
// first-seen order.
func (m *MistakeSet) Parse(text string) ([]string, bool) {
	parts := strings.Split(text, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		code := strings.TrimSpace(p)
		if !m.Valid(code) {
			return nil, false
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, true
}

// Menu renders the numbered code list for the prompt.
func (m *MistakeSet) Menu() string {
	var sb strings.Builder
	for _, c := range m.order {
		sb.WriteString(c + ". " + m.labels[c] + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
