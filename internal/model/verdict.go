package model

// Finding is a single compliance observation with its regulatory citation.
// ScoreDelta is always <= 0. Findings are immutable once produced and their
// order matches rule evaluation order.
type Finding struct {
	Title      string `json:"title"`
	Citation   string `json:"citation"`
	ScoreDelta int    `json:"score_delta"`
}

// Verdict is the rule engine output: a compliance score in [0,100] and the
// ordered findings that produced it.
type Verdict struct {
	ComplianceScore int       `json:"compliance_score"`
	Findings        []Finding `json:"findings"`
}

// ScoreFromFindings folds the score deltas over a start value of 100,
// clamped at 0. All deltas are <= 0, so the score can never exceed 100.
func ScoreFromFindings(findings []Finding) int {
	score := 100
	for _, f := range findings {
		score += f.ScoreDelta
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
