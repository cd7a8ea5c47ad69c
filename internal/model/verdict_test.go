package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFromFindings(t *testing.T) {
	tests := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{"no findings", nil, 100},
		{"zero deltas only", []Finding{{ScoreDelta: 0}, {ScoreDelta: 0}}, 100},
		{"typical deductions", []Finding{{ScoreDelta: -10}, {ScoreDelta: -8}, {ScoreDelta: -10}}, 72},
		{"clamped at zero", []Finding{{ScoreDelta: -60}, {ScoreDelta: -60}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreFromFindings(tt.findings))
		})
	}
}
