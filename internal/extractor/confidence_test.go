package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-parser-go/internal/config"
)

func TestConfidenceScore(t *testing.T) {
	scorer := NewConfidenceScorer(config.DefaultExtractorConfig().ConfidenceWeights)

	tests := []struct {
		name          string
		hasName       bool
		hasContact    bool
		educationScr  int
		hasExperience bool
		expected      int
	}{
		{"全部信号齐备", true, true, 100, true, 100},
		{"无任何信号", false, false, 0, false, 0},
		{"仅姓名", true, false, 0, false, 25},
		{"仅联系方式", false, true, 0, false, 20},
		{"仅学历", false, false, 70, false, 30},
		{"仅年限", false, false, 0, true, 25},
		{"学历分为0不计入", true, true, 0, true, 70},
		{"学历分大于0即记满权重", false, false, 50, false, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.hasName, tt.hasContact, tt.educationScr, tt.hasExperience)
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

// TestConfidenceScoreCap 权重之和超过上限时封顶
func TestConfidenceScoreCap(t *testing.T) {
	scorer := NewConfidenceScorer(config.ConfidenceWeights{
		Name:       40,
		Contact:    40,
		Education:  40,
		Experience: 40,
		Cap:        100,
	})
	assert.Equal(t, 100, scorer.Score(true, true, 80, true))
}

// TestConfidenceScoreMonotonic 新增一个信号不会降低分数
func TestConfidenceScoreMonotonic(t *testing.T) {
	scorer := NewConfidenceScorer(config.DefaultExtractorConfig().ConfidenceWeights)
	base := scorer.Score(false, true, 70, false)
	withName := scorer.Score(true, true, 70, false)
	assert.GreaterOrEqual(t, withName, base)
}
