package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExperienceYears(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *int
	}{
		{"年数在前", "5 years experience in construction", intPtr(5)},
		{"带加号", "10+ years of experience", intPtr(10)},
		{"yrs缩写", "8 yrs experience", intPtr(8)},
		{"年数与experience之间有限定词", "6 years of civil engineering experience", intPtr(6)},
		{"标签在前", "Experience: 3 years", intPtr(3)},
		{"标签在前带连字符", "Experience - 12 years", intPtr(12)},
		{"未提及年限", "worked at several construction sites", nil},
		{"孤立的years不匹配", "over the years I moved cities", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractExperienceYears(tt.text)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

// TestExtractExperienceYearsFirstMatch 两种写法同时出现时取文档中更早的匹配
func TestExtractExperienceYearsFirstMatch(t *testing.T) {
	got := ExtractExperienceYears("7 years experience. Experience: 3 years at Acme.")
	require.NotNil(t, got)
	assert.Equal(t, 7, *got)
}

func intPtr(v int) *int {
	return &v
}
