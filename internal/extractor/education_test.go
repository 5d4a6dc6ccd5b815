package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/types"
)

func newTestEducationDetector(t *testing.T) *EducationDetector {
	t.Helper()
	ec := config.DefaultExtractorConfig()
	d, err := NewEducationDetector(ec.EducationKeywords)
	require.NoError(t, err)
	return d
}

func levelSet(levels ...types.EducationLevel) map[types.EducationLevel]struct{} {
	set := make(map[types.EducationLevel]struct{}, len(levels))
	for _, lv := range levels {
		set[lv] = struct{}{}
	}
	return set
}

func TestEducationDetect(t *testing.T) {
	d := newTestEducationDetector(t)

	tests := []struct {
		name     string
		text     string
		expected map[types.EducationLevel]struct{}
	}{
		{
			name:     "diploma关键词",
			text:     "Diploma in Civil Engineering, 2015",
			expected: levelSet(types.EducationDiploma),
		},
		{
			name:     "btech缩写",
			text:     "B.Tech from IIT Delhi",
			expected: levelSet(types.EducationBTech),
		},
		{
			name:     "btech全称",
			text:     "Bachelor of Technology in Civil",
			expected: levelSet(types.EducationBTech),
		},
		{
			name:     "mtech全称",
			text:     "Master of Technology, Structures",
			expected: levelSet(types.EducationMTech),
		},
		{
			name:     "多等级同时出现",
			text:     "Diploma (2012), B.Tech (2016), M.Tech (2018)",
			expected: levelSet(types.EducationDiploma, types.EducationBTech, types.EducationMTech),
		},
		{
			name:     "同一等级重复出现只计一次",
			text:     "diploma in civil, diploma in mechanical",
			expected: levelSet(types.EducationDiploma),
		},
		{
			name:     "词边界防误报",
			text:     "studied diplomacy and international relations",
			expected: levelSet(),
		},
		{
			name:     "无学历关键词",
			text:     "worked on site supervision",
			expected: levelSet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.Detect(tt.text))
		})
	}
}

func TestScoreEducation(t *testing.T) {
	tests := []struct {
		name     string
		levels   map[types.EducationLevel]struct{}
		expected int
	}{
		{"空集合", levelSet(), 0},
		{"仅DIPLOMA", levelSet(types.EducationDiploma), 50},
		{"仅BTECH", levelSet(types.EducationBTech), 70},
		{"DIPLOMA加BTECH", levelSet(types.EducationDiploma, types.EducationBTech), 80},
		{"BTECH加MTECH", levelSet(types.EducationBTech, types.EducationMTech), 85},
		{"三个等级", levelSet(types.EducationDiploma, types.EducationBTech, types.EducationMTech), 100},
		// 组合表未覆盖的集合按最高单等级兜底
		{"DIPLOMA加MTECH走兜底", levelSet(types.EducationDiploma, types.EducationMTech), 85},
		{"仅MTECH走兜底", levelSet(types.EducationMTech), 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreEducation(tt.levels))
		})
	}
}

// TestScoreEducationCombinationNotSum 组合分数是人为指定的，不等于单项相加
func TestScoreEducationCombinationNotSum(t *testing.T) {
	combined := ScoreEducation(levelSet(types.EducationDiploma, types.EducationBTech))
	sum := ScoreEducation(levelSet(types.EducationDiploma)) + ScoreEducation(levelSet(types.EducationBTech))
	assert.Equal(t, 80, combined)
	assert.NotEqual(t, sum, combined)
}

func TestLevelNames(t *testing.T) {
	// 输出顺序固定为 DIPLOMA, BTECH, MTECH，与检测顺序无关
	names := LevelNames(levelSet(types.EducationMTech, types.EducationDiploma, types.EducationBTech))
	assert.Equal(t, []string{"DIPLOMA", "BTECH", "MTECH"}, names)

	assert.Equal(t, []string{"BTECH"}, LevelNames(levelSet(types.EducationBTech)))
	assert.Empty(t, LevelNames(levelSet()))
}
