package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-parser-go/internal/config"
)

func newTestNameExtractor() *NameExtractor {
	ec := config.DefaultExtractorConfig()
	return NewNameExtractor(ec.NameStopwords, ec.HeaderZoneMarker, ec.HeaderZoneMaxLines)
}

func TestNameExtract(t *testing.T) {
	n := newTestNameExtractor()

	tests := []struct {
		name     string
		text     string
		email    string
		linkedin string
		expected string
	}{
		{
			name:     "首行姓名与邮箱锚点一致",
			text:     "John Smith\nCivil Engineer\nEmail: john.smith@example.com",
			email:    "john.smith@example.com",
			expected: "John Smith",
		},
		{
			name:     "无任何锚点时不猜测",
			text:     "John Smith\nCivil Engineer",
			expected: "",
		},
		{
			name:     "剥离行首停用词",
			text:     "Name: John Smith\nPlanning Engineer",
			email:    "john.smith@example.com",
			expected: "John Smith",
		},
		{
			name:     "锚点命中不足两个则拒绝",
			text:     "John Doe\nEngineer",
			email:    "john.smith@example.com",
			expected: "",
		},
		{
			name:     "全大写行视为章节标题",
			text:     "JOHN SMITH\nsome text",
			email:    "john.smith@example.com",
			expected: "",
		},
		{
			name:     "小写姓名做词首大写",
			text:     "john smith\nEngineer",
			email:    "john.smith@example.com",
			expected: "John Smith",
		},
		{
			name:     "叙述性行被跳过",
			text:     "Worked with john smith in Mumbai\nEngineer",
			email:    "john.smith@example.com",
			expected: "",
		},
		{
			name:     "LinkedIn slug作为锚点来源",
			text:     "Jane Doe\nStructural Engineer",
			linkedin: "https://www.linkedin.com/in/jane-doe-1a2b3c/",
			expected: "Jane Doe",
		},
		{
			name:     "只扫描工作经历标记之前的区域",
			text:     "Summary line one here\nExperience\njohn smith at acme",
			email:    "john.smith@example.com",
			expected: "",
		},
		{
			name:     "含数字的行不是姓名",
			text:     "john smith 42\nEngineer",
			email:    "john.smith@example.com",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Extract(tt.text, tt.email, tt.linkedin))
		})
	}
}

func TestAnchorTokens(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		linkedin string
		expected []string
	}{
		{
			name:     "邮箱本地部分按分隔符拆分并去数字",
			email:    "john.smith99@example.com",
			expected: []string{"john", "smith"},
		},
		{
			name:     "LinkedIn slug去数字后拆分",
			linkedin: "https://www.linkedin.com/in/jane-doe-123/",
			expected: []string{"jane", "doe"},
		},
		{
			name:     "两个来源取并集",
			email:    "john.smith@example.com",
			linkedin: "https://www.linkedin.com/in/john-smith/",
			expected: []string{"john", "smith"},
		},
		{
			name:     "单字符词片被丢弃",
			email:    "j.smith@example.com",
			expected: []string{"smith"},
		},
		{
			name:     "两个来源都为空",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anchors := AnchorTokens(tt.email, tt.linkedin)
			assert.Len(t, anchors, len(tt.expected))
			for _, token := range tt.expected {
				assert.Contains(t, anchors, token)
			}
		})
	}
}

func TestLooksLikePersonName(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"两词姓名", "John Smith", true},
		{"带缩写点", "J.R. Smith", true},
		{"单个词太短", "John", false},
		{"超过六个词", "a b c d e f g", false},
		{"含数字", "John Smith 42", false},
		{"全大写标题", "WORK HISTORY", false},
		{"叙述性短语", "worked in mumbai", false},
		{"空串", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, looksLikePersonName(tt.line))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "John Smith", titleCase("john smith"))
	assert.Equal(t, "J.R. Smith", titleCase("j.r. smith"))
	assert.Equal(t, "John Smith", titleCase("JOHN SMITH"))
}
