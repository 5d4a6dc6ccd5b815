package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinkedInURL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "裸域名形式",
			text:     "Profile: linkedin.com/in/john-smith",
			expected: "https://www.linkedin.com/in/john-smith/",
		},
		{
			name:     "完整URL保持不变",
			text:     "see https://www.linkedin.com/in/john-smith/",
			expected: "https://www.linkedin.com/in/john-smith/",
		},
		{
			name:     "点号两侧空格伪影",
			text:     "linkedin . com / in / john-smith",
			expected: "https://www.linkedin.com/in/john-smith/",
		},
		{
			name:     "连字符处断行",
			text:     "linkedin.com/in/john-\nsmith",
			expected: "https://www.linkedin.com/in/john-smith/",
		},
		{
			name:     "slug中间断行",
			text:     "linkedin.com/in/john\nsmith",
			expected: "https://www.linkedin.com/in/johnsmith/",
		},
		{
			name:     "多候选取最长",
			text:     "linkedin.com/in/john also https://www.linkedin.com/in/john-smith-1a2b3c",
			expected: "https://www.linkedin.com/in/john-smith-1a2b3c/",
		},
		{
			name:     "pub路径",
			text:     "www.linkedin.com/pub/jane-doe",
			expected: "https://www.linkedin.com/pub/jane-doe/",
		},
		{
			name:     "大写输入归一为小写",
			text:     "LinkedIn.COM/in/John-Smith",
			expected: "https://www.linkedin.com/in/john-smith/",
		},
		{
			name:     "无URL",
			text:     "plain resume text",
			expected: "",
		},
		{
			name:     "公司主页不匹配",
			text:     "linkedin.com/company/acme",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractLinkedInURL(tt.text))
		})
	}
}

// TestExtractLinkedInURLIdempotent 规范化输出再次提取必须得到同一URL
func TestExtractLinkedInURLIdempotent(t *testing.T) {
	inputs := []string{
		"linkedin.com/in/john-smith",
		"linkedin . com / in / jane-doe-123",
		"linkedin.com/in/first-\nlast",
	}
	for _, input := range inputs {
		once := ExtractLinkedInURL(input)
		assert.NotEmpty(t, once)
		assert.Equal(t, once, ExtractLinkedInURL(once), "输入: %q", input)
	}
}

func TestCanonicalizeLinkedInURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"补全scheme与www", "linkedin.com/in/john-smith", "https://www.linkedin.com/in/john-smith/"},
		{"http升级为https", "http://linkedin.com/in/john", "https://www.linkedin.com/in/john/"},
		{"去掉尾部遗留连字符", "linkedin.com/in/john-smith-", "https://www.linkedin.com/in/john-smith/"},
		{"去掉尾部标点", "www.linkedin.com/in/john./", "https://www.linkedin.com/in/john/"},
		{"非LinkedIn域返回空", "example.com/in/john", ""},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalizeLinkedInURL(tt.raw))
		})
	}
}
