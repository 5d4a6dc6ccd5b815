package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/types"
)

func newTestContactExtractor(t *testing.T) *ContactExtractor {
	t.Helper()
	ec := config.DefaultExtractorConfig()
	c, err := NewContactExtractor(ec.PhonePattern)
	require.NoError(t, err)
	return c
}

func TestExtractEmail(t *testing.T) {
	c := newTestContactExtractor(t)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"标准地址", "联系: john.smith@example.com", "john.smith@example.com"},
		{"取文档序第一个", "a@x.io then b@y.io", "a@x.io"},
		{"带加号与百分号", "mail me: dev+hire%40@sub.domain.co.in", "dev+hire%40@sub.domain.co.in"},
		{"无邮箱", "no email here", ""},
		{"顶级域至少两个字母", "bad@host.c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ExtractEmail(tt.text))
		})
	}
}

func TestExtractPhone(t *testing.T) {
	c := newTestContactExtractor(t)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"裸10位号码", "Phone: 9876543210", "9876543210"},
		{"带国家码", "+91 9876543210", "+91 9876543210"},
		{"带连字符的国家码", "call +91-9876543210 now", "+91-9876543210"},
		{"前导0", "09876543210", "09876543210"},
		{"首位不在6-9不匹配", "1234567890", ""},
		{"无号码", "no phone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ExtractPhone(tt.text))
		})
	}
}

// TestExtractContactInfo email和phone独立提取，任一缺失不影响另一个
func TestExtractContactInfo(t *testing.T) {
	c := newTestContactExtractor(t)

	tests := []struct {
		name     string
		text     string
		expected types.ContactInfo
	}{
		{"两者齐全", "john@example.com / 9876543210", types.ContactInfo{Email: "john@example.com", Phone: "9876543210"}},
		{"仅邮箱", "mail: jane@example.com", types.ContactInfo{Email: "jane@example.com"}},
		{"仅电话", "call +91 9876543210", types.ContactInfo{Phone: "+91 9876543210"}},
		{"均缺失", "nothing here", types.ContactInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Extract(tt.text))
		})
	}
}
