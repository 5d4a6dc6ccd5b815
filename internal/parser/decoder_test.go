package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("resume.pdf"))
	assert.True(t, SupportedExtension("resume.DOCX"))
	assert.False(t, SupportedExtension("notes.txt"))
	assert.False(t, SupportedExtension("resume.doc"))
	assert.False(t, SupportedExtension("archive.zip"))
	assert.False(t, SupportedExtension("noextension"))
}

// TestExtractTextUnsupportedExtension 支持集之外的扩展名直接拒绝，不触碰解码器
func TestExtractTextUnsupportedExtension(t *testing.T) {
	d := &Decoder{}
	for _, filename := range []string{"notes.txt", "resume.doc", "archive.zip"} {
		_, err := d.ExtractText(context.Background(), []byte("content"), filename)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, filename)
	}
}

func TestStripDocxMarkup(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "段落标签转换行",
			content:  `<w:p><w:r><w:t>John Smith</w:t></w:r></w:p><w:p><w:r><w:t>Civil Engineer</w:t></w:r></w:p>`,
			expected: "John Smith\nCivil Engineer\n",
		},
		{
			name:     "XML实体还原",
			content:  `<w:t>QA &amp; QC &lt;site&gt;</w:t>`,
			expected: "QA & QC <site>",
		},
		{
			name:     "纯文本原样保留",
			content:  "plain text",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripDocxMarkup(tt.content))
		})
	}
}
