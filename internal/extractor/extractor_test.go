package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/config"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	ec := config.DefaultExtractorConfig()
	e, err := NewExtractor(&ec)
	require.NoError(t, err)
	return e
}

const fullResumeText = `John Smith
Civil Engineer

Email: john.smith@example.com
Phone: +91 9876543210
LinkedIn: linkedin.com/in/john-smith

Education
B.Tech in Civil Engineering, 2016
Diploma in Civil Engineering, 2012

5 years experience in construction planning and billing.
`

// TestParseFullResume 信息齐备的简历应产出完整profile且置信度封顶
func TestParseFullResume(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Parse(fullResumeText, "john_smith.pdf")

	assert.Equal(t, "John Smith", profile.FullName)
	assert.Equal(t, "john.smith@example.com", profile.Email)
	assert.Equal(t, "+91 9876543210", profile.Phone)
	assert.Equal(t, "https://www.linkedin.com/in/john-smith/", profile.LinkedInURL)

	require.Len(t, profile.Education, 1)
	assert.Equal(t, []string{"DIPLOMA", "BTECH"}, profile.Education[0].Qualification)
	assert.Equal(t, 80, profile.Education[0].Score)

	assert.Equal(t, []string{"planning", "billing", "civil engineering", "construction"}, profile.Skills)

	require.NotNil(t, profile.TotalExperienceYears)
	assert.Equal(t, 5, *profile.TotalExperienceYears)

	assert.Equal(t, 100, profile.ConfidenceScore)
}

// TestParseEmptyishText 几乎没有可提取信息时所有字段取零值且置信度为0
func TestParseEmptyishText(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Parse("just some random words about nothing", "note.txt")

	assert.Empty(t, profile.FullName)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Phone)
	assert.Empty(t, profile.LinkedInURL)
	assert.NotNil(t, profile.Education)
	assert.Empty(t, profile.Education)
	assert.NotNil(t, profile.Skills)
	assert.Empty(t, profile.Skills)
	assert.Nil(t, profile.TotalExperienceYears)
	assert.Equal(t, 0, profile.ConfidenceScore)
}

// TestParsePartialResume 只有部分信号时置信度为对应权重之和
func TestParsePartialResume(t *testing.T) {
	e := newTestExtractor(t)

	text := "Contact: jane.doe@example.com\nDiploma in Civil Engineering"
	profile := e.Parse(text, "jane.docx")

	assert.Empty(t, profile.FullName)
	assert.Equal(t, "jane.doe@example.com", profile.Email)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, []string{"DIPLOMA"}, profile.Education[0].Qualification)
	assert.Equal(t, 50, profile.Education[0].Score)
	assert.Nil(t, profile.TotalExperienceYears)

	// contact(20) + education(30)
	assert.Equal(t, 50, profile.ConfidenceScore)
}

// TestParseNameRequiresAnchors 文件名看似人名也不作为姓名来源
func TestParseNameRequiresAnchors(t *testing.T) {
	e := newTestExtractor(t)

	profile := e.Parse("John Smith\nCivil Engineer\nPhone: 9876543210", "john_smith_resume.pdf")

	assert.Empty(t, profile.FullName)
	assert.Equal(t, "9876543210", profile.Phone)
}

// TestParseMessyPDFText 归一化与断行修复在流水线内生效
func TestParseMessyPDFText(t *testing.T) {
	e := newTestExtractor(t)

	text := "john   smith\r\n\r\nEmail:  john.smith@example.com\r\nlinkedin . com / in / john-\nsmith\r\n"
	profile := e.Parse(text, "scan.pdf")

	assert.Equal(t, "John Smith", profile.FullName)
	assert.Equal(t, "https://www.linkedin.com/in/john-smith/", profile.LinkedInURL)
}

// TestParseDeterministic 同一输入重复解析得到相同结果
func TestParseDeterministic(t *testing.T) {
	e := newTestExtractor(t)

	first := e.Parse(fullResumeText, "a.pdf")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Parse(fullResumeText, "a.pdf"))
	}
}
