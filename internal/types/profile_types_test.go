package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedProfileJSON(t *testing.T) {
	years := 5
	profile := ParsedProfile{
		FullName:    "John Smith",
		Email:       "john.smith@example.com",
		Phone:       "9876543210",
		LinkedInURL: "https://www.linkedin.com/in/john-smith/",
		Education: []EducationResult{
			{Qualification: []string{"DIPLOMA", "BTECH"}, Score: 80},
		},
		Skills:               []string{"planning"},
		TotalExperienceYears: &years,
		ConfidenceScore:      100,
	}

	data, err := json.Marshal(&profile)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	// 对外字段名固定，消费方依赖这些键
	assert.Contains(t, m, "fullName")
	assert.Contains(t, m, "linkedinUrl")
	assert.Contains(t, m, "education")
	assert.Contains(t, m, "confidenceScore")
	assert.Equal(t, float64(5), m["totalExperienceYears"])
}

// TestParsedProfileJSONEmptyCollections 空结果序列化为[]而不是null，年限字段整个省略
func TestParsedProfileJSONEmptyCollections(t *testing.T) {
	profile := ParsedProfile{
		Education: []EducationResult{},
		Skills:    []string{},
	}

	data, err := json.Marshal(&profile)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"education":[]`)
	assert.Contains(t, s, `"skills":[]`)
	assert.NotContains(t, s, "totalExperienceYears")
}

func TestHasContact(t *testing.T) {
	assert.False(t, (&ParsedProfile{}).HasContact())
	assert.True(t, (&ParsedProfile{Email: "a@b.io"}).HasContact())
	assert.True(t, (&ParsedProfile{Phone: "9876543210"}).HasContact())
}

func TestEducationScore(t *testing.T) {
	assert.Equal(t, 0, (&ParsedProfile{}).EducationScore())
	p := &ParsedProfile{Education: []EducationResult{{Qualification: []string{"BTECH"}, Score: 70}}}
	assert.Equal(t, 70, p.EducationScore())
}
