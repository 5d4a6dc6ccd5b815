package types

// EducationLevel 表示归一化后的学历等级
type EducationLevel string

const (
	// EducationDiploma 大专/Diploma
	EducationDiploma EducationLevel = "DIPLOMA"
	// EducationBTech 本科 (B.Tech / Bachelor of Technology)
	EducationBTech EducationLevel = "BTECH"
	// EducationMTech 硕士 (M.Tech / Master of Technology)
	EducationMTech EducationLevel = "MTECH"
)

// EducationResult 学历检测结果：等级组合及其对应分数
type EducationResult struct {
	Qualification []string `json:"qualification"` // 等级名称列表，按固定顺序 DIPLOMA/BTECH/MTECH
	Score         int      `json:"score"`         // 0-100，由查表得出
}

// ContactInfo 联系方式，email/phone 相互独立，缺失不算错误
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ParsedProfile 一次解析的最终结构化结果
// 所有字段在构造后不再修改；未提取到的字段为空值或nil
type ParsedProfile struct {
	FullName             string            `json:"fullName"`
	Email                string            `json:"email"`
	Phone                string            `json:"phone"`
	LinkedInURL          string            `json:"linkedinUrl"`
	Education            []EducationResult `json:"education"`
	Skills               []string          `json:"skills"`
	TotalExperienceYears *int              `json:"totalExperienceYears,omitempty"`
	ConfidenceScore      int               `json:"confidenceScore"`
}

// HasContact 是否提取到了任一联系方式
func (p *ParsedProfile) HasContact() bool {
	return p.Email != "" || p.Phone != ""
}

// EducationScore 返回学历分数，未检测到学历时为0
func (p *ParsedProfile) EducationScore() int {
	if len(p.Education) == 0 {
		return 0
	}
	return p.Education[0].Score
}
