package extractor

import (
	"fmt"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/types"
)

// Extractor 简历结构化信息抽取器，聚合全部启发式提取组件。
// 每个组件都是对输入的纯函数，不同解析之间没有共享可变状态，
// 同一个Extractor可安全地被多个goroutine并发使用。
type Extractor struct {
	contact    *ContactExtractor
	name       *NameExtractor
	education  *EducationDetector
	skills     *SkillsExtractor
	confidence *ConfidenceScorer
}

// NewExtractor 根据注入的规则数据装配抽取器
func NewExtractor(cfg *config.ExtractorConfig) (*Extractor, error) {
	contact, err := NewContactExtractor(cfg.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("初始化联系方式提取器失败: %w", err)
	}
	education, err := NewEducationDetector(cfg.EducationKeywords)
	if err != nil {
		return nil, fmt.Errorf("初始化学历检测器失败: %w", err)
	}
	skills, err := NewSkillsExtractor(cfg.SkillsVocabulary)
	if err != nil {
		return nil, fmt.Errorf("初始化技能提取器失败: %w", err)
	}

	return &Extractor{
		contact:    contact,
		name:       NewNameExtractor(cfg.NameStopwords, cfg.HeaderZoneMarker, cfg.HeaderZoneMaxLines),
		education:  education,
		skills:     skills,
		confidence: NewConfidenceScorer(cfg.ConfidenceWeights),
	}, nil
}

// Parse 对一份文档文本执行完整抽取流水线并组装结构化结果。
// 流程：归一化 -> email/phone/linkedin/学历/技能/年限相互独立提取 ->
// 基于email/linkedin锚点提取姓名 -> 聚合置信度。
// 单个字段缺失是正常结果而非错误，流水线总是产出完整的profile。
func (e *Extractor) Parse(documentText string, originalFilename string) *types.ParsedProfile {
	text := NormalizeText(documentText)

	contact := e.contact.Extract(text)
	linkedinURL := ExtractLinkedInURL(text)
	levels := e.education.Detect(text)
	skills := e.skills.Extract(text)
	experienceYears := ExtractExperienceYears(text)
	fullName := e.name.Extract(text, contact.Email, linkedinURL)

	educationScore := ScoreEducation(levels)
	education := []types.EducationResult{}
	if len(levels) > 0 {
		education = append(education, types.EducationResult{
			Qualification: LevelNames(levels),
			Score:         educationScore,
		})
	}

	profile := &types.ParsedProfile{
		FullName:             fullName,
		Email:                contact.Email,
		Phone:                contact.Phone,
		LinkedInURL:          linkedinURL,
		Education:            education,
		Skills:               skills,
		TotalExperienceYears: experienceYears,
	}
	profile.ConfidenceScore = e.confidence.Score(
		fullName != "",
		profile.HasContact(),
		educationScore,
		experienceYears != nil,
	)
	return profile
}
