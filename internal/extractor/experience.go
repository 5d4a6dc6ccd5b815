package extractor

import (
	"regexp"
	"strconv"
)

// 工作年限的两种常见写法："5 years experience" / "5+ years of experience"
// 以及 "Experience: 5 years"
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs)(?:\s+of)?(?:\s+[a-z]+){0,3}?\s+experience`),
	regexp.MustCompile(`(?i)experience\s*[:\-]?\s*(\d{1,2})\s*\+?\s*(?:years?|yrs)`),
}

// ExtractExperienceYears 提取总工作年限。
// 多个写法同时出现时取文档中最先出现的匹配；未找到返回nil（缺失不是错误）。
func ExtractExperienceYears(text string) *int {
	bestIndex := -1
	bestValue := 0
	for _, re := range experiencePatterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if bestIndex == -1 || loc[0] < bestIndex {
			years, err := strconv.Atoi(text[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			bestIndex = loc[0]
			bestValue = years
		}
	}
	if bestIndex == -1 {
		return nil
	}
	return &bestValue
}
