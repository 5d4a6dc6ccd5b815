package extractor

import (
	"fmt"
	"regexp"
)

// SkillsExtractor 技能词表扫描器。
// 输出保持词表顺序而非文档出现顺序；词表本身无重复，无需去重。
type SkillsExtractor struct {
	vocabulary []string
	patterns   []*regexp.Regexp
}

// NewSkillsExtractor 创建技能提取器，vocabulary为注入的固定有序词表
func NewSkillsExtractor(vocabulary []string) (*SkillsExtractor, error) {
	s := &SkillsExtractor{
		vocabulary: vocabulary,
		patterns:   make([]*regexp.Regexp, 0, len(vocabulary)),
	}
	for _, skill := range vocabulary {
		// 词边界匹配，避免词表项作为其他单词的一部分时误报
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("编译技能词 %q 失败: %w", skill, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// Extract 返回文本中出现的技能子集，顺序与词表一致
func (s *SkillsExtractor) Extract(text string) []string {
	found := make([]string, 0, len(s.vocabulary))
	for i, re := range s.patterns {
		if re.MatchString(text) {
			found = append(found, s.vocabulary[i])
		}
	}
	return found
}
