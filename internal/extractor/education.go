package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"resume-parser-go/internal/types"
)

// educationScoreTable 学历组合分数表，唯一事实来源。
// 组合分数是人为指定的，不是各等级分数之和（例如 {DIPLOMA,BTECH}=80 而非 50+70）。
// 键为等级名排序后以"+"连接。
var educationScoreTable = map[string]int{
	"DIPLOMA":             50,
	"BTECH":               70,
	"BTECH+DIPLOMA":       80,
	"BTECH+MTECH":         85,
	"BTECH+DIPLOMA+MTECH": 100,
}

// levelOrder 输出qualification列表时的固定顺序
var levelOrder = []types.EducationLevel{
	types.EducationDiploma,
	types.EducationBTech,
	types.EducationMTech,
}

// EducationDetector 学历关键词检测器。
// 使用词边界匹配而非裸子串包含，避免关键词作为其他单词的一部分时误报。
type EducationDetector struct {
	patterns map[types.EducationLevel][]*regexp.Regexp
}

// NewEducationDetector 创建学历检测器，keywords为等级名到关键词列表的映射
func NewEducationDetector(keywords map[string][]string) (*EducationDetector, error) {
	detector := &EducationDetector{
		patterns: make(map[types.EducationLevel][]*regexp.Regexp),
	}
	for level, words := range keywords {
		for _, w := range words {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("编译学历关键词 %q 失败: %w", w, err)
			}
			lv := types.EducationLevel(level)
			detector.patterns[lv] = append(detector.patterns[lv], re)
		}
	}
	return detector, nil
}

// Detect 检测文本中出现的学历等级，返回去重后的等级集合
func (d *EducationDetector) Detect(text string) map[types.EducationLevel]struct{} {
	levels := make(map[types.EducationLevel]struct{})
	for level, patterns := range d.patterns {
		for _, re := range patterns {
			if re.MatchString(text) {
				levels[level] = struct{}{}
				break
			}
		}
	}
	return levels
}

// ScoreEducation 按组合表精确查找学历分数。
// 集合不命中任何已知组合时，按单等级优先级 MTECH > BTECH > DIPLOMA 兜底；
// 空集合得0分。查表结果只取决于集合内容，与检测顺序无关。
func ScoreEducation(levels map[types.EducationLevel]struct{}) int {
	if len(levels) == 0 {
		return 0
	}

	names := make([]string, 0, len(levels))
	for level := range levels {
		names = append(names, string(level))
	}
	sort.Strings(names)
	if score, ok := educationScoreTable[strings.Join(names, "+")]; ok {
		return score
	}

	if _, ok := levels[types.EducationMTech]; ok {
		return 85
	}
	if _, ok := levels[types.EducationBTech]; ok {
		return 70
	}
	if _, ok := levels[types.EducationDiploma]; ok {
		return 50
	}
	return 0
}

// LevelNames 将等级集合转为固定顺序的名称列表（DIPLOMA, BTECH, MTECH）
func LevelNames(levels map[types.EducationLevel]struct{}) []string {
	var names []string
	for _, level := range levelOrder {
		if _, ok := levels[level]; ok {
			names = append(names, string(level))
		}
	}
	return names
}
