package extractor

import "resume-parser-go/internal/config"

// ConfidenceScorer 置信度聚合器：按信号存在与否加权求和，封顶cap。
// 权重来自配置而非字面量，权威取值见默认配置（25/20/30/25，上限100）。
type ConfidenceScorer struct {
	weights config.ConfidenceWeights
}

// NewConfidenceScorer 创建置信度聚合器
func NewConfidenceScorer(weights config.ConfidenceWeights) *ConfidenceScorer {
	return &ConfidenceScorer{weights: weights}
}

// Score 计算置信度。对任意输入结果落在[0, cap]内，
// 且对信号单调：新增一个此前缺失的信号不会降低分数。
func (s *ConfidenceScorer) Score(hasName, hasContact bool, educationScore int, hasExperience bool) int {
	score := 0
	if hasName {
		score += s.weights.Name
	}
	if hasContact {
		score += s.weights.Contact
	}
	if educationScore > 0 {
		score += s.weights.Education
	}
	if hasExperience {
		score += s.weights.Experience
	}
	if score > s.weights.Cap {
		score = s.weights.Cap
	}
	return score
}
