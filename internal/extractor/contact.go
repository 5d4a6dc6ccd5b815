package extractor

import (
	"fmt"
	"regexp"

	"resume-parser-go/internal/types"
)

// emailPattern 标准的 local-part@domain.tld 地址文法
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ContactExtractor 联系方式提取器
// 电话正则刻意收窄到单一编号计划：其他编号计划不匹配是可接受的漏报，
// 不要为了覆盖率换成宽松模式，那会牺牲精确率。
type ContactExtractor struct {
	phonePattern *regexp.Regexp
}

// NewContactExtractor 创建联系方式提取器，phonePattern为注入的电话正则
func NewContactExtractor(phonePattern string) (*ContactExtractor, error) {
	re, err := regexp.Compile(phonePattern)
	if err != nil {
		return nil, fmt.Errorf("编译电话正则失败: %w", err)
	}
	return &ContactExtractor{phonePattern: re}, nil
}

// ExtractEmail 返回文档顺序中第一个邮箱地址，未找到返回空串
func (c *ContactExtractor) ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone 返回第一个匹配编号计划的电话号码，未找到返回空串
func (c *ContactExtractor) ExtractPhone(text string) string {
	return c.phonePattern.FindString(text)
}

// Extract 提取完整联系方式。email和phone相互独立，任一缺失不影响另一个
func (c *ContactExtractor) Extract(text string) types.ContactInfo {
	return types.ContactInfo{
		Email: c.ExtractEmail(text),
		Phone: c.ExtractPhone(text),
	}
}
