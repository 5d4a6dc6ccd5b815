package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
	blankRunPattern = regexp.MustCompile(`\n{2,}`)
)

// NormalizeText 将文档提取出的原始文本规整为标准形式：
// Unicode NFC归一化、CR/CRLF统一为LF、空格/制表符折叠为单个空格、
// 连续空行折叠为一个换行、逐行及整体去除首尾空白。
// 对任意输入都成功（包括空串），且幂等：对输出再次归一化是空操作。
func NormalizeText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = strings.Join(lines, "\n")

	text = blankRunPattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
