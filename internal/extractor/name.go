package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	linkedinSlugPattern = regexp.MustCompile(`/(in|pub)/([^/]+)/?`)
	digitsPattern       = regexp.MustCompile(`\d+`)
)

// narrativePhrases 叙述性停顿短语：出现在行中说明该行是描述而非人名
var narrativePhrases = []string{" in ", " for ", " with ", " and "}

// NameExtractor 姓名提取器。
// 简历头部并不可靠（职位、章节标题经常出现在首行），因此从不单凭文本猜测：
// 必须有来自已验证联系方式（email/LinkedIn）的锚点佐证才接受一行为姓名。
type NameExtractor struct {
	stopwords    map[string]struct{}
	headerMarker string
	maxLines     int
}

// NewNameExtractor 创建姓名提取器
// stopwords为行首需剥离的结构性停用词，headerMarker为头部区域的边界标记，
// maxLines为头部区域最多扫描的非空行数
func NewNameExtractor(stopwords []string, headerMarker string, maxLines int) *NameExtractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &NameExtractor{
		stopwords:    set,
		headerMarker: strings.ToLower(headerMarker),
		maxLines:     maxLines,
	}
}

// Extract 从归一化文本中提取候选人姓名。
// 锚点集合为空时立即返回空串，没有锚点就不猜测，也不回退到文件名。
func (n *NameExtractor) Extract(text, email, linkedinURL string) string {
	anchors := AnchorTokens(email, linkedinURL)
	if len(anchors) == 0 {
		return ""
	}

	for _, line := range n.headerZone(text) {
		cleaned := n.stripLeadingStopwords(line)
		if !looksLikePersonName(cleaned) {
			continue
		}
		if countAnchorHits(cleaned, anchors) >= 2 {
			return titleCase(cleaned)
		}
	}
	return ""
}

// AnchorTokens 从email本地部分和LinkedIn slug推导身份锚点：
// 去掉数字、按分隔符拆分、保留长度大于1的小写词片，两个来源取并集。
func AnchorTokens(email, linkedinURL string) map[string]struct{} {
	anchors := make(map[string]struct{})

	if linkedinURL != "" {
		if m := linkedinSlugPattern.FindStringSubmatch(linkedinURL); m != nil {
			slug := digitsPattern.ReplaceAllString(m[2], "")
			for _, part := range strings.FieldsFunc(slug, func(r rune) bool {
				return r == '-' || r == '_'
			}) {
				if len(part) > 1 {
					anchors[strings.ToLower(part)] = struct{}{}
				}
			}
		}
	}

	if email != "" {
		local := email
		if at := strings.Index(email, "@"); at >= 0 {
			local = email[:at]
		}
		local = digitsPattern.ReplaceAllString(local, "")
		for _, part := range strings.FieldsFunc(local, func(r rune) bool {
			return r == '.' || r == '_' || r == '-'
		}) {
			if len(part) > 1 && isAlphabetic(part) {
				anchors[strings.ToLower(part)] = struct{}{}
			}
		}
	}

	return anchors
}

// headerZone 返回头部区域的非空行：从文档起始到第一个以headerMarker
// 开头（不区分大小写）的行为止，且不超过maxLines行。
func (n *NameExtractor) headerZone(text string) []string {
	var zone []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), n.headerMarker) {
			break
		}
		zone = append(zone, line)
		if len(zone) >= n.maxLines {
			break
		}
	}
	return zone
}

// stripLeadingStopwords 剥离行首的结构性停用词（如 "Name:"、"Contact"）
func (n *NameExtractor) stripLeadingStopwords(line string) string {
	words := strings.Fields(line)
	for len(words) > 0 {
		head := strings.ToLower(strings.Trim(words[0], ":"))
		if _, ok := n.stopwords[head]; !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// looksLikePersonName 判断一行是否具备人名的形状：
// 2-6个词、每个词去掉句点后全为字母、不是全大写、不含叙述性短语。
func looksLikePersonName(name string) bool {
	if name == "" {
		return false
	}

	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 6 {
		return false
	}
	for _, w := range words {
		if !isAlphabetic(strings.ReplaceAll(w, ".", "")) {
			return false
		}
	}

	// 全大写的行更可能是章节标题
	if name == strings.ToUpper(name) && name != strings.ToLower(name) {
		return false
	}

	lowered := strings.ToLower(name)
	for _, phrase := range narrativePhrases {
		if strings.Contains(lowered, phrase) {
			return false
		}
	}
	return true
}

// countAnchorHits 统计有多少个不同的锚点词是该行小写形式的子串
func countAnchorHits(line string, anchors map[string]struct{}) int {
	lowered := strings.ToLower(line)
	hits := 0
	for token := range anchors {
		if strings.Contains(lowered, token) {
			hits++
		}
	}
	return hits
}

// isAlphabetic 判断非空字符串是否全部由字母组成
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// titleCase 逐词首字母大写：跟在非字母后面的字母大写，其余小写。
// 例如 "j.r. smith" -> "J.R. Smith"
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
