package extractor

import (
	"regexp"
	"strings"
)

var (
	// PDF提取常见伪影："linkedin . com"、"linkedin.com / in /"
	linkedinDotSpacing  = regexp.MustCompile(`(?i)linkedin\s*\.\s*com`)
	linkedinPathSpacing = regexp.MustCompile(`(?i)(linkedin\.com)\s*/\s*(in|pub)\s*/\s*`)

	// 断行修复：先处理紧跟连字符后断行的情况，再处理其余换行拆分
	linkedinHyphenWrap = regexp.MustCompile(`(?i)(linkedin\.com/(?:in|pub)/[a-z0-9\-]*-)\s*\n\s*([a-z0-9\-]+)`)
	linkedinLineWrap   = regexp.MustCompile(`(?i)(linkedin\.com/(?:in|pub)/[a-z0-9\-]+)\s*\n\s*([a-z0-9\-]+)`)

	// 候选提取：可选scheme、可选www、in或pub路径、slug字符
	linkedinCandidate = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/(?:in|pub)/[a-z0-9\-]+`)
)

// ExtractLinkedInURL 从文本中提取并规范化LinkedIn个人主页URL。
// 步骤：修复断行 -> 提取全部候选 -> 取最长者（截断伪影通常更短）-> 规范化。
// 未找到返回空串。幂等：对已规范的URL再提取得到同一URL。
func ExtractLinkedInURL(text string) string {
	if text == "" {
		return ""
	}

	t := strings.ToLower(text)
	t = linkedinDotSpacing.ReplaceAllString(t, "linkedin.com")
	t = linkedinPathSpacing.ReplaceAllString(t, "$1/$2/")
	t = linkedinHyphenWrap.ReplaceAllString(t, "$1$2")
	t = linkedinLineWrap.ReplaceAllString(t, "$1$2")

	candidates := linkedinCandidate.FindAllString(t, -1)
	if len(candidates) == 0 {
		return ""
	}

	// 最长的候选被认为最完整，长度相同时保留先出现者
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(best) {
			best = c
		}
	}

	return CanonicalizeLinkedInURL(best)
}

// CanonicalizeLinkedInURL 将一个LinkedIn URL规范化为
// https://www.linkedin.com/{in|pub}/<slug>/ 形式：小写、补全scheme与www、
// 去掉不属于URL尾部的字符、保证恰好一个结尾斜杠。
func CanonicalizeLinkedInURL(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}

	raw = strings.TrimPrefix(raw, "http://")
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "www.")
	if !strings.HasPrefix(raw, "linkedin.com/") {
		return ""
	}

	// 去除尾部的非URL字符（修复失败遗留的连字符、标点等）
	raw = strings.TrimRight(raw, "-_./")

	return "https://www." + raw + "/"
}
