package intent

import "strings"

type keywordRule struct {
	intent   Intent
	triggers []string
}

// keywordRules is evaluated top to bottom and the first hit wins.
// "推荐" sits under job_match, so "推荐一句诗" routes to job_match here;
// the LLM classifier is the path that resolves that collision.
var keywordRules = []keywordRule{
	{JobMatch, []string{"匹配", "职位", "找工作", "推荐", "有没有适合", "岗位"}},
	{ResumeUpload, []string{"上传", "简历", "解析简历"}},
	{Poetry, []string{"诗词", "诗人", "古诗", "推荐一句", "陪伴", "安慰"}},
	{Credit, []string{"征信", "信用", "验证"}},
	{MBTI, []string{"人格", "mbti", "测评", "性格"}},
}

// ClassifyByKeywords maps text to the first intent with a matching trigger.
// Matching is case-insensitive containment. Empty input is Unknown.
func ClassifyByKeywords(text string) Intent {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return Unknown
	}
	for _, rule := range keywordRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(msg, strings.ToLower(trigger)) {
				return rule.intent
			}
		}
	}
	return Unknown
}
