package dispatch

import (
	"strings"
	"unicode/utf8"
)

const (
	poetryQueryMaxRunes = 80

	creditMinRunes     = 25
	creditKeywordRunes = 40

	// MinMBTIRunes is the shortest self-description worth analyzing.
	MinMBTIRunes = 10
)

var poetryRecommendationMarkers = []string{
	"推荐", "来一句", "来一首", "来首", "随便", "给我一首", "背一首", "recommend", "give me one",
}

var creditKeywords = []string{"征信", "信用", "credit"}

var creditReportMarkers = []string{
	"主体：", "主体:", "报告类型：", "报告类型:", "信用代码", "摘要：", "摘要:", "subject:", "report type:",
}

// IsPoetryRecommendationQuery reports whether text asks for a poem rather
// than supplying one: short and containing a request marker.
func IsPoetryRecommendationQuery(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || utf8.RuneCountInString(t) >= poetryQueryMaxRunes {
		return false
	}
	return containsAny(strings.ToLower(t), poetryRecommendationMarkers)
}

// CreditHasDocumentBody reports whether text looks like pasted report content
// rather than a bare request to check credit.
func CreditHasDocumentBody(text string) bool {
	t := strings.TrimSpace(text)
	n := utf8.RuneCountInString(t)
	if n < creditMinRunes {
		return false
	}
	lower := strings.ToLower(t)
	if n > creditKeywordRunes && containsAny(lower, creditKeywords) {
		return true
	}
	return containsAny(lower, creditReportMarkers)
}

// MBTIHasMinimumLength gates personality analysis on enough self-description.
// The analyzer keeps its own higher floor (mbti.MinTextLength): text that
// passes here but falls below that floor is still dispatched as ok, carrying
// the analyzer's placeholder result with type "XXXX".
func MBTIHasMinimumLength(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinMBTIRunes
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
