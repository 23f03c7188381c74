// Package mbti infers a personality type from self-described text by
// counting dimension keywords. No model calls are involved.
package mbti

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the analyzer's own floor, in runes. Shorter text yields DefaultResult.
const MinTextLength = 20

const maxKeywords = 10

var dimensionKeywords = map[string][]string{
	"E": {"团队", "分享", "讨论", "活动", "社交", "热情", "外向"},
	"I": {"独立", "思考", "安静", "专注", "深入", "内省", "独处"},
	"S": {"具体", "细节", "实际", "经验", "事实", "现在", "步骤"},
	"N": {"概念", "可能", "未来", "创新", "愿景", "理论", "模式"},
	"T": {"逻辑", "分析", "客观", "效率", "原则", "公平", "理性"},
	"F": {"感受", "价值", "和谐", "关系", "同情", "体谅", "情感"},
	"J": {"计划", "组织", "决定", "结构", "截止", "完成", "确定"},
	"P": {"灵活", "适应", "探索", "开放", "即兴", "选项", "可能"},
}

// dimensionOrder fixes keyword extraction order.
var dimensionOrder = []string{"E", "I", "S", "N", "T", "F", "J", "P"}

type flower struct {
	Name   string
	Traits []string
}

var flowerMapping = map[string]flower{
	"INTJ": {"紫罗兰", []string{"深思熟虑", "独立思考", "追求完美"}},
	"ENTJ": {"向日葵", []string{"领导力强", "目标导向", "果断决策"}},
	"INFP": {"薰衣草", []string{"理想主义", "富有同情心", "创造力强"}},
	"ENFP": {"雏菊", []string{"热情洋溢", "富有想象力", "善于沟通"}},
	"ISTJ": {"康乃馨", []string{"可靠负责", "注重细节", "实事求是"}},
	"ESTJ": {"菊花", []string{"组织能力强", "务实高效", "遵守规则"}},
	"ISFP": {"樱花", []string{"温和友善", "灵活变通", "审美敏感"}},
	"ESFP": {"玫瑰", []string{"活力四射", "乐观开朗", "享受当下"}},
}

var defaultFlower = flower{"百合", []string{"综合特质"}}

var (
	positiveWords = []string{"好", "棒", "优秀", "满意", "喜欢", "感谢", "期待"}
	negativeWords = []string{"不", "差", "问题", "困难", "担心", "抱歉", "遗憾"}
)

type Result struct {
	Type               string             `json:"mbti_type"`
	Confidence         float64            `json:"mbti_confidence"`
	ExtraversionScore  float64            `json:"extraversion_score"`
	SensingScore       float64            `json:"sensing_score"`
	ThinkingScore      float64            `json:"thinking_score"`
	JudgingScore       float64            `json:"judging_score"`
	Flower             string             `json:"flower_personality"`
	FlowerTraits       []string           `json:"flower_traits"`
	EmotionalTone      string             `json:"emotional_tone"`
	CommunicationStyle string             `json:"communication_style"`
	Keywords           []string           `json:"keywords"`
	Indicators         map[string]float64 `json:"mbti_indicators"`
}

func (r Result) ToMapping() map[string]interface{} {
	indicators := make(map[string]interface{}, len(r.Indicators))
	for k, v := range r.Indicators {
		indicators[k] = v
	}
	return map[string]interface{}{
		"mbti_type":           r.Type,
		"mbti_confidence":     r.Confidence,
		"extraversion_score":  r.ExtraversionScore,
		"sensing_score":       r.SensingScore,
		"thinking_score":      r.ThinkingScore,
		"judging_score":       r.JudgingScore,
		"flower_personality":  r.Flower,
		"flower_traits":       r.FlowerTraits,
		"emotional_tone":      r.EmotionalTone,
		"communication_style": r.CommunicationStyle,
		"keywords":            r.Keywords,
		"mbti_indicators":     indicators,
	}
}

// DefaultResult is returned for text below MinTextLength.
func DefaultResult() Result {
	return Result{
		Type:               "XXXX",
		Flower:             "待分析",
		FlowerTraits:       []string{},
		EmotionalTone:      "neutral",
		CommunicationStyle: "unknown",
		Keywords:           []string{},
		Indicators:         map[string]float64{},
	}
}

type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(text string) Result {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) < MinTextLength {
		return DefaultResult()
	}

	e, i := pairScores(t, "E", "I")
	s, n := pairScores(t, "S", "N")
	th, f := pairScores(t, "T", "F")
	j, p := pairScores(t, "J", "P")

	mbtiType := pick(e > i, "E", "I") + pick(s > n, "S", "N") + pick(th > f, "T", "F") + pick(j > p, "J", "P")

	fl, ok := flowerMapping[mbtiType]
	if !ok {
		fl = defaultFlower
	}

	return Result{
		Type:               mbtiType,
		Confidence:         round2(confidence(e-i, s-n, th-f, j-p)),
		ExtraversionScore:  round2(e - i),
		SensingScore:       round2(s - n),
		ThinkingScore:      round2(th - f),
		JudgingScore:       round2(j - p),
		Flower:             fl.Name,
		FlowerTraits:       append([]string(nil), fl.Traits...),
		EmotionalTone:      emotionalTone(t),
		CommunicationStyle: communicationStyle(t),
		Keywords:           extractKeywords(t),
		Indicators: map[string]float64{
			"E": e, "I": i, "S": s, "N": n,
			"T": th, "F": f, "J": j, "P": p,
		},
	}
}

func countHits(text string, words []string) int {
	hits := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return hits
}

// pairScores returns each side's share of hits, smoothed by +1 in the denominator.
func pairScores(text, left, right string) (float64, float64) {
	l := float64(countHits(text, dimensionKeywords[left]))
	r := float64(countHits(text, dimensionKeywords[right]))
	total := l + r + 1
	return l / total * 100, r / total * 100
}

func confidence(diffs ...float64) float64 {
	sum := 0.0
	for _, d := range diffs {
		sum += math.Abs(d)
	}
	avg := sum / float64(len(diffs))
	return math.Max(math.Min(avg*2, 100), 50)
}

func emotionalTone(text string) string {
	pos := float64(countHits(text, positiveWords))
	neg := float64(countHits(text, negativeWords))
	switch {
	case pos > neg*1.5:
		return "positive"
	case neg > pos*1.5:
		return "negative"
	default:
		return "neutral"
	}
}

func communicationStyle(text string) string {
	questions := strings.Count(text, "？") + strings.Count(text, "?")
	length := utf8.RuneCountInString(text)
	switch {
	case questions > 3:
		return "inquiring"
	case length > 500:
		return "detailed"
	case length < 100:
		return "concise"
	default:
		return "balanced"
	}
}

func extractKeywords(text string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, dim := range dimensionOrder {
		for _, k := range dimensionKeywords[dim] {
			if seen[k] || !strings.Contains(text, k) {
				continue
			}
			seen[k] = true
			out = append(out, k)
			if len(out) == maxKeywords {
				return out
			}
		}
	}
	return out
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
