package dispatch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/analysis"
	"ai-assistant-be/pkg/intent"
	"ai-assistant-be/pkg/jobs"
	"ai-assistant-be/pkg/mbti"
	"ai-assistant-be/pkg/metrics"
	"ai-assistant-be/pkg/safeerr"
)

const (
	maxReceivedRunes = 100
	configHint       = "请检查模型 API Key 与文档解析后端配置"
)

// PoetryThemes feeds topic injection for short recommendation requests.
var PoetryThemes = []string{
	"思乡", "送别", "山水", "田园", "边塞", "爱情", "友情", "励志", "怀古", "咏物", "春天", "秋天",
}

// Input is what the dispatcher needs from the request besides the intent.
type Input struct {
	Text       string
	ResumeText string
	TopN       int
	JobSource  string
	Slots      map[string]interface{}
}

// ThemePicker chooses one theme for poetry recommendations.
type ThemePicker func(themes []string) string

type Option func(*Dispatcher)

func WithThemePicker(p ThemePicker) Option {
	return func(d *Dispatcher) { d.pickTheme = p }
}

// Dispatcher routes a classified request to the capability that serves it.
type Dispatcher struct {
	analyzer  analysis.Analyzer
	matcher   jobs.Matcher
	mbti      *mbti.Analyzer
	pickTheme ThemePicker
	logger    logger.ILogger
}

func NewDispatcher(analyzer analysis.Analyzer, matcher jobs.Matcher, log logger.ILogger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		analyzer:  analyzer,
		matcher:   matcher,
		mbti:      mbti.NewAnalyzer(),
		pickTheme: randomTheme,
		logger:    log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch never returns an error: collaborator failures and panics become
// an error outcome with a sanitized message.
func (d *Dispatcher) Dispatch(ctx context.Context, in intent.Intent, input Input) (out Outcome) {
	slots := nonNil(input.Slots)
	text := ResolveText(input.Text, slots)

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("DISPATCH", "Capability panicked", map[string]interface{}{
				"intent": string(in),
				"panic":  fmt.Sprint(r),
			})
			out = Failed("处理失败", safeerr.Message(fmt.Errorf("%v", r), configHint), slots)
		}
		metrics.DispatchOutcomes.WithLabelValues(string(in), string(out.Status)).Inc()
	}()

	switch in {
	case intent.JobMatch:
		return d.jobMatch(ctx, ResolveResumeText(input.ResumeText, slots), input, slots)
	case intent.ResumeUpload:
		return d.resume(ctx, text, slots)
	case intent.Poetry:
		return d.poetry(ctx, text, slots)
	case intent.Credit:
		return d.credit(ctx, text, slots)
	case intent.MBTI:
		return d.personality(text, slots)
	default:
		return Unknown("暂未识别到明确意图", truncateRunes(strings.TrimSpace(input.Text), maxReceivedRunes))
	}
}

func (d *Dispatcher) jobMatch(ctx context.Context, resumeText string, input Input, slots map[string]interface{}) Outcome {
	if resumeText == "" {
		return Pending("职位匹配需要简历内容", "请在 resume_text 中粘贴简历文本，或先上传简历", slots)
	}
	if d.matcher == nil {
		return Pending("职位匹配服务未配置", configHint, slots)
	}

	results, evaluated, err := d.matcher.Match(ctx, resumeText, input.TopN, input.JobSource)
	if err != nil {
		return d.failed(string(intent.JobMatch), "职位匹配失败", err, slots)
	}
	matches := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		matches = append(matches, r.ToMapping())
	}
	return OK("已完成职位匹配", map[string]interface{}{
		"matches":         matches,
		"total_evaluated": evaluated,
	}, slots)
}

func (d *Dispatcher) resume(ctx context.Context, text string, slots map[string]interface{}) Outcome {
	if text == "" {
		return Pending("简历上传与解析需要文本内容", "请粘贴简历文本后重试", slots)
	}
	return d.analyze(ctx, analysis.DocumentResume, text, slots, documentMessages{
		ok:      "已解析简历结构化信息",
		noData:  "简历解析未返回结果",
		failure: "简历解析失败",
	})
}

func (d *Dispatcher) poetry(ctx context.Context, text string, slots map[string]interface{}) Outcome {
	if text == "" {
		return Pending("诗人/诗词推荐需要输入内容", "可以说：推荐一句关于思乡的诗", slots)
	}
	if IsPoetryRecommendationQuery(text) {
		theme := d.pickTheme(PoetryThemes)
		text = fmt.Sprintf("请推荐一首关于%s的古诗，给出标题、作者、朝代、正文与主题。用户原话：%s", theme, text)
	}
	return d.analyze(ctx, analysis.DocumentPoetry, text, slots, documentMessages{
		ok:      "已解析诗词相关信息",
		noData:  "诗词解析未返回结果",
		failure: "诗词解析失败",
	})
}

func (d *Dispatcher) credit(ctx context.Context, text string, slots map[string]interface{}) Outcome {
	if !CreditHasDocumentBody(text) {
		return Pending("征信解析需要报告正文", "请粘贴征信报告文本（包含主体、报告类型等信息）", slots)
	}
	return d.analyze(ctx, analysis.DocumentCredit, text, slots, documentMessages{
		ok:      "已解析征信相关信息",
		noData:  "征信解析未返回结果",
		failure: "征信解析失败",
	})
}

func (d *Dispatcher) personality(text string, slots map[string]interface{}) Outcome {
	if !MBTIHasMinimumLength(text) {
		return Pending("性格测评需要更多自我描述", fmt.Sprintf("请至少输入 %d 个字的自我描述", MinMBTIRunes), slots)
	}
	result := d.mbti.Analyze(text)
	extracted := result.ToMapping()
	extracted["career_match"] = mbti.CareerMatchFor(result.Type).ToMapping()
	return OK("已完成职业人格分析", map[string]interface{}{"extracted": extracted}, slots)
}

type documentMessages struct {
	ok      string
	noData  string
	failure string
}

func (d *Dispatcher) analyze(ctx context.Context, docType analysis.DocumentType, text string, slots map[string]interface{}, msgs documentMessages) Outcome {
	if d.analyzer == nil {
		return Pending(msgs.noData, configHint, slots)
	}
	record, err := d.analyzer.Analyze(ctx, docType, text)
	if err != nil {
		return d.failed(string(docType), msgs.failure, err, slots)
	}
	if record == nil {
		return Pending(msgs.noData, configHint, slots)
	}
	return OK(msgs.ok, map[string]interface{}{"extracted": record.ToMapping()}, slots)
}

func (d *Dispatcher) failed(capability, message string, err error, slots map[string]interface{}) Outcome {
	d.logger.Warn("DISPATCH", message, map[string]interface{}{
		"capability": capability,
		"error":      err.Error(),
	})
	return Failed(message, safeerr.Message(err, configHint), slots)
}

// ResolveText picks the message text, falling back to slots "text" then "content".
func ResolveText(message string, slots map[string]interface{}) string {
	if t := strings.TrimSpace(message); t != "" {
		return t
	}
	for _, key := range []string{"text", "content"} {
		if s, ok := slots[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// ResolveResumeText prefers the request's resume_text over the slot value.
func ResolveResumeText(resumeText string, slots map[string]interface{}) string {
	if t := strings.TrimSpace(resumeText); t != "" {
		return t
	}
	if s, ok := slots["resume_text"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func randomTheme(themes []string) string {
	if len(themes) == 0 {
		return ""
	}
	return themes[rand.IntN(len(themes))]
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
