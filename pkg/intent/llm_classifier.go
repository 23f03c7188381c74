package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"
)

const defaultModelConfidence = 0.5

const classifierInstruction = "你是一个意图分类器。根据用户输入，输出且仅输出一个 JSON 对象，不要其他文字。" +
	"JSON 必须包含：\"intent\"（取值仅限: job_match, resume_upload, poetry, credit, mbti, unknown），" +
	"\"confidence\"（0 到 1 的浮点数），可选 \"slots\"（对象，如 {\"query\": \"...\"}）。" +
	"job_match=求职/职位匹配，resume_upload=上传或解析简历，poetry=诗词/诗人/陪伴/推荐诗句，credit=征信/信用报告/验证，mbti=人格测评/性格分析。"

// emptyInputPlaceholder is sent instead of an empty user turn.
const emptyInputPlaceholder = "（无输入）"

var errMissingIntent = errors.New("model reply has no intent field")

// LLMClassifier asks a chat model for {intent, confidence, slots}.
type LLMClassifier struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewLLMClassifier(provider llm.LLMProvider, log logger.ILogger) *LLMClassifier {
	return &LLMClassifier{provider: provider, logger: log}
}

// ClassifyByModel returns (nil, false) on any failure so the caller can fall
// back to keyword rules. It never panics.
func (c *LLMClassifier) ClassifyByModel(ctx context.Context, text string) (result *ClassificationResult, ok bool) {
	if c == nil || c.provider == nil {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("INTENT", "LLM classifier panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			result, ok = nil, false
		}
	}()

	userTurn := strings.TrimSpace(text)
	if userTurn == "" {
		userTurn = emptyInputPlaceholder
	}

	reply, err := c.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifierInstruction},
		{Role: llm.RoleUser, Content: userTurn},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		c.logger.Warn("INTENT", "LLM classification call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	parsed, err := parseModelReply(reply)
	if err != nil {
		c.logger.Warn("INTENT", "LLM classification reply unusable", map[string]interface{}{
			"error": err.Error(),
			"reply": truncate(reply, 200),
		})
		return nil, false
	}
	return parsed, true
}

func parseModelReply(reply string) (*ClassificationResult, error) {
	body := llm.ExtractJSON(reply)
	if body == "" {
		return nil, errors.New("no JSON object in reply")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	rawIntent, ok := fields["intent"]
	if !ok {
		return nil, errMissingIntent
	}
	var name string
	if err := json.Unmarshal(rawIntent, &name); err != nil {
		return nil, fmt.Errorf("intent is not a string: %w", err)
	}

	return &ClassificationResult{
		Intent:     Parse(name),
		Confidence: parseConfidence(fields["confidence"]),
		Slots:      parseSlots(fields["slots"]),
		Source:     SourceLLM,
	}, nil
}

// parseConfidence accepts a number or numeric string and clamps to [0,1].
func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return defaultModelConfidence
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return defaultModelConfidence
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return defaultModelConfidence
		}
		value = parsed
	}

	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}

// parseSlots keeps slots only when the model returned a JSON object.
func parseSlots(raw json.RawMessage) map[string]interface{} {
	slots := map[string]interface{}{}
	if len(raw) == 0 {
		return slots
	}
	if err := json.Unmarshal(raw, &slots); err != nil || slots == nil {
		return map[string]interface{}{}
	}
	return slots
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
