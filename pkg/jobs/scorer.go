package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/metrics"
	"ai-assistant-be/pkg/safeerr"
)

const (
	maxResumeRunes      = 8000
	maxDescriptionRunes = 4000
	maxFitBullets       = 5
)

const scorerInstruction = "你是一个职位匹配评分员。根据「简历」与「职位描述」两段文本，从以下维度打分并只输出 JSON 对象，不要输出任何解释或前缀。\n" +
	"维度与范围：\n" +
	"- background_match: 领域/背景匹配 0–10\n" +
	"- skills_overlap: 技能重叠 0–30\n" +
	"- experience_relevance: 经历相关性 0–30\n" +
	"- seniority: 职级匹配 0–10\n" +
	"- language_requirement: 语言要求匹配 0–10\n" +
	"- company_score: 公司/岗位吸引力 0–10\n" +
	"- overall: 综合分 0–100，为上述各项之和\n" +
	"同时填写 summary（一句话匹配摘要）、keywords（匹配关键词列表）、fit_bullets（匹配要点列表，最多 5 条）。"

const scoreFailureHint = "请检查模型 API Key 配置"

// Scorer rates one resume against one job description. It never fails:
// problems are reported through a zero score and its Summary.
type Scorer interface {
	Score(ctx context.Context, resumeText, jobDescription string) MatchScore
}

type LLMScorer struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewLLMScorer(provider llm.LLMProvider, log logger.ILogger) *LLMScorer {
	return &LLMScorer{provider: provider, logger: log}
}

func (s *LLMScorer) Score(ctx context.Context, resumeText, jobDescription string) MatchScore {
	start := time.Now()
	defer func() {
		metrics.JobScoreDuration.Observe(time.Since(start).Seconds())
	}()

	score, err := s.score(ctx, resumeText, jobDescription)
	if err != nil {
		s.logger.Warn("JOBS", "Job scoring failed", map[string]interface{}{
			"error": err.Error(),
		})
		return failedScore(err)
	}
	return score
}

func (s *LLMScorer) score(ctx context.Context, resumeText, jobDescription string) (MatchScore, error) {
	if s.provider == nil {
		return MatchScore{}, errors.New("no llm provider configured for job scoring")
	}

	userTurn := fmt.Sprintf("【简历】\n%s\n\n【职位描述】\n%s",
		truncateRunes(resumeText, maxResumeRunes), truncateRunes(jobDescription, maxDescriptionRunes))

	reply, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: scorerInstruction},
		{Role: llm.RoleUser, Content: userTurn},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		return MatchScore{}, err
	}

	body := llm.ExtractJSON(reply)
	if body == "" {
		return MatchScore{}, errors.New("score reply is not a JSON object")
	}
	var score MatchScore
	if err := json.Unmarshal([]byte(body), &score); err != nil {
		return MatchScore{}, fmt.Errorf("decode score: %w", err)
	}
	return normalize(score), nil
}

// normalize clamps every dimension into its documented range.
func normalize(s MatchScore) MatchScore {
	s.Overall = clamp(s.Overall, 100)
	s.BackgroundMatch = clamp(s.BackgroundMatch, 10)
	s.SkillsOverlap = clamp(s.SkillsOverlap, 30)
	s.ExperienceRelevance = clamp(s.ExperienceRelevance, 30)
	s.Seniority = clamp(s.Seniority, 10)
	s.LanguageRequirement = clamp(s.LanguageRequirement, 10)
	s.CompanyScore = clamp(s.CompanyScore, 10)
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.FitBullets == nil {
		s.FitBullets = []string{}
	}
	if len(s.FitBullets) > maxFitBullets {
		s.FitBullets = s.FitBullets[:maxFitBullets]
	}
	return s
}

func failedScore(err error) MatchScore {
	return MatchScore{
		Summary:    "打分失败: " + safeerr.Message(err, scoreFailureHint),
		Keywords:   []string{},
		FitBullets: []string{},
	}
}

func clamp(v, ceiling int) int {
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
