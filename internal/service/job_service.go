package service

import (
	"context"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/jobs"
	"ai-assistant-be/pkg/quota"
	"ai-assistant-be/pkg/safeerr"
)

const jobFailureHint = "请检查职位来源与模型 API Key 配置"

type IJobService interface {
	Match(ctx context.Context, p serverutils.Principal, req *dto.JobMatchRequest) (*dto.JobMatchResponse, error)
}

type jobService struct {
	gate        *quotaGate
	matcher     jobs.Matcher
	defaultTopN int
	logger      logger.ILogger
}

func NewJobService(ledger *quota.Ledger, matcher jobs.Matcher, publisher events.Publisher, defaultTopN int, log logger.ILogger) IJobService {
	return &jobService{
		gate:        &quotaGate{ledger: ledger, publisher: publisher, logger: log},
		matcher:     matcher,
		defaultTopN: defaultTopN,
		logger:      log,
	}
}

// Match consumes one job_match unit; pipeline failures are reported in the
// response body rather than as an error.
func (s *jobService) Match(ctx context.Context, p serverutils.Principal, req *dto.JobMatchRequest) (*dto.JobMatchResponse, error) {
	if err := s.gate.admit(ctx, p, quota.ResourceJobMatch); err != nil {
		return nil, err
	}

	requested := req.TopN
	if requested == 0 {
		requested = s.defaultTopN
	}
	topN := quota.ClampTopN(p.Tier, requested)

	results, evaluated, err := s.matcher.Match(ctx, req.ResumeText, topN, req.Source)
	if err != nil {
		s.logger.Warn("JOBS", "Job match failed", map[string]interface{}{
			"user_id": p.UserID,
			"error":   err.Error(),
		})
		return &dto.JobMatchResponse{
			Matches: []map[string]interface{}{},
			Error:   safeerr.Message(err, jobFailureHint),
		}, nil
	}

	matches := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		matches = append(matches, r.ToMapping())
	}
	return &dto.JobMatchResponse{Matches: matches, TotalEvaluated: evaluated}, nil
}
