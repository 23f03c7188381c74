package service

import (
	"context"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/dispatch"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/intent"
	"ai-assistant-be/pkg/quota"

	"github.com/google/uuid"
)

const (
	unknownSuggestion   = "可以说：帮我匹配职位、上传简历、推荐一句诗 等"
	maxHistoryLimit     = 100
	defaultHistoryLimit = 20
)

type IntentRouter interface {
	ParseIntent(ctx context.Context, text string) intent.ClassificationResult
}

type CapabilityDispatcher interface {
	Dispatch(ctx context.Context, in intent.Intent, input dispatch.Input) dispatch.Outcome
}

type IAssistantService interface {
	Ask(ctx context.Context, p serverutils.Principal, req *dto.AskRequest) (*dto.AskResponse, error)
	History(ctx context.Context, p serverutils.Principal, q *dto.HistoryQuery) (*dto.HistoryResponse, error)
}

type assistantService struct {
	gate        *quotaGate
	router      IntentRouter
	dispatcher  CapabilityDispatcher
	records     contract.AskRecordRepository
	publisher   events.Publisher
	defaultTopN int
	logger      logger.ILogger
}

// NewAssistantService wires the single-entry assistant. records and
// publisher are optional.
func NewAssistantService(
	ledger *quota.Ledger,
	router IntentRouter,
	dispatcher CapabilityDispatcher,
	records contract.AskRecordRepository,
	publisher events.Publisher,
	defaultTopN int,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		gate:        &quotaGate{ledger: ledger, publisher: publisher, logger: log},
		router:      router,
		dispatcher:  dispatcher,
		records:     records,
		publisher:   publisher,
		defaultTopN: defaultTopN,
		logger:      log,
	}
}

func (s *assistantService) Ask(ctx context.Context, p serverutils.Principal, req *dto.AskRequest) (*dto.AskResponse, error) {
	if err := s.gate.admit(ctx, p, quota.ResourceAsk); err != nil {
		return nil, err
	}

	classification := s.router.ParseIntent(ctx, req.Message)
	outcome := s.dispatcher.Dispatch(ctx, classification.Intent, dispatch.Input{
		Text:       req.Message,
		ResumeText: req.ResumeText,
		TopN:       quota.ClampTopN(p.Tier, s.defaultTopN),
		Slots:      classification.Slots,
	})

	result := outcome.ToMap()
	result["confidence"] = classification.Confidence

	suggestions := []string{}
	if classification.Intent == intent.Unknown {
		suggestions = append(suggestions, unknownSuggestion)
	}

	s.logger.Info("ASSISTANT", "Ask handled", map[string]interface{}{
		"user_id": p.UserID,
		"intent":  string(classification.Intent),
		"source":  string(classification.Source),
		"status":  string(outcome.Status),
	})
	s.record(ctx, p, classification, outcome, result)

	return &dto.AskResponse{
		Intent:      string(classification.Intent),
		Result:      result,
		Suggestions: suggestions,
	}, nil
}

// record persists and announces the handled request. Neither step may
// change the response.
func (s *assistantService) record(ctx context.Context, p serverutils.Principal, c intent.ClassificationResult, o dispatch.Outcome, result map[string]interface{}) {
	now := time.Now()
	if s.records != nil {
		rec := &entity.AskRecord{
			Id:         uuid.New(),
			UserId:     p.UserID,
			Tier:       string(p.Tier),
			Intent:     string(c.Intent),
			Source:     string(c.Source),
			Confidence: c.Confidence,
			Status:     string(o.Status),
			Message:    o.Message,
			Result:     result,
			CreatedAt:  now,
		}
		if err := s.records.Create(ctx, rec); err != nil {
			s.logger.Warn("ASSISTANT", "Failed to store ask record", map[string]interface{}{
				"user_id": p.UserID,
				"error":   err.Error(),
			})
		}
	}

	publishBestEffort(ctx, s.publisher, s.logger, events.BaseEvent{
		Type: events.IntentDispatched,
		Data: map[string]interface{}{
			"user_id":    p.UserID,
			"tier":       string(p.Tier),
			"intent":     string(c.Intent),
			"source":     string(c.Source),
			"confidence": c.Confidence,
			"status":     string(o.Status),
		},
		OccurredAt: now,
	})
}

func (s *assistantService) History(ctx context.Context, p serverutils.Principal, q *dto.HistoryQuery) (*dto.HistoryResponse, error) {
	if p.UserID == "" {
		return nil, ErrMissingIdentity
	}
	res := &dto.HistoryResponse{Records: []dto.AskRecordResponse{}}
	if s.records == nil {
		return res, nil
	}

	limit := q.Limit
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	filters := []specification.Specification{specification.ByUserID{UserID: p.UserID}}
	if q.Intent != "" {
		filters = append(filters, specification.ByIntent{Intent: q.Intent})
	}

	total, err := s.records.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)...)
	if err != nil {
		return nil, err
	}

	res.Total = total
	for _, r := range records {
		res.Records = append(res.Records, dto.AskRecordResponse{
			Id:         r.Id,
			Intent:     r.Intent,
			Source:     r.Source,
			Confidence: r.Confidence,
			Status:     r.Status,
			Message:    r.Message,
			CreatedAt:  r.CreatedAt,
		})
	}
	return res, nil
}
