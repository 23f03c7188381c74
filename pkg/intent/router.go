package intent

import (
	"context"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/metrics"
)

const (
	ruleMatchConfidence   = 0.8
	ruleUnknownConfidence = 0.3
)

// ModelClassifier is the primary classification path.
type ModelClassifier interface {
	ClassifyByModel(ctx context.Context, text string) (*ClassificationResult, bool)
}

// Router picks the model result when enabled and usable, keyword rules otherwise.
type Router struct {
	model      ModelClassifier
	llmEnabled bool
	logger     logger.ILogger
}

func NewRouter(model ModelClassifier, llmEnabled bool, log logger.ILogger) *Router {
	return &Router{
		model:      model,
		llmEnabled: llmEnabled && model != nil,
		logger:     log,
	}
}

// ParseIntent always yields a result; there is no retry on the model path.
func (r *Router) ParseIntent(ctx context.Context, text string) ClassificationResult {
	if r.llmEnabled {
		if res, ok := r.model.ClassifyByModel(ctx, text); ok && res != nil {
			if res.Slots == nil {
				res.Slots = map[string]interface{}{}
			}
			res.Source = SourceLLM
			metrics.IntentClassifications.WithLabelValues(string(res.Intent), string(SourceLLM)).Inc()
			return *res
		}
		metrics.LLMClassifierFailures.Inc()
		r.logger.Info("INTENT", "Falling back to keyword rules", nil)
	}

	matched := ClassifyByKeywords(text)
	confidence := ruleMatchConfidence
	if matched == Unknown {
		confidence = ruleUnknownConfidence
	}
	metrics.IntentClassifications.WithLabelValues(string(matched), string(SourceRules)).Inc()

	return ClassificationResult{
		Intent:     matched,
		Confidence: confidence,
		Slots:      map[string]interface{}{},
		Source:     SourceRules,
	}
}
