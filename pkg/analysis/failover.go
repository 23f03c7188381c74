package analysis

import (
	"context"
	"strings"

	"ai-assistant-be/internal/pkg/logger"
)

const (
	BackendAgent  = "agent"
	BackendSchema = "schema"
)

// FailoverAnalyzer prefers the agent backend and drops to the schema
// extractor when the agent errors. Backend "schema" skips the agent entirely.
type FailoverAnalyzer struct {
	primary   Analyzer
	secondary Analyzer
	backend   string
	logger    logger.ILogger
}

var _ Analyzer = (*FailoverAnalyzer)(nil)

func NewFailoverAnalyzer(primary, secondary Analyzer, backend string, log logger.ILogger) *FailoverAnalyzer {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend != BackendSchema {
		backend = BackendAgent
	}
	return &FailoverAnalyzer{
		primary:   primary,
		secondary: secondary,
		backend:   backend,
		logger:    log,
	}
}

func (f *FailoverAnalyzer) Analyze(ctx context.Context, docType DocumentType, text string) (Record, error) {
	if f.backend == BackendAgent && f.primary != nil {
		record, err := f.primary.Analyze(ctx, docType, text)
		if err == nil {
			return record, nil
		}
		if f.secondary == nil {
			return nil, err
		}
		f.logger.Warn("ANALYSIS", "Agent backend failed, trying schema extractor", map[string]interface{}{
			"document_type": string(docType),
			"error":         err.Error(),
		})
	}
	if f.secondary == nil {
		return nil, nil
	}
	return f.secondary.Analyze(ctx, docType, text)
}
