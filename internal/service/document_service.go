package service

import (
	"context"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/pkg/analysis"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/quota"
	"ai-assistant-be/pkg/safeerr"
)

const analysisFailureHint = "请检查模型 API Key 与文档解析后端配置"

type IDocumentService interface {
	Analyze(ctx context.Context, p serverutils.Principal, req *dto.DocumentAnalyzeRequest) (*dto.DocumentAnalyzeResponse, error)
}

type documentService struct {
	gate     *quotaGate
	analyzer analysis.Analyzer
	logger   logger.ILogger
}

func NewDocumentService(ledger *quota.Ledger, analyzer analysis.Analyzer, publisher events.Publisher, log logger.ILogger) IDocumentService {
	return &documentService{
		gate:     &quotaGate{ledger: ledger, publisher: publisher, logger: log},
		analyzer: analyzer,
		logger:   log,
	}
}

// Analyze extracts structured fields. Only resumes count against a quota,
// and nothing is consumed while no analyzer is configured.
func (s *documentService) Analyze(ctx context.Context, p serverutils.Principal, req *dto.DocumentAnalyzeRequest) (*dto.DocumentAnalyzeResponse, error) {
	if p.UserID == "" {
		return nil, ErrMissingIdentity
	}
	docType, err := analysis.ParseDocumentType(req.DocumentType)
	if err != nil {
		return nil, err
	}
	res := &dto.DocumentAnalyzeResponse{DocumentType: string(docType)}
	if s.analyzer == nil {
		res.Error = "结构化提取失败: " + analysisFailureHint
		return res, nil
	}

	if docType == analysis.DocumentResume {
		if err := s.gate.admit(ctx, p, quota.ResourceResumeParse); err != nil {
			return nil, err
		}
	}

	record, err := s.analyzer.Analyze(ctx, docType, req.Text)
	if err != nil {
		s.logger.Warn("ANALYSIS", "Document analysis failed", map[string]interface{}{
			"document_type": string(docType),
			"error":         err.Error(),
		})
		res.Error = "结构化提取失败: " + safeerr.Message(err, analysisFailureHint)
		return res, nil
	}
	if record != nil {
		res.Extracted = record.ToMapping()
	}
	return res, nil
}
