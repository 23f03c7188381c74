package analysis

import (
	"errors"
	"fmt"
	"strings"
)

type DocumentType string

const (
	DocumentResume DocumentType = "resume"
	DocumentPoetry DocumentType = "poetry"
	DocumentCredit DocumentType = "credit"
)

var ErrUnsupportedDocumentType = errors.New("unsupported document type")

// ParseDocumentType accepts resume, poetry and credit in any case.
func ParseDocumentType(raw string) (DocumentType, error) {
	switch t := DocumentType(strings.ToLower(strings.TrimSpace(raw))); t {
	case DocumentResume, DocumentPoetry, DocumentCredit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q, expected resume / poetry / credit", ErrUnsupportedDocumentType, raw)
	}
}

// Record is a structured extraction result. ToMapping is the wire form.
type Record interface {
	DocumentType() DocumentType
	ToMapping() map[string]interface{}
}

type ResumeRecord struct {
	Name              string `json:"name"`
	Education         string `json:"education"`
	Skills            string `json:"skills"`
	ExperienceSummary string `json:"experience_summary"`
}

func (r *ResumeRecord) DocumentType() DocumentType { return DocumentResume }

func (r *ResumeRecord) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"name":               r.Name,
		"education":          r.Education,
		"skills":             r.Skills,
		"experience_summary": r.ExperienceSummary,
	}
}

type PoetryRecord struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Dynasty string `json:"dynasty"`
	Content string `json:"content"`
	Theme   string `json:"theme"`
}

func (r *PoetryRecord) DocumentType() DocumentType { return DocumentPoetry }

func (r *PoetryRecord) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"title":   r.Title,
		"author":  r.Author,
		"dynasty": r.Dynasty,
		"content": r.Content,
		"theme":   r.Theme,
	}
}

type CreditRecord struct {
	EntityName string `json:"entity_name"`
	ReportType string `json:"report_type"`
	Summary    string `json:"summary"`
}

func (r *CreditRecord) DocumentType() DocumentType { return DocumentCredit }

func (r *CreditRecord) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"entity_name": r.EntityName,
		"report_type": r.ReportType,
		"summary":     r.Summary,
	}
}

// FieldRecord carries extractor output whose fields come from a schema file.
type FieldRecord struct {
	Type   DocumentType
	Fields map[string]interface{}
}

func (r *FieldRecord) DocumentType() DocumentType { return r.Type }

func (r *FieldRecord) ToMapping() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields))
	for k, v := range r.Fields {
		out[k] = v
	}
	return out
}

func newRecord(t DocumentType) (Record, error) {
	switch t {
	case DocumentResume:
		return &ResumeRecord{}, nil
	case DocumentPoetry:
		return &PoetryRecord{}, nil
	case DocumentCredit:
		return &CreditRecord{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, t)
	}
}
