package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ExtractorSchema is the on-disk description of extractable document types.
//
//	document_types:
//	  resume:
//	    description: 从简历中提取候选人信息
//	    fields:
//	      - {name: name, type: string, description: 姓名}
type ExtractorSchema struct {
	DocumentTypes map[string]DocumentSpec `yaml:"document_types"`
}

type DocumentSpec struct {
	Description string      `yaml:"description"`
	Fields      []FieldSpec `yaml:"fields"`
}

type FieldSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

func LoadExtractorSchema(path string) (*ExtractorSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extractor schema: %w", err)
	}
	return ParseExtractorSchema(raw)
}

func ParseExtractorSchema(raw []byte) (*ExtractorSchema, error) {
	var schema ExtractorSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse extractor schema: %w", err)
	}
	if schema.DocumentTypes == nil {
		schema.DocumentTypes = map[string]DocumentSpec{}
	}
	return &schema, nil
}

type compiledExtractor struct {
	instruction string
	validator   *gojsonschema.Schema
}

// SchemaExtractor is the secondary backend: extraction functions are derived
// from a schema file on first use rather than hand-written per type.
type SchemaExtractor struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	load     func() (*ExtractorSchema, error)

	once       sync.Once
	extractors map[DocumentType]*compiledExtractor
}

var _ Analyzer = (*SchemaExtractor)(nil)

// NewSchemaExtractor defers reading path until the first Analyze call.
func NewSchemaExtractor(provider llm.LLMProvider, path string, log logger.ILogger) *SchemaExtractor {
	return &SchemaExtractor{
		provider: provider,
		logger:   log,
		load: func() (*ExtractorSchema, error) {
			if strings.TrimSpace(path) == "" {
				return &ExtractorSchema{DocumentTypes: map[string]DocumentSpec{}}, nil
			}
			return LoadExtractorSchema(path)
		},
	}
}

func NewSchemaExtractorFromSchema(provider llm.LLMProvider, schema *ExtractorSchema, log logger.ILogger) *SchemaExtractor {
	return &SchemaExtractor{
		provider: provider,
		logger:   log,
		load:     func() (*ExtractorSchema, error) { return schema, nil },
	}
}

// Analyze returns (nil, nil) when the type has no extractor or no model is configured.
func (s *SchemaExtractor) Analyze(ctx context.Context, docType DocumentType, text string) (Record, error) {
	s.once.Do(s.produce)

	extractor, ok := s.extractors[docType]
	if !ok || s.provider == nil {
		return nil, nil
	}

	reply, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractor.instruction},
		{Role: llm.RoleUser, Content: text},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", docType, err)
	}

	body := llm.ExtractJSON(reply)
	if body == "" {
		return nil, nil
	}
	if err := validateDocument(extractor.validator, body); err != nil {
		return nil, fmt.Errorf("extract %s: %w", docType, err)
	}

	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("extract %s: decode: %w", docType, err)
	}
	return &FieldRecord{Type: docType, Fields: fields}, nil
}

func (s *SchemaExtractor) produce() {
	s.extractors = map[DocumentType]*compiledExtractor{}

	schema, err := s.load()
	if err != nil {
		s.logger.Error("ANALYSIS", "Failed to load extractor schema", map[string]interface{}{
			"error": err,
		})
		return
	}

	for name, spec := range schema.DocumentTypes {
		docType, err := ParseDocumentType(name)
		if err != nil || len(spec.Fields) == 0 {
			s.logger.Warn("ANALYSIS", "Skipping extractor definition", map[string]interface{}{
				"document_type": name,
			})
			continue
		}
		validator, err := compileSchema(fieldsSchema(spec.Fields))
		if err != nil {
			s.logger.Error("ANALYSIS", "Invalid extractor fields", map[string]interface{}{
				"document_type": name,
				"error":         err,
			})
			continue
		}
		s.extractors[docType] = &compiledExtractor{
			instruction: extractorInstruction(docType, spec),
			validator:   validator,
		}
	}

	s.logger.Info("ANALYSIS", "Schema extractors produced", map[string]interface{}{
		"count": len(s.extractors),
	})
}

func extractorInstruction(docType DocumentType, spec DocumentSpec) string {
	description := spec.Description
	if description == "" {
		description = fmt.Sprintf("从文本中提取%s相关信息", docType)
	}
	parts := make([]string, len(spec.Fields))
	keys := make([]string, len(spec.Fields))
	for i, f := range spec.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Description)
		keys[i] = f.Name
	}
	return description + "。字段说明：" + strings.Join(parts, "；") +
		"。只输出一个 JSON 对象，键为 " + strings.Join(keys, ", ") + "。"
}

func fieldsSchema(fields []FieldSpec) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f.Name] = map[string]interface{}{"type": []string{jsonType(f.Type), "null"}}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
}

func jsonType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "int", "integer":
		return "integer"
	case "float", "number":
		return "number"
	case "bool", "boolean":
		return "boolean"
	default:
		return "string"
	}
}
