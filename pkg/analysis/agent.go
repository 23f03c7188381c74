package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"

	"github.com/xeipuuv/gojsonschema"
)

var ErrProviderNotConfigured = errors.New("no llm provider configured for document analysis")

var agentPrompts = map[DocumentType]string{
	DocumentResume: "你是一个简历解析器。根据用户提供的简历文本，提取并仅返回结构化信息：" +
		"姓名、学历或毕业院校、技能关键词（逗号分隔）、工作经历摘要。" +
		"只输出 JSON 对象，键为 name, education, skills, experience_summary，不要输出任何解释或前缀。",
	DocumentPoetry: "你是一个诗词/赏析解析器。根据用户提供的诗词、赏析文本或推荐请求，提取并仅返回结构化信息：" +
		"诗词标题、作者、朝代、正文或摘录句、主题或情感（如送别、思乡）。若用户请求推荐，请选一首合适的古诗填入。" +
		"只输出 JSON 对象，键为 title, author, dynasty, content, theme，不要输出任何解释或前缀。",
	DocumentCredit: "你是一个征信/信用文本解析器。根据用户提供的文本，提取并仅返回结构化信息：" +
		"主体名称、报告类型、摘要说明。只输出 JSON 对象，键为 entity_name, report_type, summary，不要输出任何解释或前缀。",
}

// documentAgent binds one document type to its prompt and output schema.
type documentAgent struct {
	docType      DocumentType
	systemPrompt string
	schema       *gojsonschema.Schema
}

type agentSlot struct {
	once  sync.Once
	agent *documentAgent
	err   error
}

// AgentAnalyzer runs one LLM agent per document type. Agents are built on
// first use and reused for the life of the process.
type AgentAnalyzer struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	slots    map[DocumentType]*agentSlot
}

var _ Analyzer = (*AgentAnalyzer)(nil)

func NewAgentAnalyzer(provider llm.LLMProvider, log logger.ILogger) *AgentAnalyzer {
	slots := make(map[DocumentType]*agentSlot, len(agentPrompts))
	for t := range agentPrompts {
		slots[t] = &agentSlot{}
	}
	return &AgentAnalyzer{provider: provider, logger: log, slots: slots}
}

func (a *AgentAnalyzer) Analyze(ctx context.Context, docType DocumentType, text string) (Record, error) {
	if a.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	agent, err := a.agentFor(docType)
	if err != nil {
		return nil, err
	}

	reply, err := a.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: agent.systemPrompt},
		{Role: llm.RoleUser, Content: text},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", docType, err)
	}

	body := llm.ExtractJSON(reply)
	if body == "" {
		return nil, fmt.Errorf("%s agent: reply is not a JSON object", docType)
	}
	if err := validateDocument(agent.schema, body); err != nil {
		return nil, fmt.Errorf("%s agent: %w", docType, err)
	}

	record, err := newRecord(docType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), record); err != nil {
		return nil, fmt.Errorf("%s agent: decode record: %w", docType, err)
	}

	a.logger.Debug("ANALYSIS", "Agent extraction completed", map[string]interface{}{
		"document_type": string(docType),
	})
	return record, nil
}

// agentFor builds the agent for docType exactly once, even under concurrent first use.
func (a *AgentAnalyzer) agentFor(docType DocumentType) (*documentAgent, error) {
	slot, ok := a.slots[docType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, docType)
	}
	slot.once.Do(func() {
		schema, err := compileSchema(recordSchemas[docType])
		if err != nil {
			slot.err = err
			return
		}
		slot.agent = &documentAgent{
			docType:      docType,
			systemPrompt: agentPrompts[docType],
			schema:       schema,
		}
	})
	return slot.agent, slot.err
}
