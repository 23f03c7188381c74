package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	systems []string
}

func (p *scriptedProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(history) > 0 {
		p.systems = append(p.systems, history[0].Content)
	}
	return p.reply, p.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type staticAnalyzer struct {
	record Record
	err    error
	calls  int
}

func (s *staticAnalyzer) Analyze(context.Context, DocumentType, string) (Record, error) {
	s.calls++
	return s.record, s.err
}

func TestParseDocumentType(t *testing.T) {
	got, err := ParseDocumentType(" Resume ")
	require.NoError(t, err)
	assert.Equal(t, DocumentResume, got)

	_, err = ParseDocumentType("invoice")
	assert.ErrorIs(t, err, ErrUnsupportedDocumentType)
}

func TestRecords_ToMapping(t *testing.T) {
	resume := &ResumeRecord{Name: "张三", Education: "北京大学", Skills: "Go, SQL", ExperienceSummary: "5 年后端"}
	assert.Equal(t, map[string]interface{}{
		"name": "张三", "education": "北京大学", "skills": "Go, SQL", "experience_summary": "5 年后端",
	}, resume.ToMapping())

	poem := &PoetryRecord{Title: "静夜思", Author: "李白", Dynasty: "唐"}
	assert.Equal(t, "李白", poem.ToMapping()["author"])
	assert.Equal(t, DocumentPoetry, poem.DocumentType())

	credit := &CreditRecord{EntityName: "某公司", ReportType: "企业信用报告"}
	assert.Equal(t, DocumentCredit, credit.DocumentType())
	assert.Len(t, credit.ToMapping(), 3)
}

func TestAgentAnalyzer_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("typed record from fenced reply", func(t *testing.T) {
		p := &scriptedProvider{reply: "```json\n{\"title\":\"静夜思\",\"author\":\"李白\",\"dynasty\":\"唐\",\"content\":\"床前明月光\",\"theme\":\"思乡\"}\n```"}
		a := NewAgentAnalyzer(p, logger.NewNopLogger())

		rec, err := a.Analyze(ctx, DocumentPoetry, "床前明月光")
		require.NoError(t, err)
		poem, ok := rec.(*PoetryRecord)
		require.True(t, ok)
		assert.Equal(t, "李白", poem.Author)
		assert.Equal(t, "思乡", poem.Theme)
		assert.Contains(t, p.systems[0], "诗词")
	})

	t.Run("schema violation", func(t *testing.T) {
		p := &scriptedProvider{reply: `{"name":42}`}
		a := NewAgentAnalyzer(p, logger.NewNopLogger())

		_, err := a.Analyze(ctx, DocumentResume, "简历")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation")
	})

	t.Run("non json reply", func(t *testing.T) {
		a := NewAgentAnalyzer(&scriptedProvider{reply: "好的，这是你要的结果"}, logger.NewNopLogger())
		_, err := a.Analyze(ctx, DocumentCredit, "征信")
		assert.Error(t, err)
	})

	t.Run("provider error", func(t *testing.T) {
		a := NewAgentAnalyzer(&scriptedProvider{err: errors.New("timeout")}, logger.NewNopLogger())
		_, err := a.Analyze(ctx, DocumentCredit, "征信")
		assert.ErrorContains(t, err, "timeout")
	})

	t.Run("no provider", func(t *testing.T) {
		a := NewAgentAnalyzer(nil, logger.NewNopLogger())
		_, err := a.Analyze(ctx, DocumentResume, "x")
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("unsupported type", func(t *testing.T) {
		a := NewAgentAnalyzer(&scriptedProvider{reply: "{}"}, logger.NewNopLogger())
		_, err := a.Analyze(ctx, DocumentType("invoice"), "x")
		assert.ErrorIs(t, err, ErrUnsupportedDocumentType)
	})
}

func TestAgentAnalyzer_AgentsAreMemoized(t *testing.T) {
	a := NewAgentAnalyzer(&scriptedProvider{reply: `{"entity_name":"x"}`}, logger.NewNopLogger())

	var wg sync.WaitGroup
	agents := make([]*documentAgent, 20)
	for i := range agents {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agent, err := a.agentFor(DocumentCredit)
			assert.NoError(t, err)
			agents[i] = agent
		}(i)
	}
	wg.Wait()

	for _, agent := range agents {
		assert.Same(t, agents[0], agent)
	}
}

func TestSchemaExtractor(t *testing.T) {
	ctx := context.Background()
	schema, err := ParseExtractorSchema([]byte(`
document_types:
  resume:
    description: 提取简历
    fields:
      - {name: name, type: string, description: 姓名}
      - {name: years, type: integer, description: 年限}
  invoice:
    fields:
      - {name: amount, type: number}
  credit:
    description: 空字段
`))
	require.NoError(t, err)

	t.Run("extracts declared fields", func(t *testing.T) {
		p := &scriptedProvider{reply: `{"name":"李四","years":3}`}
		s := NewSchemaExtractorFromSchema(p, schema, logger.NewNopLogger())

		rec, err := s.Analyze(ctx, DocumentResume, "李四，3 年经验")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, DocumentResume, rec.DocumentType())
		assert.Equal(t, "李四", rec.ToMapping()["name"])
		assert.EqualValues(t, 3, rec.ToMapping()["years"])
		assert.Contains(t, p.systems[0], "字段说明")
	})

	t.Run("type without extractor yields nothing", func(t *testing.T) {
		p := &scriptedProvider{reply: `{}`}
		s := NewSchemaExtractorFromSchema(p, schema, logger.NewNopLogger())

		rec, err := s.Analyze(ctx, DocumentCredit, "征信")
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.Equal(t, 0, p.calls)
	})

	t.Run("field type mismatch", func(t *testing.T) {
		p := &scriptedProvider{reply: `{"name":"李四","years":"three"}`}
		s := NewSchemaExtractorFromSchema(p, schema, logger.NewNopLogger())

		_, err := s.Analyze(ctx, DocumentResume, "李四")
		assert.Error(t, err)
	})

	t.Run("no provider yields nothing", func(t *testing.T) {
		s := NewSchemaExtractorFromSchema(nil, schema, logger.NewNopLogger())
		rec, err := s.Analyze(ctx, DocumentResume, "李四")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestSchemaExtractor_LoadsFileLazily(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extractors.yaml")
	p := &scriptedProvider{reply: `{"entity_name":"某公司","report_type":"企业","summary":"良好"}`}
	s := NewSchemaExtractor(p, path, logger.NewNopLogger())

	// Written after construction: the file is only read on first use.
	require.NoError(t, os.WriteFile(path, []byte(`
document_types:
  credit:
    fields:
      - {name: entity_name, type: string}
      - {name: report_type, type: string}
      - {name: summary, type: string}
`), 0o600))

	rec, err := s.Analyze(context.Background(), DocumentCredit, "主体：某公司")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "某公司", rec.ToMapping()["entity_name"])
}

func TestSchemaExtractor_MissingFile(t *testing.T) {
	s := NewSchemaExtractor(&scriptedProvider{reply: "{}"}, "/nonexistent/extractors.yaml", logger.NewNopLogger())
	rec, err := s.Analyze(context.Background(), DocumentResume, "x")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestShippedExtractorSchemaParses(t *testing.T) {
	schema, err := LoadExtractorSchema(filepath.Join("..", "..", "configs", "extractors.yaml"))
	require.NoError(t, err)
	for _, name := range []string{"resume", "poetry", "credit"} {
		assert.NotEmpty(t, schema.DocumentTypes[name].Fields, name)
	}
}

func TestFailoverAnalyzer(t *testing.T) {
	ctx := context.Background()
	resume := &ResumeRecord{Name: "王五"}
	fallback := &FieldRecord{Type: DocumentResume, Fields: map[string]interface{}{"name": "王五"}}

	t.Run("primary success", func(t *testing.T) {
		primary := &staticAnalyzer{record: resume}
		secondary := &staticAnalyzer{record: fallback}
		f := NewFailoverAnalyzer(primary, secondary, "agent", logger.NewNopLogger())

		rec, err := f.Analyze(ctx, DocumentResume, "x")
		require.NoError(t, err)
		assert.Same(t, resume, rec)
		assert.Equal(t, 0, secondary.calls)
	})

	t.Run("primary error falls through", func(t *testing.T) {
		primary := &staticAnalyzer{err: errors.New("bad json")}
		secondary := &staticAnalyzer{record: fallback}
		f := NewFailoverAnalyzer(primary, secondary, "", logger.NewNopLogger())

		rec, err := f.Analyze(ctx, DocumentResume, "x")
		require.NoError(t, err)
		assert.Same(t, fallback, rec)
	})

	t.Run("primary nil record is final", func(t *testing.T) {
		primary := &staticAnalyzer{}
		secondary := &staticAnalyzer{record: fallback}
		f := NewFailoverAnalyzer(primary, secondary, "agent", logger.NewNopLogger())

		rec, err := f.Analyze(ctx, DocumentResume, "x")
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.Equal(t, 0, secondary.calls)
	})

	t.Run("schema backend skips primary", func(t *testing.T) {
		primary := &staticAnalyzer{record: resume}
		secondary := &staticAnalyzer{record: fallback}
		f := NewFailoverAnalyzer(primary, secondary, "schema", logger.NewNopLogger())

		rec, err := f.Analyze(ctx, DocumentResume, "x")
		require.NoError(t, err)
		assert.Same(t, fallback, rec)
		assert.Equal(t, 0, primary.calls)
	})

	t.Run("no secondary propagates primary error", func(t *testing.T) {
		f := NewFailoverAnalyzer(&staticAnalyzer{err: errors.New("boom")}, nil, "agent", logger.NewNopLogger())
		_, err := f.Analyze(ctx, DocumentResume, "x")
		assert.EqualError(t, err, "boom")
	})
}
