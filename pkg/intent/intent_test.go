package intent

import (
	"context"
	"errors"
	"testing"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply   string
	err     error
	panics  bool
	calls   int
	history []llm.Message
}

func (s *stubProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.calls++
	s.history = history
	if s.panics {
		panic("provider exploded")
	}
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"job match", "帮我匹配一下职位", JobMatch},
		{"job search", "我想找工作", JobMatch},
		{"resume upload", "我要上传简历", ResumeUpload},
		{"resume parse", "解析简历", ResumeUpload},
		{"poetry", "想读一首古诗", Poetry},
		{"comfort", "需要一点安慰", Poetry},
		{"credit", "帮我查下征信", Credit},
		{"verification", "做一下验证", Credit},
		{"mbti upper", "MBTI 测一下", MBTI},
		{"mbti lower", "我的mbti是什么", MBTI},
		{"personality", "分析我的性格", MBTI},
		{"no trigger", "今天天气怎么样", Unknown},
		{"empty", "   ", Unknown},
		// "推荐" belongs to job_match and is checked first.
		{"recommend collision", "推荐一句诗", JobMatch},
		// job_match outranks resume_upload when both appear.
		{"priority order", "用简历匹配职位", JobMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyByKeywords(tt.text))
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, Poetry, Parse(" Poetry "))
	assert.Equal(t, Unknown, Parse("weather"))
	assert.Equal(t, Unknown, Parse(""))
}

func TestLLMClassifier_ClassifyByModel(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		wantOK   bool
		want     Intent
		wantConf float64
		wantSlot map[string]interface{}
	}{
		{
			name:     "plain json",
			reply:    `{"intent":"credit","confidence":0.92,"slots":{"query":"征信"}}`,
			wantOK:   true,
			want:     Credit,
			wantConf: 0.92,
			wantSlot: map[string]interface{}{"query": "征信"},
		},
		{
			name:     "fenced json",
			reply:    "```json\n{\"intent\":\"poetry\",\"confidence\":0.9}\n```",
			wantOK:   true,
			want:     Poetry,
			wantConf: 0.9,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "intent outside closed set",
			reply:    `{"intent":"weather","confidence":0.7}`,
			wantOK:   true,
			want:     Unknown,
			wantConf: 0.7,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "missing confidence defaults",
			reply:    `{"intent":"MBTI"}`,
			wantOK:   true,
			want:     MBTI,
			wantConf: 0.5,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "confidence clamped",
			reply:    `{"intent":"mbti","confidence":7}`,
			wantOK:   true,
			want:     MBTI,
			wantConf: 1,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "string confidence",
			reply:    `{"intent":"mbti","confidence":"0.25"}`,
			wantOK:   true,
			want:     MBTI,
			wantConf: 0.25,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "non object slots dropped",
			reply:    `{"intent":"job_match","confidence":0.6,"slots":["a","b"]}`,
			wantOK:   true,
			want:     JobMatch,
			wantConf: 0.6,
			wantSlot: map[string]interface{}{},
		},
		{
			name:     "prose around object is tolerated",
			reply:    `Sure: {"intent":"poetry"} hope this helps`,
			wantOK:   true,
			want:     Poetry,
			wantConf: 0.5,
			wantSlot: map[string]interface{}{},
		},
		{name: "malformed", reply: "not json", wantOK: false},
		{name: "prose with broken object", reply: `Sure: {"intent": poetry}`, wantOK: false},
		{name: "missing intent", reply: `{"confidence":0.9}`, wantOK: false},
		{name: "intent not a string", reply: `{"intent":3}`, wantOK: false},
		{name: "transport error", err: errors.New("connection refused"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{reply: tt.reply, err: tt.err}
			c := NewLLMClassifier(provider, logger.NewNopLogger())

			res, ok := c.ClassifyByModel(context.Background(), "随便说点什么")
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Intent)
			assert.InDelta(t, tt.wantConf, res.Confidence, 1e-9)
			assert.Equal(t, tt.wantSlot, res.Slots)
			assert.Equal(t, SourceLLM, res.Source)
		})
	}
}

func TestLLMClassifier_SendsPlaceholderForEmptyInput(t *testing.T) {
	provider := &stubProvider{reply: `{"intent":"unknown"}`}
	c := NewLLMClassifier(provider, logger.NewNopLogger())

	_, ok := c.ClassifyByModel(context.Background(), "   ")
	require.True(t, ok)
	require.Len(t, provider.history, 2)
	assert.Equal(t, llm.RoleSystem, provider.history[0].Role)
	assert.Equal(t, emptyInputPlaceholder, provider.history[1].Content)
}

func TestLLMClassifier_RecoversFromPanic(t *testing.T) {
	c := NewLLMClassifier(&stubProvider{panics: true}, logger.NewNopLogger())
	res, ok := c.ClassifyByModel(context.Background(), "hi")
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestRouter_ParseIntent(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	t.Run("model result used verbatim", func(t *testing.T) {
		provider := &stubProvider{reply: `{"intent":"poetry","confidence":0.9,"slots":{"theme":"思乡"}}`}
		r := NewRouter(NewLLMClassifier(provider, log), true, log)

		res := r.ParseIntent(ctx, "推荐一句诗")
		assert.Equal(t, Poetry, res.Intent)
		assert.Equal(t, 0.9, res.Confidence)
		assert.Equal(t, map[string]interface{}{"theme": "思乡"}, res.Slots)
		assert.Equal(t, SourceLLM, res.Source)
	})

	t.Run("malformed reply falls back to rules", func(t *testing.T) {
		provider := &stubProvider{reply: "not json"}
		r := NewRouter(NewLLMClassifier(provider, log), true, log)

		res := r.ParseIntent(ctx, "帮我查征信")
		assert.Equal(t, Credit, res.Intent)
		assert.Equal(t, 0.8, res.Confidence)
		assert.Empty(t, res.Slots)
		assert.Equal(t, SourceRules, res.Source)
		assert.Equal(t, 1, provider.calls, "no retry on model failure")
	})

	t.Run("disabled never calls the model", func(t *testing.T) {
		provider := &stubProvider{reply: `{"intent":"poetry"}`}
		r := NewRouter(NewLLMClassifier(provider, log), false, log)

		res := r.ParseIntent(ctx, "今天天气")
		assert.Equal(t, Unknown, res.Intent)
		assert.Equal(t, 0.3, res.Confidence)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("nil classifier means rules only", func(t *testing.T) {
		r := NewRouter(nil, true, log)
		res := r.ParseIntent(ctx, "上传简历")
		assert.Equal(t, ResumeUpload, res.Intent)
		assert.Equal(t, SourceRules, res.Source)
	})
}
