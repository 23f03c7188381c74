package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SourceMock   = "mock"
	SourceApify  = "apify_linkedin"
	apifyBaseURL = "https://api.apify.com/v2"

	// DefaultApifyActorID is a LinkedIn jobs scraper actor; override via config.
	DefaultApifyActorID = "bHzefUZlZRKWxkTck"
)

// Source fetches postings to be scored.
type Source interface {
	ID() string
	FetchJobs(ctx context.Context, limit int) ([]JobInfo, error)
}

type MockSource struct{}

func (MockSource) ID() string { return SourceMock }

func (MockSource) FetchJobs(_ context.Context, limit int) ([]JobInfo, error) {
	jobs := []JobInfo{
		{
			Title:       "Python 后端工程师",
			Company:     "某科技公司",
			URL:         "https://example.com/job/1",
			Location:    "北京 / 远程",
			Description: "负责后端服务开发，要求熟悉 Python、FastAPI、数据库，有 AI/LLM 相关经验优先。",
			Source:      SourceMock,
		},
		{
			Title:       "机器学习工程师",
			Company:     "某 AI 实验室",
			URL:         "https://example.com/job/2",
			Location:    "上海",
			Description: "参与 NLP/多模态模型研发与落地，要求 PyTorch、Python，有简历解析或 RAG 经验加分。",
			Source:      SourceMock,
		},
		{
			Title:       "全栈开发工程师",
			Company:     "某创业公司",
			URL:         "https://example.com/job/3",
			Location:    "深圳",
			Description: "前后端开发，技术栈 React + Python，有自动化/爬虫经验优先。",
			Source:      SourceMock,
		},
		{
			Title:       "数据工程师",
			Company:     "某互联网公司",
			URL:         "https://example.com/job/4",
			Location:    "杭州",
			Description: "数据管道与数仓建设，SQL、Spark、Python，有求职/招聘领域数据经验优先。",
			Source:      SourceMock,
		},
		{
			Title:       "产品经理（AI 方向）",
			Company:     "某 SaaS 公司",
			URL:         "https://example.com/job/5",
			Location:    "远程",
			Description: "AI 产品规划与需求，懂技术沟通，有 B 端或招聘/HR 产品经验优先。",
			Source:      SourceMock,
		},
	}
	if limit >= 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// ApifySource runs a LinkedIn scraper actor synchronously and reads its dataset.
// Without a token it returns no jobs rather than an error.
type ApifySource struct {
	Token          string
	ActorID        string
	SearchKeywords string
	MaxItems       int
	BaseURL        string
	Client         *http.Client
}

func NewApifySource(token, actorID string) *ApifySource {
	if strings.TrimSpace(actorID) == "" {
		actorID = DefaultApifyActorID
	}
	return &ApifySource{
		Token:          strings.TrimSpace(token),
		ActorID:        strings.TrimSpace(actorID),
		SearchKeywords: "Python developer",
		MaxItems:       20,
		BaseURL:        apifyBaseURL,
		Client:         &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *ApifySource) ID() string { return SourceApify }

type apifyItem struct {
	Title          string `json:"title"`
	Position       string `json:"position"`
	CompanyName    string `json:"companyName"`
	Company        string `json:"company"`
	URL            string `json:"url"`
	Link           string `json:"link"`
	Location       string `json:"location"`
	Place          string `json:"place"`
	Description    string `json:"description"`
	JobDescription string `json:"jobDescription"`
}

func (a *ApifySource) FetchJobs(ctx context.Context, limit int) ([]JobInfo, error) {
	if a.Token == "" {
		return nil, nil
	}

	maxItems := a.MaxItems
	if limit > 0 && limit < maxItems {
		maxItems = limit
	}
	body, err := json.Marshal(map[string]interface{}{
		"searchKeywords": a.SearchKeywords,
		"maxItems":       maxItems,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal apify input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		strings.TrimRight(a.BaseURL, "/"), url.PathEscape(a.ActorID), url.QueryEscape(a.Token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create apify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apify request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read apify response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("apify error: status %d", resp.StatusCode)
	}

	var items []apifyItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal apify items: %w", err)
	}

	jobs := make([]JobInfo, 0, len(items))
	for _, item := range items {
		desc := firstNonEmpty(item.Description, item.JobDescription)
		if r := []rune(desc); len(r) > 2000 {
			desc = string(r[:2000])
		}
		jobs = append(jobs, JobInfo{
			Title:       firstNonEmpty(item.Title, item.Position, "未知职位"),
			Company:     firstNonEmpty(item.CompanyName, item.Company, "未知公司"),
			URL:         firstNonEmpty(item.URL, item.Link),
			Location:    firstNonEmpty(item.Location, item.Place),
			Description: desc,
			Source:      SourceApify,
		})
	}
	return jobs, nil
}

// Registry resolves a source id to a Source, falling back to the default.
type Registry struct {
	sources       map[string]Source
	defaultSource string
}

func NewRegistry(defaultSource string, sources ...Source) *Registry {
	r := &Registry{sources: map[string]Source{}, defaultSource: strings.ToLower(strings.TrimSpace(defaultSource))}
	for _, s := range sources {
		r.sources[s.ID()] = s
	}
	if _, ok := r.sources[SourceMock]; !ok {
		r.sources[SourceMock] = MockSource{}
	}
	return r
}

func (r *Registry) Get(id string) Source {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = r.defaultSource
	}
	if s, ok := r.sources[id]; ok {
		return s
	}
	return r.sources[SourceMock]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
