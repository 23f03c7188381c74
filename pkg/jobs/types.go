package jobs

// JobInfo is a posting pulled from a job source.
type JobInfo struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	URL         string `json:"url,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// MatchScore is the multi-dimension resume vs job score. Overall is 0-100.
type MatchScore struct {
	Overall             int      `json:"overall"`
	BackgroundMatch     int      `json:"background_match"`     // 0-10
	SkillsOverlap       int      `json:"skills_overlap"`       // 0-30
	ExperienceRelevance int      `json:"experience_relevance"` // 0-30
	Seniority           int      `json:"seniority"`            // 0-10
	LanguageRequirement int      `json:"language_requirement"` // 0-10
	CompanyScore        int      `json:"company_score"`        // 0-10
	Summary             string   `json:"summary"`
	Keywords            []string `json:"keywords"`
	FitBullets          []string `json:"fit_bullets"`
}

type MatchResult struct {
	Job   JobInfo    `json:"job"`
	Score MatchScore `json:"score"`
}

func (m MatchResult) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"job": map[string]interface{}{
			"title":       m.Job.Title,
			"company":     m.Job.Company,
			"url":         m.Job.URL,
			"location":    m.Job.Location,
			"description": m.Job.Description,
			"source":      m.Job.Source,
		},
		"score": map[string]interface{}{
			"overall":              m.Score.Overall,
			"background_match":     m.Score.BackgroundMatch,
			"skills_overlap":       m.Score.SkillsOverlap,
			"experience_relevance": m.Score.ExperienceRelevance,
			"seniority":            m.Score.Seniority,
			"language_requirement": m.Score.LanguageRequirement,
			"company_score":        m.Score.CompanyScore,
			"summary":              m.Score.Summary,
			"keywords":             m.Score.Keywords,
			"fit_bullets":          m.Score.FitBullets,
		},
	}
}
