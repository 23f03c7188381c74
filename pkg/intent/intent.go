package intent

import "strings"

type Intent string

const (
	JobMatch     Intent = "job_match"
	ResumeUpload Intent = "resume_upload"
	Poetry       Intent = "poetry"
	Credit       Intent = "credit"
	MBTI         Intent = "mbti"
	Unknown      Intent = "unknown"
)

// All lists the closed intent set in rule priority order, unknown last.
var All = []Intent{JobMatch, ResumeUpload, Poetry, Credit, MBTI, Unknown}

// Source records which classifier produced a result.
type Source string

const (
	SourceLLM   Source = "llm"
	SourceRules Source = "rules"
)

// ClassificationResult is produced once per request by the Router.
// Confidence is advisory and never used for routing.
type ClassificationResult struct {
	Intent     Intent
	Confidence float64
	Slots      map[string]interface{}
	Source     Source
}

// Parse normalises raw into a known intent. Anything outside the closed set is Unknown.
func Parse(raw string) Intent {
	candidate := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range All {
		if candidate == known {
			return known
		}
	}
	return Unknown
}

func (i Intent) String() string {
	return string(i)
}
