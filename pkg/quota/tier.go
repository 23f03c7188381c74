package quota

import "strings"

type Tier string

const (
	TierFree  Tier = "free"
	TierBasic Tier = "basic"
	TierPro   Tier = "pro"
)

// Resources metered per user per UTC day.
const (
	ResourceJobMatch    = "job_match"
	ResourceAsk         = "ask"
	ResourceResumeParse = "resume_parse"
	ResourceRAG         = "rag"
)

// Resources lists every metered resource in display order.
var Resources = []string{ResourceJobMatch, ResourceAsk, ResourceResumeParse, ResourceRAG}

var dailyLimits = map[Tier]map[string]int{
	TierFree: {
		ResourceJobMatch:    3,
		ResourceAsk:         1,
		ResourceResumeParse: 1,
		ResourceRAG:         0,
	},
	TierBasic: {
		ResourceJobMatch:    20,
		ResourceAsk:         15,
		ResourceResumeParse: 5,
		ResourceRAG:         10,
	},
	TierPro: {
		ResourceJobMatch:    9999,
		ResourceAsk:         9999,
		ResourceResumeParse: 9999,
		ResourceRAG:         9999,
	},
}

var topNCeilings = map[Tier]int{
	TierFree:  3,
	TierBasic: 5,
	TierPro:   20,
}

// ParseTier maps free-form input to a Tier. Anything unrecognised is free.
func ParseTier(raw string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierBasic:
		return TierBasic
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// Limit returns the daily ceiling for resource. Unknown resources are never admitted.
func (t Tier) Limit(resource string) int {
	return dailyLimits[ParseTier(string(t))][resource]
}

// MaxTopN is the largest result count a tier may request from job matching.
func (t Tier) MaxTopN() int {
	return topNCeilings[ParseTier(string(t))]
}
