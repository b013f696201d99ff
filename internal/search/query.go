package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MatchMode selects how a requested location or designation is compared
// against the resume value. Comparison is case-insensitive on trimmed strings.
type MatchMode string

const (
	MatchExact      MatchMode = "Exact"
	MatchStartsWith MatchMode = "StartsWith"
	MatchContains   MatchMode = "Contains"
)

// UnmarshalJSON accepts mode names in any casing. Unknown or empty values
// fall back to Contains.
func (m *MatchMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("match mode must be a string: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		*m = MatchExact
	case "startswith":
		*m = MatchStartsWith
	default:
		*m = MatchContains
	}
	return nil
}

// MatchStrategy controls whether any or all requested values must match.
type MatchStrategy string

const (
	StrategyAny MatchStrategy = "Any"
	StrategyAll MatchStrategy = "All"
)

// UnmarshalJSON accepts strategy names in any casing, defaulting to Any.
func (m *MatchStrategy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("match strategy must be a string: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		*m = StrategyAll
	default:
		*m = StrategyAny
	}
	return nil
}

// SkillQuery asks for one skill, optionally with a minimum years requirement.
type SkillQuery struct {
	Name  string `json:"name"`
	Years *int   `json:"years,omitempty"`
}

// Query is the search request body.
type Query struct {
	Skills                    []SkillQuery `json:"skills"`
	MinTotalExperience        *int         `json:"minTotalExperience"`
	RequireTeamLeadExperience bool         `json:"requireTeamLeadExperience"`
	MinScore                  int          `json:"minScore"`

	Locations        []string      `json:"locations"`
	LocationMode     MatchMode     `json:"locationMode"`
	LocationStrategy MatchStrategy `json:"locationStrategy"`
	LocationRequired bool          `json:"locationRequired"`

	Designations        []string      `json:"designations"`
	DesignationMode     MatchMode     `json:"designationMode"`
	DesignationStrategy MatchStrategy `json:"designationStrategy"`
	DesignationRequired bool          `json:"designationRequired"`
}
