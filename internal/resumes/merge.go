package resumes

import (
	"encoding/json"
	"strings"

	"resume-scanner/internal/heuristics"
)

// aiResume mirrors the JSON shape the model is instructed to emit. Pointer
// fields distinguish "absent or null" from "present but empty".
type aiResume struct {
	FileName             *string  `json:"file_name"`
	Name                 *string  `json:"name"`
	Email                *string  `json:"email"`
	Phone                *string  `json:"phone"`
	Skills               []string `json:"skills"`
	TotalYearsExperience *int     `json:"total_years_experience"`
	Summary              *string  `json:"summary"`
}

// mergeAI overlays AI-derived fields onto the heuristic record. AI values win
// only when non-empty and, for contact fields, valid; AI skills replace the
// heuristic set wholesale, never union. Malformed payloads are absorbed
// silently and leave the record untouched.
func mergeAI(r *Resume, rawJSON string) {
	var ai aiResume
	if err := json.Unmarshal([]byte(rawJSON), &ai); err != nil {
		return
	}

	if ai.Name != nil && strings.TrimSpace(*ai.Name) != "" {
		r.Name = *ai.Name
	}
	if ai.Email != nil && strings.TrimSpace(*ai.Email) != "" && heuristics.IsValidEmail(*ai.Email) {
		r.Email = *ai.Email
	}
	if ai.Phone != nil && strings.TrimSpace(*ai.Phone) != "" && heuristics.IsValidPhone(*ai.Phone) {
		r.Phone = *ai.Phone
	}
	if len(ai.Skills) > 0 {
		r.Skills = ai.Skills
	}
	if ai.TotalYearsExperience != nil {
		r.TotalYearsExperience = ai.TotalYearsExperience
	}
	if ai.Summary != nil {
		r.Summary = *ai.Summary
	}
	// Location and designation are heuristics-only; the AI schema does not
	// carry them.
}
