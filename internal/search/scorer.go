package search

import (
	"fmt"
	"math"
	"strings"

	"resume-scanner/internal/resumes"
)

// Weights per criterion. They sum to 100 when every criterion is in play.
const (
	skillsWeight      = 30.0
	skillYearsWeight  = 15.0
	totalExpWeight    = 15.0
	teamLeadWeight    = 10.0
	locationWeight    = 15.0
	designationWeight = 15.0
)

var leadershipPhrases = []string{
	"team lead", "technical lead", "tech lead", "lead developer",
	"lead engineer", "senior lead", "manager", "people manager",
	"leadership", "headed team", "led a team", "managed a team",
}

// ScoreResult is the outcome of scoring one resume against a query.
type ScoreResult struct {
	Score       int      `json:"score"`
	Explanation []string `json:"explanation"`
}

// Score rates a resume against the query on a 0..100 scale. It is a pure
// function of its inputs. Hard requirement failures short-circuit to a zero
// score with a single explanation line.
func Score(r resumes.Resume, q Query) ScoreResult {
	var score float64
	var explanations []string

	resumeSkills := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			resumeSkills = append(resumeSkills, s)
		}
	}

	// 1) Skill presence: the skills weight is split evenly across requested
	// skills, and so is the skill-years weight.
	if len(q.Skills) > 0 {
		perSkill := skillsWeight / float64(len(q.Skills))
		perSkillYears := skillYearsWeight / float64(len(q.Skills))

		for _, sq := range q.Skills {
			skillLower := strings.ToLower(strings.TrimSpace(sq.Name))
			if !hasSkill(resumeSkills, skillLower) {
				explanations = append(explanations, fmt.Sprintf("Skill '%s' not found (+0)", sq.Name))
				continue
			}
			score += perSkill
			explanations = append(explanations, fmt.Sprintf("Skill '%s' matched (+%.1f)", sq.Name, perSkill))

			// 2) Skill years, using total experience as a proxy.
			if sq.Years == nil {
				continue
			}
			switch {
			case r.TotalYearsExperience != nil && *r.TotalYearsExperience >= *sq.Years:
				score += perSkillYears
				explanations = append(explanations, fmt.Sprintf("Skill-years for '%s' met (+%.1f)", sq.Name, perSkillYears))
			case r.TotalYearsExperience != nil && *r.TotalYearsExperience > 0:
				proportion := math.Min(1.0, float64(*r.TotalYearsExperience)/float64(*sq.Years))
				partial := perSkillYears * proportion
				score += partial
				explanations = append(explanations, fmt.Sprintf("Skill-years for '%s' partial (+%.1f)", sq.Name, partial))
			}
		}
	}

	// 3) Total years of experience.
	if q.MinTotalExperience != nil {
		switch {
		case r.TotalYearsExperience != nil && *r.TotalYearsExperience >= *q.MinTotalExperience:
			score += totalExpWeight
			explanations = append(explanations, fmt.Sprintf("Total experience %d >= %d (+15)", *r.TotalYearsExperience, *q.MinTotalExperience))
		case r.TotalYearsExperience != nil && *r.TotalYearsExperience > 0:
			proportion := math.Min(1.0, float64(*r.TotalYearsExperience)/float64(*q.MinTotalExperience))
			partial := totalExpWeight * proportion
			score += partial
			explanations = append(explanations, fmt.Sprintf("Total experience partial credit (+%.1f)", partial))
		default:
			explanations = append(explanations, "Total experience missing or 0 (+0)")
		}
	} else if r.TotalYearsExperience != nil {
		// No minimum requested: baseline credit that saturates at 20 years.
		partial := totalExpWeight * math.Min(1.0, float64(*r.TotalYearsExperience)/20.0)
		score += partial
		explanations = append(explanations, fmt.Sprintf("Total experience baseline (+%.1f)", partial))
	}

	// 4) Leadership presence, scanned over the full text.
	if q.RequireTeamLeadExperience {
		if containsLeadership(r.FullText) {
			score += teamLeadWeight
			explanations = append(explanations, "Leadership found (+10)")
		} else {
			explanations = append(explanations, "Leadership not found (+0)")
		}
	} else if containsLeadership(r.FullText) {
		small := teamLeadWeight * 0.5
		score += small
		explanations = append(explanations, fmt.Sprintf("Leadership found (bonus +%.1f)", small))
	}

	// 5) Location matching. The weight is split across every requested
	// location, blanks included.
	if len(q.Locations) > 0 {
		resumeLoc := strings.ToLower(strings.TrimSpace(r.Location))
		totalRequested := len(q.Locations)
		perLocation := locationWeight / float64(totalRequested)
		matchedCount := 0

		for _, loc := range q.Locations {
			if strings.TrimSpace(loc) == "" {
				continue
			}
			desired := strings.ToLower(strings.TrimSpace(loc))
			if matchValue(resumeLoc, desired, q.LocationMode) {
				matchedCount++
				score += perLocation
				explanations = append(explanations, fmt.Sprintf("Location '%s' matched (+%.1f)", loc, perLocation))
			} else {
				explanations = append(explanations, fmt.Sprintf("Location '%s' not matched (+0)", loc))
			}
		}

		if q.LocationStrategy == StrategyAll && matchedCount < totalRequested {
			if q.LocationRequired {
				return ScoreResult{Score: 0, Explanation: []string{
					fmt.Sprintf("Location requirement: all locations not matched. Matched: %d/%d", matchedCount, totalRequested),
				}}
			}
			explanations = append(explanations, fmt.Sprintf("Not all locations matched (%d/%d), no location bonus awarded.", matchedCount, totalRequested))
		}
	}

	// 6) Designation matching, same shape as locations.
	if len(q.Designations) > 0 {
		resumeDes := strings.ToLower(strings.TrimSpace(r.Designation))
		totalRequested := len(q.Designations)
		perDesignation := designationWeight / float64(totalRequested)
		matchedCount := 0

		for _, des := range q.Designations {
			if strings.TrimSpace(des) == "" {
				continue
			}
			desired := strings.ToLower(strings.TrimSpace(des))
			if matchValue(resumeDes, desired, q.DesignationMode) {
				matchedCount++
				score += perDesignation
				explanations = append(explanations, fmt.Sprintf("Designation '%s' matched (+%.1f)", des, perDesignation))
			} else {
				explanations = append(explanations, fmt.Sprintf("Designation '%s' not matched (+0)", des))
			}
		}

		if q.DesignationStrategy == StrategyAll && matchedCount < totalRequested {
			if q.DesignationRequired {
				return ScoreResult{Score: 0, Explanation: []string{
					fmt.Sprintf("Designation requirement: all designations not matched. Matched: %d/%d", matchedCount, totalRequested),
				}}
			}
			explanations = append(explanations, fmt.Sprintf("Not all designations matched (%d/%d), no designation bonus awarded.", matchedCount, totalRequested))
		}

		if q.DesignationRequired && matchedCount == 0 {
			des := r.Designation
			if des == "" {
				des = "unknown"
			}
			return ScoreResult{Score: 0, Explanation: []string{
				fmt.Sprintf("Designation required but no requested designations matched (resume designation: '%s').", des),
			}}
		}
	}

	final := int(math.Round(math.Max(0, math.Min(100, score))))
	return ScoreResult{Score: final, Explanation: explanations}
}

// hasSkill matches in both directions so that "postgres" finds "postgresql"
// and vice versa.
func hasSkill(resumeSkills []string, skillLower string) bool {
	for _, rs := range resumeSkills {
		if strings.Contains(rs, skillLower) || strings.Contains(skillLower, rs) {
			return true
		}
	}
	return false
}

func matchValue(have, want string, mode MatchMode) bool {
	switch mode {
	case MatchExact:
		return have == want
	case MatchStartsWith:
		return strings.HasPrefix(have, want)
	default:
		return strings.Contains(have, want)
	}
}

func containsLeadership(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	s := strings.ToLower(text)
	for _, p := range leadershipPhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
