package heuristics

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultSkillVocabulary is the fixed keyword list matched against resume text.
// Matches are reported as vocabulary terms, not resume-verbatim strings.
var DefaultSkillVocabulary = []string{
	"c#", ".net", "asp.net", "sql", "javascript", "react", "angular",
	"python", "java", "aws", "azure", "docker", "kubernetes", "html", "css",
	"node", "mongodb", "mysql", "postgres", "git", "rest",
}

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9.\-_]+@[a-zA-Z0-9.\-_]+\.[a-zA-Z]{2,}`)
	phoneRe      = regexp.MustCompile(`(\+?\d{1,3}[\s\-.])?(\(?\d{2,4}\)?[\s\-.])?\d{6,10}`)
	yearsRe      = regexp.MustCompile(`(?i)(\d{1,2})\s+years?`)
	calendarRe   = regexp.MustCompile(`(19|20)\d{2}`)
	namePunctRe  = regexp.MustCompile(`[^\w\s\-]`)
	locLabelRe   = regexp.MustCompile(`(?i)(?:Location|City|Address|Lives in)[:\s]+\s*(.+)`)
	desLabelRe   = regexp.MustCompile(`(?i)(?:Designation|Title|Role|Current Title|Current Role)[:\s]+\s*(.+)`)
	desPunctRe   = regexp.MustCompile(`[^\w\s\-/.]`)
	desGlobalRe  = regexp.MustCompile(`(?i)(Senior|Sr\.?|Junior|Jr\.?)\s+([A-Za-z/\s]{2,40}(Developer|Engineer|Manager|Lead|Architect|Analyst))`)
	emailLikeRe  = regexp.MustCompile(`\S+@\S+`)
	longDigitsRe = regexp.MustCompile(`\d{6,}`)
)

var roleKeywords = []string{
	"developer", "engineer", "lead", "manager", "architect",
	"principal", "consultant", "analyst", "director",
}

// ExtractEmail returns the first email-looking substring, or "".
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone-looking substring, trimmed, or "".
func ExtractPhone(text string) string {
	return strings.TrimSpace(phoneRe.FindString(text))
}

// ExtractSkills returns the vocabulary terms present in the text,
// case-insensitive and deduplicated. Order follows the vocabulary.
func ExtractSkills(text string, vocab []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(vocab))
	var found []string
	for _, skill := range vocab {
		if _, dup := seen[skill]; dup {
			continue
		}
		if strings.Contains(lower, strings.ToLower(skill)) {
			seen[skill] = struct{}{}
			found = append(found, skill)
		}
	}
	return found
}

// ExtractName scans the first 12 non-empty lines longer than two characters
// and returns the first line where at least min(2, tokens) tokens start with
// an uppercase letter, stripped of punctuation.
func ExtractName(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	taken := 0
	for _, line := range splitLines(text) {
		if len(line) <= 2 {
			continue
		}
		if taken++; taken > 12 {
			break
		}
		tokens := strings.Fields(line)
		capCount := 0
		for _, tok := range tokens {
			if unicode.IsUpper([]rune(tok)[0]) {
				capCount++
			}
		}
		need := 2
		if len(tokens) < need {
			need = len(tokens)
		}
		if capCount >= need {
			return strings.TrimSpace(namePunctRe.ReplaceAllString(line, ""))
		}
	}
	return ""
}

// ExtractYearsExperience prefers an explicit "<N> years" mention and falls
// back to the spread between the earliest and latest calendar year, accepted
// only when the spread is between 1 and 49.
func ExtractYearsExperience(text string) (int, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		if yrs, err := strconv.Atoi(m[1]); err == nil {
			return yrs, true
		}
	}
	matches := calendarRe.FindAllString(text, -1)
	if len(matches) >= 2 {
		minYear, maxYear := 9999, 0
		for _, raw := range matches {
			y, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			if y < minYear {
				minYear = y
			}
			if y > maxYear {
				maxYear = y
			}
		}
		diff := maxYear - minYear
		if diff > 0 && diff < 50 {
			return diff, true
		}
	}
	return 0, false
}

// ExtractLocation prefers an explicit location label, then falls back to the
// first short line near the top containing a comma and a letter, skipping
// contact lines.
func ExtractLocation(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if m := locLabelRe.FindStringSubmatch(text); m != nil {
		for _, line := range splitLines(m[1]) {
			return strings.TrimRight(line, ",.")
		}
	}
	taken := 0
	for _, line := range splitLines(text) {
		if len(line) <= 1 || len(line) >= 60 {
			continue
		}
		if taken++; taken > 8 {
			break
		}
		if emailLikeRe.MatchString(line) || longDigitsRe.MatchString(line) {
			continue
		}
		if strings.Contains(line, ",") && strings.ContainsFunc(line, isASCIILetter) {
			return line
		}
	}
	return ""
}

// ExtractDesignation prefers an explicit title label, then the first top line
// containing a role keyword, then a global Senior/Junior role pattern.
func ExtractDesignation(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if m := desLabelRe.FindStringSubmatch(text); m != nil {
		for _, line := range splitLines(m[1]) {
			return strings.TrimRight(line, ",.")
		}
	}
	taken := 0
	for _, line := range splitLines(text) {
		if len(line) <= 1 || len(line) >= 80 {
			continue
		}
		if taken++; taken > 12 {
			break
		}
		if emailLikeRe.MatchString(line) || longDigitsRe.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range roleKeywords {
			if strings.Contains(lower, kw) {
				return strings.TrimSpace(desPunctRe.ReplaceAllString(line, ""))
			}
		}
	}
	if m := desGlobalRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// splitLines splits on CR and LF, trims each line, and drops empty ones.
func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
