package resumes

// Resume is the structured record produced for one source file. FullText is
// the raw extracted text and never changes once set; email and phone only
// ever hold validated values.
type Resume struct {
	FileName             string   `json:"fileName"`
	FullText             string   `json:"fullText"`
	Name                 string   `json:"name,omitempty"`
	Email                string   `json:"email,omitempty"`
	Phone                string   `json:"phone,omitempty"`
	Skills               []string `json:"skills"`
	TotalYearsExperience *int     `json:"totalYearsExperience,omitempty"`
	Summary              string   `json:"summary,omitempty"`
	Location             string   `json:"location,omitempty"`
	Designation          string   `json:"designation,omitempty"`
}

// ParseOutcome wraps the per-file result. Terminal once returned; a failed
// extraction yields Success=false without aborting a batch.
type ParseOutcome struct {
	FilePath     string `json:"filePath"`
	Resume       Resume `json:"resume"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
