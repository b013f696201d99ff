package resumes

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-scanner/internal/heuristics"
	"resume-scanner/internal/llm"
	"resume-scanner/internal/shared/metrics"
	"resume-scanner/internal/shared/telemetry"
	"resume-scanner/internal/shared/util"
)

const defaultConcurrency = 8

// Extractor pulls plain text out of a source file.
type Extractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, filePath string) (string, error)

func (f ExtractorFunc) ExtractText(ctx context.Context, filePath string) (string, error) {
	return f(ctx, filePath)
}

// Files enumerates the inputs of a folder scan.
type Files interface {
	List(ctx context.Context, folderPath string) ([]string, error)
}

// Parser runs the enrichment pipeline: extract text, apply heuristics,
// validate, enrich via the AI client, merge. AI and Cache are optional;
// without them parsing degrades to heuristics only.
type Parser struct {
	Extractor   Extractor
	Files       Files
	AI          llm.Client
	Cache       Repo
	Vocabulary  []string
	Concurrency int
}

// ParseFile parses a single file into an outcome. Extraction failure is
// terminal for the file; AI failure degrades to heuristic-only fields.
func (p *Parser) ParseFile(ctx context.Context, filePath string) ParseOutcome {
	outcome := ParseOutcome{FilePath: filePath}
	metrics.IncParseStarted()
	start := time.Now()
	defer func() {
		metrics.ObserveParseDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
		if outcome.Success {
			metrics.IncParseCompleted()
		} else {
			metrics.IncParseFailed()
		}
	}()

	text, err := p.Extractor.ExtractText(ctx, filePath)
	if err != nil {
		outcome.Success = false
		outcome.ErrorMessage = err.Error()
		return outcome
	}

	fileName := filepath.Base(filePath)
	fingerprint := util.Fingerprint(text)
	if p.Cache != nil {
		if cached, err := p.Cache.Get(ctx, fileName, fingerprint); err == nil {
			outcome.Resume = cached
			outcome.Success = true
			return outcome
		}
	}

	resume := p.runHeuristics(fileName, text)
	if p.AI != nil {
		if done := p.enrich(ctx, &resume, text, &outcome); done {
			return outcome
		}
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, fileName, fingerprint, resume); err != nil {
			telemetry.Error("resumes.cache_put_failed", map[string]any{
				"file_name": fileName,
				"error":     err.Error(),
			})
		}
	}

	outcome.Resume = resume
	outcome.Success = true
	return outcome
}

// ParseFolder fans every file in the folder out to ParseFile with bounded
// concurrency. Results come back in listing order regardless of completion
// order; a broken file degrades its own outcome only.
func (p *Parser) ParseFolder(ctx context.Context, folderPath string) ([]ParseOutcome, error) {
	files, err := p.Files.List(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ParseOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	limit := p.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = p.ParseFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (p *Parser) runHeuristics(fileName, text string) Resume {
	vocab := p.Vocabulary
	if len(vocab) == 0 {
		vocab = heuristics.DefaultSkillVocabulary
	}

	resume := Resume{
		FileName:    fileName,
		FullText:    text,
		Name:        heuristics.ExtractName(text),
		Email:       heuristics.ExtractEmail(text),
		Phone:       heuristics.ExtractPhone(text),
		Skills:      heuristics.ExtractSkills(text, vocab),
		Location:    heuristics.ExtractLocation(text),
		Designation: heuristics.ExtractDesignation(text),
	}
	if yrs, ok := heuristics.ExtractYearsExperience(text); ok {
		resume.TotalYearsExperience = &yrs
	}

	// Never store an unvalidated contact value.
	if !heuristics.IsValidEmail(resume.Email) {
		resume.Email = ""
	}
	if !heuristics.IsValidPhone(resume.Phone) {
		resume.Phone = ""
	}
	return resume
}

// enrich calls the AI client and merges its answer. Cancellation is terminal
// for the file; every other failure is absorbed so the parse still succeeds
// with heuristic fields. Reports whether the outcome is already final.
func (p *Parser) enrich(ctx context.Context, resume *Resume, text string, outcome *ParseOutcome) bool {
	raw, err := p.AI.StructuredJSON(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			outcome.Success = false
			outcome.ErrorMessage = ctx.Err().Error()
			return true
		}
		telemetry.Error("resumes.enrich_failed", map[string]any{
			"file_name": resume.FileName,
			"error":     err.Error(),
		})
		return false
	}
	if raw != "" {
		mergeAI(resume, raw)
	}
	return false
}
