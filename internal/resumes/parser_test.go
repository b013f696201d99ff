package resumes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type stubFiles []string

func (s stubFiles) List(ctx context.Context, folderPath string) ([]string, error) {
	_ = folderPath
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

type stubAI struct {
	calls atomic.Int32
	json  string
	err   error
}

func (s *stubAI) StructuredJSON(ctx context.Context, text string) (string, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_ = text
	return s.json, s.err
}

func textExtractor(texts map[string]string) Extractor {
	return ExtractorFunc(func(ctx context.Context, filePath string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, ok := texts[filepath.Base(filePath)]
		if !ok {
			return "", fmt.Errorf("text extraction failed for %s: corrupt file", filePath)
		}
		return text, nil
	})
}

const johnText = `John Doe
Senior Software Engineer
Pune, Maharashtra
john.doe@example.com

5 years of experience with sql and docker. Team Lead for payments.`

func TestParseFileHeuristicsOnly(t *testing.T) {
	p := &Parser{Extractor: textExtractor(map[string]string{"john.txt": johnText})}

	outcome := p.ParseFile(context.Background(), "/resumes/john.txt")
	if !outcome.Success {
		t.Fatalf("expected success, got %q", outcome.ErrorMessage)
	}
	r := outcome.Resume
	if r.FileName != "john.txt" {
		t.Fatalf("fileName = %q", r.FileName)
	}
	if r.FullText != johnText {
		t.Fatal("fullText must hold the raw extracted text")
	}
	if r.Name != "John Doe" || r.Email != "john.doe@example.com" {
		t.Fatalf("heuristics missing: %+v", r)
	}
	if r.TotalYearsExperience == nil || *r.TotalYearsExperience != 5 {
		t.Fatalf("years = %v", r.TotalYearsExperience)
	}
}

func TestParseFileMergesAI(t *testing.T) {
	ai := &stubAI{json: `{"name":"Johnathan Doe","skills":["go","sql"],"summary":"Seasoned engineer."}`}
	p := &Parser{
		Extractor: textExtractor(map[string]string{"john.txt": johnText}),
		AI:        ai,
	}

	outcome := p.ParseFile(context.Background(), "/resumes/john.txt")
	if !outcome.Success {
		t.Fatalf("expected success, got %q", outcome.ErrorMessage)
	}
	if outcome.Resume.Name != "Johnathan Doe" {
		t.Fatalf("name = %q", outcome.Resume.Name)
	}
	if len(outcome.Resume.Skills) != 2 || outcome.Resume.Skills[0] != "go" {
		t.Fatalf("skills = %v", outcome.Resume.Skills)
	}
	if outcome.Resume.Summary != "Seasoned engineer." {
		t.Fatalf("summary = %q", outcome.Resume.Summary)
	}
}

func TestParseFileAIFailureDegradesToHeuristics(t *testing.T) {
	ai := &stubAI{err: errors.New("model exploded")}
	p := &Parser{
		Extractor: textExtractor(map[string]string{"john.txt": johnText}),
		AI:        ai,
	}

	outcome := p.ParseFile(context.Background(), "/resumes/john.txt")
	if !outcome.Success {
		t.Fatalf("AI failure must not fail the parse: %q", outcome.ErrorMessage)
	}
	if outcome.Resume.Name != "John Doe" {
		t.Fatalf("expected heuristic fields, got %+v", outcome.Resume)
	}
}

func TestParseFileCancellationIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ai := &stubAI{}
	p := &Parser{
		Extractor: ExtractorFunc(func(ctx context.Context, filePath string) (string, error) {
			cancel() // cancellation arrives while this file is in flight
			return johnText, nil
		}),
		AI: ai,
	}

	outcome := p.ParseFile(ctx, "/resumes/john.txt")
	if outcome.Success {
		t.Fatal("cancelled parse must not report success")
	}
	if !strings.Contains(outcome.ErrorMessage, context.Canceled.Error()) {
		t.Fatalf("errorMessage = %q", outcome.ErrorMessage)
	}
}

func TestParseFileExtractionFailure(t *testing.T) {
	p := &Parser{Extractor: textExtractor(map[string]string{})}

	outcome := p.ParseFile(context.Background(), "/resumes/broken.pdf")
	if outcome.Success {
		t.Fatal("expected failure outcome")
	}
	if !strings.Contains(outcome.ErrorMessage, "broken.pdf") {
		t.Fatalf("errorMessage = %q", outcome.ErrorMessage)
	}
}

func TestParseFolderKeepsListingOrderAndIsolatesFailures(t *testing.T) {
	texts := map[string]string{
		"a.txt": "Alice Smith\nalice@example.com\n3 years sql",
		"c.txt": "Carol Jones\ncarol@example.com\n4 years python",
	}
	p := &Parser{
		Extractor:   textExtractor(texts),
		Files:       stubFiles{"/r/a.txt", "/r/b.pdf", "/r/c.txt"},
		Concurrency: 2,
	}

	outcomes, err := p.ParseFolder(context.Background(), "/r")
	if err != nil {
		t.Fatalf("ParseFolder: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].FilePath != "/r/a.txt" || outcomes[1].FilePath != "/r/b.pdf" || outcomes[2].FilePath != "/r/c.txt" {
		t.Fatalf("results must keep listing order: %+v", outcomes)
	}
	if !outcomes[0].Success || !outcomes[2].Success {
		t.Fatal("good files must succeed")
	}
	if outcomes[1].Success {
		t.Fatal("broken file must fail alone")
	}
}

func TestParseFolderEmptyFolder(t *testing.T) {
	p := &Parser{Extractor: textExtractor(nil), Files: stubFiles{}}
	outcomes, err := p.ParseFolder(context.Background(), "/r")
	if err != nil {
		t.Fatalf("ParseFolder: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestParseFileCacheSkipsReparse(t *testing.T) {
	ai := &stubAI{json: `{"name":"Johnathan Doe"}`}
	cache := NewMemoryRepo()
	p := &Parser{
		Extractor: textExtractor(map[string]string{"john.txt": johnText}),
		AI:        ai,
		Cache:     cache,
	}

	first := p.ParseFile(context.Background(), "/resumes/john.txt")
	if !first.Success {
		t.Fatalf("first parse failed: %q", first.ErrorMessage)
	}
	second := p.ParseFile(context.Background(), "/resumes/john.txt")
	if !second.Success {
		t.Fatalf("second parse failed: %q", second.ErrorMessage)
	}
	if got := ai.calls.Load(); got != 1 {
		t.Fatalf("cached reparse must skip the AI call, got %d calls", got)
	}
	if second.Resume.Name != "Johnathan Doe" {
		t.Fatalf("cached resume lost enrichment: %+v", second.Resume)
	}
}
