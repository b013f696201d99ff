package search

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"resume-scanner/internal/resumes"
	"resume-scanner/internal/shared/server/respond"
)

// FolderScanner parses every resume in a folder.
type FolderScanner interface {
	ParseFolder(ctx context.Context, folderPath string) ([]resumes.ParseOutcome, error)
}

// Result is one scored resume in the search response.
type Result struct {
	FilePath    string         `json:"filePath"`
	Success     bool           `json:"success"`
	Score       int            `json:"score"`
	Explanation []string       `json:"explanation"`
	Resume      resumes.Resume `json:"resume"`
}

// Handler serves resume search over the parsed folder contents.
type Handler struct {
	Scanner FolderScanner
	Folder  string
}

// NewHandler constructs a Handler.
func NewHandler(scanner FolderScanner, folder string) *Handler {
	return &Handler{Scanner: scanner, Folder: folder}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	var q Query
	if err := c.ShouldBindJSON(&q); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid search request", nil)
		return
	}

	outcomes, err := h.Scanner.ParseFolder(c.Request.Context(), h.Folder)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "scan_error", "failed to scan resume folder", nil)
		return
	}

	results := make([]Result, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		sr := Score(o.Resume, q)
		if sr.Score < q.MinScore {
			continue
		}
		results = append(results, Result{
			FilePath:    o.FilePath,
			Success:     true,
			Score:       sr.Score,
			Explanation: sr.Explanation,
			Resume:      o.Resume,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	respond.OK(c, results)
}
