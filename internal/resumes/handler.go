package resumes

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-scanner/internal/shared/server/respond"
	"resume-scanner/internal/shared/storage/object"
	"resume-scanner/internal/shared/telemetry"
	"resume-scanner/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the resume HTTP routes to the parser and file store.
type Handler struct {
	Parser *Parser
	Store  object.FileStore
	Cache  Repo
	Folder string
}

// NewHandler constructs a Handler.
func NewHandler(parser *Parser, store object.FileStore, cache Repo, folder string) *Handler {
	return &Handler{Parser: parser, Store: store, Cache: cache, Folder: folder}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes/scan", h.scan)
	rg.GET("/resumes/files", h.listFiles)
	rg.GET("/resumes/files/:fileName", h.parseFile)
	rg.GET("/resumes/download/:fileName", h.download)
	rg.DELETE("/resumes/files/:fileName", h.deleteFile)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is empty", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	uniqueName := makeUniqueFileName(fileHeader.Filename)
	if _, err := h.Store.Save(c.Request.Context(), h.Folder, uniqueName, file); err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to save file", nil)
		return
	}

	outcome := h.Parser.ParseFile(c.Request.Context(), filepath.Join(h.Folder, uniqueName))
	if !outcome.Success {
		respond.Error(c, http.StatusInternalServerError, "parse_error", outcome.ErrorMessage, nil)
		return
	}

	respond.JSON(c, http.StatusCreated, outcome)
}

func (h *Handler) scan(c *gin.Context) {
	outcomes, err := h.Parser.ParseFolder(c.Request.Context(), h.Folder)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "scan_error", "failed to scan resume folder", nil)
		return
	}
	respond.OK(c, outcomes)
}

func (h *Handler) parseFile(c *gin.Context) {
	fileName, err := util.SanitizeFileName(c.Param("fileName"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	names, err := h.Store.ListNames(c.Request.Context(), h.Folder)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list files", nil)
		return
	}
	if !contains(names, fileName) {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}

	outcome := h.Parser.ParseFile(c.Request.Context(), filepath.Join(h.Folder, fileName))
	if !outcome.Success {
		respond.Error(c, http.StatusInternalServerError, "parse_error", outcome.ErrorMessage, nil)
		return
	}
	respond.OK(c, outcome)
}

func (h *Handler) listFiles(c *gin.Context) {
	names, err := h.Store.ListNames(c.Request.Context(), h.Folder)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list files", nil)
		return
	}
	respond.OK(c, names)
}

func (h *Handler) download(c *gin.Context) {
	fileName, err := util.SanitizeFileName(c.Param("fileName"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	rc, err := h.Store.Open(c.Request.Context(), h.Folder, fileName)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read file", nil)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) deleteFile(c *gin.Context) {
	fileName, err := util.SanitizeFileName(c.Param("fileName"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	deleted, err := h.Store.Delete(c.Request.Context(), h.Folder, fileName)
	if err != nil && !errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to delete file", nil)
		return
	}
	if !deleted {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Delete(c.Request.Context(), fileName); err != nil {
			telemetry.Error("resumes.cache_delete_failed", map[string]any{
				"file_name": fileName,
				"error":     err.Error(),
			})
		}
	}

	respond.OK(c, gin.H{"success": true, "message": "File deleted successfully."})
}

// makeUniqueFileName slugs the base name and appends a random suffix so
// repeated uploads of the same resume never collide.
func makeUniqueFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	slug := util.Slugify(base)
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if slug == "" {
		return id + ext
	}
	return fmt.Sprintf("%s-%s%s", slug, id, ext)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
