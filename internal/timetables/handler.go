package timetables

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"timetable-backend/internal/extract"
	"timetable-backend/internal/shared/server/respond"
	"timetable-backend/internal/shared/util"
)

// allowedMediaTypes restricts uploads to formats the pipeline can handle.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	UploadDir      string
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, uploadDir string, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, UploadDir: uploadDir, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches timetable routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/timetables", h.upload)
	rg.GET("/timetables", h.list)
	rg.GET("/timetables/:id", h.get)
	rg.DELETE("/timetables/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("file exceeds the %d MB upload limit", h.MaxUploadBytes>>20), nil)
		return
	}

	mediaType := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if !allowedMediaTypes[mediaType] {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"unsupported file type, expected JPEG, PNG, PDF or DOCX", nil)
		return
	}

	providerRaw := c.PostForm("visionProvider")
	if _, err := extract.ParseProvider(providerRaw); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	if providerRaw != "" {
		c.Set("visionProvider", providerRaw)
	}

	path, err := h.spool(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	defer os.Remove(path)

	doc := UploadedDocument{
		Path:         path,
		MediaType:    mediaType,
		OriginalName: fileHeader.Filename,
		SizeBytes:    fileHeader.Size,
	}

	created, err := h.Svc.ProcessUpload(c.Request.Context(), doc, providerRaw)
	if err != nil {
		switch {
		case errors.Is(err, ErrProcessingFailed):
			respond.Error(c, http.StatusBadRequest, "processing_failed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store timetable", nil)
		}
		return
	}

	c.Set("timetableId", strconv.FormatInt(created.ID, 10))
	respond.JSON(c, http.StatusCreated, toResponse(created))
}

func (h *Handler) list(c *gin.Context) {
	ts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list timetables", nil)
		return
	}
	respond.OK(c, toResponseList(ts))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "timetable not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load timetable", nil)
		}
		return
	}
	respond.OK(c, toResponse(t))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "timetable not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete timetable", nil)
		}
		return
	}
	respond.OK(c, gin.H{"message": "timetable deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid timetable id", nil)
		return 0, false
	}
	return id, true
}

// spool writes the upload to the scratch directory so extractors can read it
// from disk. The caller removes the file when processing finishes.
func (h *Handler) spool(fileHeader *multipart.FileHeader) (string, error) {
	name, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to prepare upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", errors.New("unable to read file")
	}
	defer src.Close()

	path := filepath.Join(h.UploadDir, uuid.NewString()+"_"+name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("unable to store upload: %w", err)
	}
	return path, nil
}
