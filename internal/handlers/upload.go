package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photo-print-orders/internal/models"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
	photoMetaKey        = regexp.MustCompile(`^photoMeta\[(\d+)\]$`)
)

// UploadHandler accepts a submitted order: it stores the uploaded images
// on disk and echoes the order summary back. It keeps no state between
// requests.
type UploadHandler struct {
	uploadsDir string
	logger     *zap.Logger
}

func NewUploadHandler(uploadsDir string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Upload handles POST /upload. The body is one multipart form: repeated
// "images" file parts, photoMeta[<index>] JSON parts describing each
// photo, and the customer/total text parts. Files are stored under a
// timestamp-prefixed sanitized name; no content validation is done here.
func (h *UploadHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("failed to parse multipart form: %v", err),
		})
		return
	}
	form := c.Request.MultipartForm

	for _, file := range form.File["images"] {
		if err := h.saveFile(file); err != nil {
			h.logger.Error("failed to store uploaded image",
				zap.String("filename", file.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Message: "failed to store order",
			})
			return
		}
	}

	photos := h.collectPhotoMeta(form.Value)

	totalPrice := 0.0
	if raw := c.PostForm("totalPrice"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			totalPrice = parsed
		}
	}

	c.JSON(http.StatusOK, models.OrderConfirmation{
		Success: true,
		Customer: models.CustomerInfo{
			Name:  c.PostForm("customerName"),
			Email: c.PostForm("customerEmail"),
			Phone: c.PostForm("customerPhone"),
		},
		Photos:     photos,
		TotalPrice: strconv.FormatFloat(totalPrice, 'f', 2, 64),
	})
}

func (h *UploadHandler) saveFile(file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(h.uploadsDir, StoredName(file.Filename, time.Now()))
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// collectPhotoMeta decodes every photoMeta[...] part in index order.
// A part that does not decode is logged and skipped, the rest of the
// order is still echoed.
func (h *UploadHandler) collectPhotoMeta(values map[string][]string) []models.OrderLine {
	type indexed struct {
		index int
		raw   string
	}
	var parts []indexed
	for key, vals := range values {
		m := photoMetaKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		index, _ := strconv.Atoi(m[1])
		parts = append(parts, indexed{index: index, raw: vals[0]})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	photos := make([]models.OrderLine, 0, len(parts))
	for _, part := range parts {
		var line models.OrderLine
		if err := json.Unmarshal([]byte(part.raw), &line); err != nil {
			h.logger.Warn("skipping undecodable photo metadata", zap.Error(err))
			continue
		}
		photos = append(photos, line)
	}
	return photos
}

// SanitizeFilename replaces every character outside [a-zA-Z0-9_.-]
// so uploaded names are safe as path components.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
}

// StoredName is the on-disk name for an uploaded file: upload timestamp
// in milliseconds, underscore, sanitized original name.
func StoredName(original string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), SanitizeFilename(original))
}
