package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mangapress/internal/media"
	"mangapress/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// Uploader stores one uploaded file and returns where it landed.
type Uploader interface {
	Ingest(ctx context.Context, up media.Upload, logicalType string, staged bool) (*media.Stored, error)
}

type UploadHandler struct {
	uploader Uploader
	maxBytes int64
	log      *slog.Logger
}

func NewUploadHandler(uploader Uploader, maxBytes int64, log *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes, log: log}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("", append(mw, h.Upload)...)
}

// Upload takes a multipart "file", an optional "type" (default blog) and
// "stage=temp" to park the object under temp/ until a document claims it.
func (h *UploadHandler) Upload(c *gin.Context) {
	// multipart framing gets a little headroom over the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgFileTooLarge})
			return
		}
		badRequest(c, msgNoFile)
		return
	}
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgFileTooLarge})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	stored, err := h.uploader.Ingest(ctx,
		media.Upload{Filename: fh.Filename, Data: data},
		c.PostForm("type"),
		c.PostForm("stage") == "temp",
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{URL: stored.URL})
}
