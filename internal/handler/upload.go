package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"docbench/internal/domain"
	"docbench/internal/service"
)

// readUpload reads the multipart "file" field into a RunInput. A missing
// field writes a 400 and returns false.
func readUpload(c *gin.Context, maxBytes int64) (service.RunInput, bool) {
	if maxBytes > 0 {
		// Leave room for the multipart envelope around the file.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
			return service.RunInput{}, false
		}
		RespondError(c, http.StatusBadRequest, "file field is required")
		return service.RunInput{}, false
	}
	defer func() { _ = file.Close() }()

	if maxBytes > 0 && header.Size > maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return service.RunInput{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return service.RunInput{}, false
	}
	if len(data) == 0 {
		RespondError(c, http.StatusBadRequest, "file is empty")
		return service.RunInput{}, false
	}

	return service.RunInput{
		RunID:       c.PostForm("runId"),
		File:        data,
		FileName:    filepath.Base(header.Filename),
		ContentType: service.DetectContentType(header.Header.Get("Content-Type"), header.Filename, data),
	}, true
}
