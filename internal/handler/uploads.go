package handler

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/storage"
)

// ServeUpload streams a stored file through the storage provider so reads
// go through the same seam as writes.
func ServeUpload(files storage.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("ref")

		f, err := files.Open(c.Request.Context(), ref)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not found"})
				return
			}
			log.Printf("open upload %q: %v", ref, err)
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
			return
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(ref))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, f); err != nil {
			log.Printf("stream upload %q: %v", ref, err)
		}
	}
}
