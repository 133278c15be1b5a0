// Package web serves entities over HTTP.
package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// Download writes f as an attachment named after the file.
func Download(c *gin.Context, f *entity.File) {
	DownloadAs(c, f, f.DisplayName())
}

// DownloadAs writes f as an attachment called name. When the file cannot be
// read the response is a 500 carrying the error text.
func DownloadAs(c *gin.Context, f *entity.File, name string) {
	data, err := f.ReadAll()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+encodeFilename(name))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Data(http.StatusOK, f.ContentType(), data)
}

// encodeFilename percent-encodes everything except unreserved characters.
func encodeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// Entry describes one child in a directory listing.
type Entry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Size int64  `json:"size"`
}

// Handler serves the tree below root. It expects a "path" wildcard
// parameter, e.g. a route "/files/*path". Files are sent with Download and
// directories are listed as JSON, or streamed as a tar archive when the
// "archive" query parameter names a format.
func Handler(root *entity.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := strings.TrimPrefix(c.Param("path"), "/")
		if rel == "" {
			rel = "."
		}

		e, err := root.Lookup(rel)
		switch {
		case errors.Is(err, entity.ErrInvalidPath):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, entity.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		switch v := e.(type) {
		case *entity.File:
			Download(c, v)
		case *entity.Directory:
			if q := c.Query("archive"); q != "" {
				format, err := ParseArchiveFormat(q)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				DownloadArchive(c, v, format)
				return
			}
			list(c, root, v)
		}
	}
}

// list answers with the children of d that root encloses.
func list(c *gin.Context, root, d *entity.Directory) {
	files, err := enclosed(root, d.Files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dirs, err := enclosed(root, d.Directories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]Entry, 0, len(files)+len(dirs))
	for _, sub := range dirs {
		entries = append(entries, Entry{Name: sub.Name(), Kind: sub.Kind().String()})
	}
	for _, f := range files {
		entries = append(entries, Entry{Name: f.Name(), Kind: f.Kind().String(), Size: f.Size()})
	}

	c.JSON(http.StatusOK, gin.H{
		"path":    d.Path(),
		"entries": entries,
	})
}
