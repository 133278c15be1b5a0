package web

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// ArchiveFormat names a tar flavour a directory can be downloaded as.
type ArchiveFormat string

const (
	ArchiveTar     ArchiveFormat = "tar"
	ArchiveTarGzip ArchiveFormat = "tar.gz"
	ArchiveTarZstd ArchiveFormat = "tar.zst"
)

// ParseArchiveFormat accepts "tar", "tar.gz" (or "tgz") and "tar.zst".
func ParseArchiveFormat(s string) (ArchiveFormat, error) {
	switch s {
	case "tar":
		return ArchiveTar, nil
	case "tar.gz", "tgz":
		return ArchiveTarGzip, nil
	case "tar.zst":
		return ArchiveTarZstd, nil
	}
	return "", fmt.Errorf("unknown archive format %q (want tar, tar.gz or tar.zst)", s)
}

func (f ArchiveFormat) contentType() string {
	switch f {
	case ArchiveTarGzip:
		return "application/gzip"
	case ArchiveTarZstd:
		return "application/zstd"
	default:
		return "application/x-tar"
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// WriteArchive writes the tree below d to w as a tar archive in the given
// format. Entry names are prefixed with the directory name, so extracting
// the archive recreates the directory itself.
func WriteArchive(w io.Writer, d *entity.Directory, format ArchiveFormat) error {
	var cw io.WriteCloser
	switch format {
	case ArchiveTar:
		cw = nopWriteCloser{w}
	case ArchiveTarGzip:
		cw = gzip.NewWriter(w)
	case ArchiveTarZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		cw = zw
	default:
		return fmt.Errorf("unknown archive format %q", format)
	}

	tw := tar.NewWriter(cw)
	if err := writeTree(tw, d); err != nil {
		tw.Close()
		cw.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// writeTree walks breadth first so that every directory header precedes
// its contents. Entries whose links lead outside root are left out, and a
// directory reached twice through links is written once.
func writeTree(tw *tar.Writer, root *entity.Directory) error {
	base := archiveName(root)
	real, err := root.RealPath()
	if err != nil {
		return err
	}
	seen := map[string]bool{real: true}

	type pending struct {
		dir  *entity.Directory
		name string
	}
	queue := []pending{{root, base}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if err := writeHeader(tw, cur.dir, cur.name+"/"); err != nil {
			return err
		}

		dirs, err := enclosed(root, cur.dir.Directories)
		if err != nil {
			return err
		}
		for _, sub := range dirs {
			real, err := sub.RealPath()
			if err != nil {
				return err
			}
			if seen[real] {
				continue
			}
			seen[real] = true
			queue = append(queue, pending{sub, path.Join(cur.name, sub.Name())})
		}

		files, err := enclosed(root, cur.dir.Files)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := writeFile(tw, f, path.Join(cur.name, f.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// enclosed lists entries with list and keeps those root encloses.
func enclosed[E entity.Info](root *entity.Directory, list func() ([]E, error)) ([]E, error) {
	all, err := list()
	if err != nil {
		return nil, err
	}
	kept := all[:0]
	for _, e := range all {
		ok, err := root.Encloses(e)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func writeHeader(tw *tar.Writer, e entity.Info, name string) error {
	info, err := e.Metadata()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	return tw.WriteHeader(hdr)
}

func writeFile(tw *tar.Writer, f *entity.File, name string) error {
	if err := writeHeader(tw, f, name); err != nil {
		return err
	}
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(tw, r)
	return err
}

func archiveName(d *entity.Directory) string {
	if name := d.Name(); name != "" {
		return name
	}
	return "archive"
}

// DownloadArchive streams d as an attachment in the given format. Errors
// after the first byte is written cannot change the status; they are
// recorded on the context and the response is cut short.
func DownloadArchive(c *gin.Context, d *entity.Directory, format ArchiveFormat) {
	filename := archiveName(d) + "." + string(format)
	c.Header("Content-Disposition", "attachment; filename="+encodeFilename(filename))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Header("Content-Type", format.contentType())
	c.Status(http.StatusOK)

	if err := WriteArchive(c.Writer, d, format); err != nil {
		_ = c.Error(err)
		c.Abort()
	}
}
