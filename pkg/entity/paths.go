package entity

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize turns path into an absolute path without "." or ".." components.
// Relative paths are resolved against the working directory and a "~"
// component is replaced by the user's home directory.
func Normalize(path string) (string, error) {
	if path == "" {
		return "", invalidPath("empty path")
	}

	var built string
	if filepath.IsAbs(path) {
		built = rootOf(path)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", invalidPath("resolve '%s': %v", path, err)
		}
		built = cwd
	}

	for _, part := range splitPath(path[len(filepath.VolumeName(path)):]) {
		switch part {
		case ".":
		case "~":
			home, err := os.UserHomeDir()
			if err != nil {
				return "", invalidPath("resolve '%s': %v", path, err)
			}
			built = home
		case "..":
			built = filepath.Dir(built)
		default:
			built = filepath.Join(built, part)
		}
	}
	return built, nil
}

// Rebase maps path, which must lie under sourceRoot, onto destinationRoot.
// If path does not lie under sourceRoot the result is destinationRoot.
func Rebase(path, sourceRoot, destinationRoot string) string {
	parts := components(path)
	base := components(sourceRoot)

	i := 0
	for i < len(base) && i < len(parts) && parts[i] == base[i] {
		i++
	}
	if i < len(base) {
		return filepath.Clean(destinationRoot)
	}
	return filepath.Join(append([]string{destinationRoot}, parts[i:]...)...)
}

// components splits a cleaned path into its parts. The root of an absolute
// path (volume included) is the first part.
func components(path string) []string {
	path = filepath.Clean(path)
	var parts []string
	if filepath.IsAbs(path) {
		parts = append(parts, rootOf(path))
	}
	return append(parts, splitPath(path[len(filepath.VolumeName(path)):])...)
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r < 0x80 && os.IsPathSeparator(uint8(r))
	})
}

func rootOf(path string) string {
	return filepath.VolumeName(path) + string(filepath.Separator)
}

// baseName returns the final component of path, or "" for a root.
func baseName(path string) string {
	if filepath.Dir(path) == path {
		return ""
	}
	return filepath.Base(path)
}

// withFileName appends name to dir. An empty name means the entity is a
// filesystem root and has nothing to append.
func withFileName(name, dir string) (string, error) {
	if name == "" {
		return "", invalidPath("'%s' has no file name", dir)
	}
	return filepath.Join(dir, name), nil
}

// sameRoot reports whether a and b live under the same filesystem root.
func sameRoot(a, b string) bool {
	return strings.EqualFold(filepath.VolumeName(a), filepath.VolumeName(b))
}

// isWithin reports whether path is root or lies below it.
func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// extension mirrors the usual notion of a file extension: the part after the
// last dot, unless that dot starts the name.
func extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}

func setExtension(name, ext string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}
