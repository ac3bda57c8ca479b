package source

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Load reads a file from disk and normalizes CRLF/BOM.
func Load(path string) (File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return FromBytes(path, content, 0), nil
}

// FromBytes normalizes content the same way Load does.
func FromBytes(path string, content []byte, flags FileFlags) File {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return File{
		Path:    normalizePath(path),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены.
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func normalizePath(p string) string {
	if p == "" {
		return p
	}
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath returns p relative to base, or the absolute path when p lies outside base.
func RelativePath(p, base string) (string, error) {
	absP, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absP)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absP), nil
	}
	return normalizePath(rel), nil
}

// DisplayPath formats a path by mode: "absolute", "relative", "basename" or "auto".
func DisplayPath(p, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(p); err == nil {
			return normalizePath(abs)
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(p, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(p)
	case "auto":
		// короткие и относительные пути оставляем как есть
		if len(p) >= 40 && filepath.IsAbs(p) {
			return filepath.Base(p)
		}
	}
	return p
}
