// Package plugin implements discovery of submission and plugin files: cheap
// content-blind identification, content-aware validation in throwaway VMs,
// and extraction of the typed domain objects behind valid plugins.
package plugin

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Identifier is a content-blind admission rule over one candidate file. A
// file becomes a candidate only when every identifier of a loader accepts
// it; file content is never read at this stage.
type Identifier interface {
	Name() string
	Description() string
	Identify(path string, info fs.FileInfo) bool
}

type identifier struct {
	name        string
	description string
	accept      func(path string, info fs.FileInfo) bool
}

func (i *identifier) Name() string        { return i.name }
func (i *identifier) Description() string { return i.description }

func (i *identifier) Identify(path string, info fs.FileInfo) bool {
	return i.accept(path, info)
}

// HasExtension accepts files with the given extension, case-insensitively.
// The dot is required: HasExtension(".js").
func HasExtension(ext string) Identifier {
	lowered := strings.ToLower(ext)
	return &identifier{
		name:        "extension" + lowered,
		description: fmt.Sprintf("file name ends with %q", lowered),
		accept: func(path string, _ fs.FileInfo) bool {
			return strings.ToLower(filepath.Ext(path)) == lowered
		},
	}
}

// HasPrefix accepts files whose base name starts with prefix.
func HasPrefix(prefix string) Identifier {
	return &identifier{
		name:        "prefix:" + prefix,
		description: fmt.Sprintf("file name starts with %q", prefix),
		accept: func(path string, _ fs.FileInfo) bool {
			return strings.HasPrefix(filepath.Base(path), prefix)
		},
	}
}

// HasSuffix accepts files whose base name, extension stripped, ends with
// suffix.
func HasSuffix(suffix string) Identifier {
	return &identifier{
		name:        "suffix:" + suffix,
		description: fmt.Sprintf("file name ends with %q", suffix),
		accept: func(path string, _ fs.FileInfo) bool {
			base := filepath.Base(path)
			return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), suffix)
		},
	}
}

// MaxSize accepts files of at most limit bytes.
func MaxSize(limit int64) Identifier {
	return &identifier{
		name:        fmt.Sprintf("max-size:%d", limit),
		description: fmt.Sprintf("file is at most %d bytes", limit),
		accept: func(_ string, info fs.FileInfo) bool {
			return info != nil && info.Size() <= limit
		},
	}
}

// RegularFile accepts regular files only, excluding symlinks and other
// special entries.
func RegularFile() Identifier {
	return &identifier{
		name:        "regular-file",
		description: "entry is a regular file",
		accept: func(_ string, info fs.FileInfo) bool {
			return info != nil && info.Mode().IsRegular()
		},
	}
}
