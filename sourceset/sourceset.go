package sourceset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sae3023/ProtoData/protoerr"
)

// SourceSet is the in-memory representation of a directory of source
// files for the duration of one pipeline run (spec.md §3). It owns every
// SourceFile it holds; each SourceFile keeps a logical back-reference so
// Delete can be called from the file handle.
type SourceSet struct {
	root    string
	files   map[string]*SourceFile
	deleted map[string]bool

	preReadActions []func(*SourceFile)
}

// New returns an empty SourceSet rooted at root. Renderers normally get a
// SourceSet from FromDirectory; New is exposed for tests and for
// renderers that only create new files.
func New(root string) *SourceSet {
	return &SourceSet{
		root:    root,
		files:   make(map[string]*SourceFile),
		deleted: make(map[string]bool),
	}
}

// FromDirectory walks root recursively and reads every regular file it
// finds into a SourceFile with changed=false. Non-regular entries
// (directories themselves aside from recursion, symlinks, devices, ...)
// are ignored, per spec.md §4.4.
func FromDirectory(root string) (*SourceSet, error) {
	set := New(root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return set, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		content, err := os.ReadFile(path)
		if err != nil {
			return protoerr.Wrap(protoerr.SourceRead, "reading "+path, err)
		}
		f := newSourceFile(rel, string(content), false)
		set.attach(f)
		return nil
	})
	if err != nil {
		if pe, ok := err.(*protoerr.Error); ok {
			return nil, pe
		}
		return nil, protoerr.Wrap(protoerr.SourceRead, "walking "+root, err)
	}
	return set, nil
}

func (s *SourceSet) attach(f *SourceFile) {
	f.set = s
	for _, action := range s.preReadActions {
		f.AddPreReadAction(action)
	}
	s.files[f.path] = f
	delete(s.deleted, f.path)
}

// File looks up a file by exact path first, then by path suffix. Exactly
// one suffix match resolves; zero is FileNotFound, more than one is
// AmbiguousPath, per spec.md §4.4.
func (s *SourceSet) File(path string) (*SourceFile, error) {
	if f, ok := s.files[path]; ok {
		return f, nil
	}
	return s.findBySuffix(path)
}

func (s *SourceSet) findBySuffix(suffix string) (*SourceFile, error) {
	var matches []*SourceFile
	for _, p := range s.sortedPaths() {
		if strings.HasSuffix(p, suffix) {
			matches = append(matches, s.files[p])
		}
	}
	switch len(matches) {
	case 0:
		return nil, protoerr.Newf(protoerr.FileNotFound, "no file matching %q", suffix)
	case 1:
		return matches[0], nil
	default:
		return nil, protoerr.Newf(protoerr.AmbiguousPath, "%d files match %q", len(matches), suffix)
	}
}

// CreateFile inserts a new file marked changed, inheriting any
// prepare_code actions already registered on the set.
func (s *SourceSet) CreateFile(path, code string) *SourceFile {
	f := newSourceFile(path, code, true)
	s.attach(f)
	return f
}

// Delete removes path from the set (by the same exact-or-suffix lookup
// as File) and records its resolved path for recursive removal at
// flush. Deleting an unknown path is a FileNotFound error.
func (s *SourceSet) Delete(path string) error {
	f, err := s.File(path)
	if err != nil {
		return err
	}
	delete(s.files, f.path)
	s.deleted[f.path] = true
	return nil
}

// PrepareCode registers action on every file currently in the set as a
// per-file pre-read hook, and on the set itself so that files created
// afterward inherit it too (spec.md §4.4).
func (s *SourceSet) PrepareCode(action func(*SourceFile)) {
	s.preReadActions = append(s.preReadActions, action)
	for _, f := range s.files {
		f.AddPreReadAction(action)
	}
}

// Write flushes the set to disk: deletions first, then every changed
// file, each step processed in sorted-path order for determinism. Files
// with changed=false are left untouched.
func (s *SourceSet) Write() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return protoerr.Wrap(protoerr.SourceWrite, "creating root "+s.root, err)
	}

	deletedPaths := make([]string, 0, len(s.deleted))
	for p := range s.deleted {
		deletedPaths = append(deletedPaths, p)
	}
	sort.Strings(deletedPaths)
	for _, p := range deletedPaths {
		if err := os.RemoveAll(filepath.Join(s.root, filepath.FromSlash(p))); err != nil {
			return protoerr.Wrap(protoerr.SourceWrite, "deleting "+p, err)
		}
	}

	for _, p := range s.sortedPaths() {
		f := s.files[p]
		if !f.Changed() {
			continue
		}
		abs := filepath.Join(s.root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return protoerr.Wrap(protoerr.SourceWrite, "creating parent dir for "+p, err)
		}
		if err := os.WriteFile(abs, []byte(f.Code()), 0o644); err != nil {
			return protoerr.Wrap(protoerr.SourceWrite, "writing "+p, err)
		}
	}
	return nil
}

// Files returns every file currently in the set, in sorted-path order.
// Not part of spec.md §4.4's explicit operation list, but an unavoidable
// ambient need for any renderer that dispatches by file shape (extension,
// glob, ...) rather than by a single known path.
func (s *SourceSet) Files() []*SourceFile {
	paths := s.sortedPaths()
	out := make([]*SourceFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, s.files[p])
	}
	return out
}

// ChangedCount returns the number of files currently marked changed —
// the number Write will actually touch on disk.
func (s *SourceSet) ChangedCount() int {
	n := 0
	for _, f := range s.files {
		if f.Changed() {
			n++
		}
	}
	return n
}

// DeletedCount returns the number of paths queued for removal at flush.
func (s *SourceSet) DeletedCount() int {
	return len(s.deleted)
}

func (s *SourceSet) sortedPaths() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
