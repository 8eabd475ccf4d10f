// Package sourceset implements the in-memory editable source tree
// (components E and F of spec.md §2): SourceFile, SourceSet, and the
// InsertionPoint protocol.
package sourceset

import "strings"

// SourceFile is a single mutable in-memory source file, owned by exactly
// one SourceSet (spec.md §3). Content is modeled as an immutable line
// array established at read/create/overwrite time, plus a per-line
// overlay of pending insertion blocks — rendering walks the base lines
// once and splices in whatever has accumulated at each line, so that
// repeated Add calls against the same marker compose in call order
// instead of each other re-discovering the marker line and racing to sit
// closest to it.
type SourceFile struct {
	path string

	baseLines []string
	pending   map[int][]string

	changed        bool
	alreadyRead    bool
	preReadActions []func(*SourceFile)

	set *SourceSet
}

func newSourceFile(path, code string, changed bool) *SourceFile {
	return &SourceFile{
		path:      path,
		baseLines: splitLines(code),
		pending:   make(map[int][]string),
		changed:   changed,
	}
}

// Path returns the file's path, relative to its SourceSet's root.
func (f *SourceFile) Path() string { return f.path }

// Changed reports whether this file must be written at flush.
func (f *SourceFile) Changed() bool { return f.changed }

// Code returns the file's current materialized content, firing any
// pending pre-read actions the first time it is called (spec.md §3's
// already_read/pre_read_actions contract).
func (f *SourceFile) Code() string {
	f.ensureRead()
	return f.render()
}

// Lines returns Code() split on "\n".
func (f *SourceFile) Lines() []string {
	return splitLines(f.Code())
}

// ensureRead fires pre-read actions exactly once, on first access,
// whether that access comes from Code(), Lines(), or an Insertion.Add
// call. This is the "lazy marker emission" trick from spec.md §4.4 and
// §9: an InsertionPointPrinter's prepare_code action runs only when some
// renderer actually looks at the file, so files nobody touches are never
// perturbed (spec.md §8's insertion-idempotence property).
func (f *SourceFile) ensureRead() {
	if f.alreadyRead {
		return
	}
	f.alreadyRead = true
	actions := f.preReadActions
	f.preReadActions = nil
	for _, action := range actions {
		action(f)
	}
}

func (f *SourceFile) render() string {
	var b strings.Builder
	for i, line := range f.baseLines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
		for _, block := range f.pending[i] {
			b.WriteString("\n")
			b.WriteString(block)
		}
	}
	return b.String()
}

// Overwrite replaces the file's entire contents and marks it changed.
// Any insertion-point markers (and anything queued against them) are
// lost, per spec.md §4.4 — callers that want to preserve markers should
// prefer At(point).Add(...) instead.
func (f *SourceFile) Overwrite(code string) {
	f.baseLines = splitLines(code)
	f.pending = make(map[int][]string)
	f.changed = true
}

// AddPreReadAction registers action to run the next time this file's
// content is first read (via Code, Lines, or an insertion), or
// immediately if the file has already been read once.
func (f *SourceFile) AddPreReadAction(action func(*SourceFile)) {
	if f.alreadyRead {
		action(f)
		return
	}
	f.preReadActions = append(f.preReadActions, action)
}

// Delete removes this file from its owning SourceSet. It is a
// convenience for renderers that hold a *SourceFile handle rather than
// the path, per spec.md §3's "back-reference ... so that delete() can be
// called from the file handle".
func (f *SourceFile) Delete() error {
	return f.set.Delete(f.path)
}

// At returns an Insertion builder targeting point within this file.
func (f *SourceFile) At(point *InsertionPoint) *Insertion {
	return &Insertion{file: f, point: point}
}

func splitLines(code string) []string {
	if code == "" {
		return []string{""}
	}
	return strings.Split(code, "\n")
}
