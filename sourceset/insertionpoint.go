package sourceset

import (
	"fmt"
	"strings"
)

// InsertionPoint is a named location renderers can splice generated
// content into. Its canonical textual form, per spec.md §4.5, is the
// string INSERT:'<label>' — the surrounding comment syntax (e.g. "// " or
// "# ") is the printing renderer's job, not this package's, since the
// core never knows what language a file is written in.
type InsertionPoint struct {
	Label string
}

// NewInsertionPoint returns the point identified by label.
func NewInsertionPoint(label string) *InsertionPoint {
	return &InsertionPoint{Label: label}
}

// Marker returns the bare marker substring a printed comment line must
// contain for this point to match during a scan.
func (p *InsertionPoint) Marker() string {
	return fmt.Sprintf("INSERT:'%s'", p.Label)
}

// Insertion is the builder returned by SourceFile.At(point); Add queues
// content after every line in the file that contains the point's marker.
type Insertion struct {
	file  *SourceFile
	point *InsertionPoint
}

// Add queues lines for insertion immediately after every line containing
// the target point's marker, each prefixed by 4*extraIndent spaces and
// joined into one block (spec.md §4.5 steps 1-3). If the marker appears
// nowhere in the file, Add is a no-op (step 4) and the file is not marked
// changed. Reading the file's current content as part of this call fires
// the file's pre-read actions exactly as Code() would, so an
// InsertionPointPrinter's deferred marker-printing action still
// materializes on first touch even when the first touch is an Add call
// rather than an explicit Code() read.
func (ins *Insertion) Add(lines []string, extraIndent int) {
	f := ins.file
	f.ensureRead()

	prefix := strings.Repeat(" ", 4*extraIndent)
	blockLines := make([]string, len(lines))
	for i, line := range lines {
		blockLines[i] = prefix + line
	}
	block := strings.Join(blockLines, "\n")

	marker := ins.point.Marker()
	found := false
	for i, line := range f.baseLines {
		if strings.Contains(line, marker) {
			f.pending[i] = append(f.pending[i], block)
			found = true
		}
	}
	if found {
		f.changed = true
	}
}

// AddLine is a convenience for Add with a single line.
func (ins *Insertion) AddLine(line string, extraIndent int) {
	ins.Add([]string{line}, extraIndent)
}
