package sourceset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sae3023/ProtoData/sourceset"
)

// TestInsertionComposition is spec.md §8's insertion-composition property:
// at(P).add(L1) followed by at(P).add(L2) at the same marker yields, after
// the marker line, L1 then L2.
func TestInsertionComposition(t *testing.T) {
	set := sourceset.New(t.TempDir())
	f := set.CreateFile("Sample.java", "// INSERT:'point'\ntail")
	point := sourceset.NewInsertionPoint("point")

	f.At(point).AddLine("L1", 0)
	f.At(point).AddLine("L2", 0)

	want := "// INSERT:'point'\nL1\nL2\ntail"
	assert.Equal(t, want, f.Code())
}

func TestInsertionAtMultipleMarkersWithSameLabel(t *testing.T) {
	set := sourceset.New(t.TempDir())
	f := set.CreateFile("Sample.java", "// INSERT:'p'\nmiddle\n// INSERT:'p'")
	point := sourceset.NewInsertionPoint("p")

	f.At(point).AddLine("X", 0)

	want := "// INSERT:'p'\nX\nmiddle\n// INSERT:'p'\nX"
	assert.Equal(t, want, f.Code())
}

func TestInsertionNoMatchIsNoop(t *testing.T) {
	set := sourceset.New(t.TempDir())
	f := set.CreateFile("Sample.java", "plain content")
	f.At(sourceset.NewInsertionPoint("missing")).AddLine("X", 0)

	assert.Equal(t, "plain content", f.Code())
}

func TestInsertionExtraIndent(t *testing.T) {
	set := sourceset.New(t.TempDir())
	f := set.CreateFile("Sample.java", "// INSERT:'p'")
	f.At(sourceset.NewInsertionPoint("p")).Add([]string{"a", "b"}, 1)

	want := "// INSERT:'p'\n    a\n    b"
	assert.Equal(t, want, f.Code())
}

func TestOverwriteDropsInsertionPoints(t *testing.T) {
	set := sourceset.New(t.TempDir())
	f := set.CreateFile("Sample.java", "// INSERT:'p'\nbody")
	point := sourceset.NewInsertionPoint("p")
	f.At(point).AddLine("X", 0)

	f.Overwrite("fresh content")
	f.At(point).AddLine("Y", 0) // marker is gone now, no-op

	assert.Equal(t, "fresh content", f.Code())
}
