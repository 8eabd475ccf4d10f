package rendering

import (
	"strings"

	"github.com/sae3023/ProtoData/event"
	"github.com/sae3023/ProtoData/projection"
	"github.com/sae3023/ProtoData/sourceset"
)

// WordPrefixPlugin tracks whether a message type named Word was ever
// discovered in the descriptor set. Paired with WordPrefixRenderer it
// models spec.md §8 scenario 1 ("a renderer that prepends _ to the word
// Journey, keyed on a TypeEntered("Journey") event").
type WordPrefixPlugin struct {
	Word string
}

func (p *WordPrefixPlugin) FillIn(b *projection.Builder) {
	repo := projection.NewRepository(
		func(ev event.Event) (string, bool) {
			te, ok := ev.(*event.TypeEnteredEvent)
			if !ok || te.Type.Name.SimpleName != p.Word {
				return "", false
			}
			return p.Word, true
		},
		func(prior bool, _ event.Event) bool { return true },
	)
	projection.Register(b, repo)
}

// WordPrefixRenderer prepends Prefix to the first occurrence of Word in
// FilePath's content, but only if WordPrefixPlugin's projection actually
// saw Word discovered in the descriptor set — so the renderer can be
// wired up even against a source tree/descriptor pairing where the word
// never appears, and it is a no-op rather than an error.
type WordPrefixRenderer struct {
	Word, Prefix, FilePath string
}

func (r *WordPrefixRenderer) Render(ctx *projection.Context, set *sourceset.SourceSet) error {
	repo, ok := projection.Select[string, bool](ctx)
	if !ok {
		return nil
	}
	if _, found := repo.Get(r.Word); !found {
		return nil
	}
	f, err := set.File(r.FilePath)
	if err != nil {
		return err
	}
	code := f.Code()
	replaced := strings.Replace(code, r.Word, r.Prefix+r.Word, 1)
	if replaced != code {
		f.Overwrite(replaced)
	}
	return nil
}

// Prepender inserts one line at Point in FilePath — spec.md §8 scenario
// 4's second renderer in the chain, run after an InsertionPointPrinter
// has bracketed the file.
type Prepender struct {
	Point    *sourceset.InsertionPoint
	FilePath string
	Line     string
}

func (p *Prepender) Render(_ *projection.Context, set *sourceset.SourceSet) error {
	f, err := set.File(p.FilePath)
	if err != nil {
		return err
	}
	f.At(p.Point).AddLine(p.Line, 0)
	return nil
}

// FileCreator emits a new file — spec.md §8 scenario 2.
type FileCreator struct {
	Path, Content string
}

func (c *FileCreator) Render(_ *projection.Context, set *sourceset.SourceSet) error {
	set.CreateFile(c.Path, c.Content)
	return nil
}

// FileDeleter removes an existing file — spec.md §8 scenario 3.
type FileDeleter struct {
	Path string
}

func (d *FileDeleter) Render(_ *projection.Context, set *sourceset.SourceSet) error {
	return set.Delete(d.Path)
}

// ExtensionRenderer appends Suffix to the content of every file in the
// set whose language Matches, modeling spec.md §8 scenario 5's
// per-language dispatch (JsRenderer/KtRenderer): "each only mutates
// files whose extension matches".
type ExtensionRenderer struct {
	Language Language
	Suffix   string
}

func (r *ExtensionRenderer) Render(_ *projection.Context, set *sourceset.SourceSet) error {
	for _, f := range set.Files() {
		if !r.Language.Matches(f.Path()) {
			continue
		}
		f.Overwrite(f.Code() + "\n" + r.Suffix)
	}
	return nil
}

// JsRenderer and KtRenderer are the concrete ExtensionRenderer instances
// scenario 5 and scenario 6 name.
func JsRenderer() *ExtensionRenderer {
	return &ExtensionRenderer{Language: JavaScript, Suffix: "Hello JavaScript"}
}

func KtRenderer() *ExtensionRenderer {
	return &ExtensionRenderer{Language: Kotlin, Suffix: "Hello Kotlin"}
}
