// Command protodata is a thin, deliberately small CLI front-end over the
// pipeline package. It reads a serialized CodeGeneratorRequest, a YAML
// manifest naming which example plugins/renderers (from the rendering
// package) to wire up and in what order, and a source root; it then
// calls pipeline.Orchestrator.Run once and reports success or failure.
//
// This command does not implement reflective class loading — spec.md §1
// names that as an external collaborator, out of scope for the core.
// Manifest entries map onto a fixed Go switch over rendering's example
// plugins/renderers instead; see SPEC_FULL.md §6.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
	"gopkg.in/yaml.v3"

	"github.com/sae3023/ProtoData/pipeline"
	"github.com/sae3023/ProtoData/rendering"
	"github.com/sae3023/ProtoData/sourceset"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("protodata", flag.ContinueOnError)
	requestPath := fs.StringP("request", "r", "", "path to a serialized CodeGeneratorRequest")
	manifestPath := fs.StringP("manifest", "m", "", "path to a YAML plugin/renderer manifest")
	sourceRoot := fs.StringP("source", "s", ".", "root of the generated source tree to mutate")
	withMetrics := fs.Bool("metrics", false, "register Prometheus instrumentation for this run")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	diag := newDiagnostics()

	if *requestPath == "" || *manifestPath == "" {
		diag.errorf("both --request and --manifest are required")
		return 2
	}

	reqBytes, err := os.ReadFile(*requestPath)
	if err != nil {
		diag.errorf("reading request: %v", err)
		return 1
	}
	var req pluginpb.CodeGeneratorRequest
	if err := proto.Unmarshal(reqBytes, &req); err != nil {
		diag.errorf("parsing request: %v", err)
		return 1
	}

	manifestBytes, err := os.ReadFile(*manifestPath)
	if err != nil {
		diag.errorf("reading manifest: %v", err)
		return 1
	}
	var manifest Manifest
	if err := yaml.Unmarshal(manifestBytes, &manifest); err != nil {
		diag.errorf("parsing manifest: %v", err)
		return 1
	}

	plugins, err := manifest.buildPlugins()
	if err != nil {
		diag.errorf("building plugins: %v", err)
		return 1
	}
	renderers, err := manifest.buildRenderers()
	if err != nil {
		diag.errorf("building renderers: %v", err)
		return 1
	}

	orch := &pipeline.Orchestrator{Plugins: plugins, Renderers: renderers}
	if *withMetrics {
		orch.Metrics = pipeline.NewMetrics(prometheus.DefaultRegisterer)
	}

	done := make(chan struct{})
	go spin(diag, done)
	err = orch.Run(&req, *sourceRoot)
	close(done)

	if err != nil {
		diag.errorf("pipeline run failed: %v", err)
		return 1
	}
	diag.ok("pipeline run complete")
	return 0
}

// spin shows an indeterminate progress bar for the duration of the run.
// This is purely cosmetic CLI polish; it has no bearing on the pipeline
// itself, which remains single-threaded and synchronous per spec.md §5.
func spin(diag *diagnostics, done <-chan struct{}) {
	if !diag.interactive {
		return
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("running pipeline"),
		progressbar.OptionSpinnerType(14),
	)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// diagnostics prints colored status lines (to stdout or stderr) when stdout
// is a terminal, and plain text otherwise, the way kraklabs/cie's CLI does.
type diagnostics struct {
	interactive bool
	errColor    *color.Color
	okColor     *color.Color
}

func newDiagnostics() *diagnostics {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &diagnostics{
		interactive: interactive,
		errColor:    color.New(color.FgRed, color.Bold),
		okColor:     color.New(color.FgGreen, color.Bold),
	}
}

func (d *diagnostics) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if d.interactive {
		d.errColor.Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

func (d *diagnostics) ok(msg string) {
	if d.interactive {
		d.okColor.Fprintln(os.Stdout, msg)
		return
	}
	fmt.Fprintln(os.Stdout, msg)
}

// Manifest names which example plugins/renderers to run, and in what
// order. It stands in for the reflective class loader spec.md §1
// excludes from scope.
type Manifest struct {
	Plugins   []ManifestEntry `yaml:"plugins"`
	Renderers []ManifestEntry `yaml:"renderers"`
}

// ManifestEntry names one plugin or renderer and its constructor
// arguments. Only the fields relevant to Type are read; the rest are
// ignored, matching the manifest's role as a thin selection mechanism
// rather than a general configuration language.
type ManifestEntry struct {
	Type     string   `yaml:"type"`
	Word     string   `yaml:"word"`
	Prefix   string   `yaml:"prefix"`
	File     string   `yaml:"file"`
	Path     string   `yaml:"path"`
	Content  string   `yaml:"content"`
	Point    string   `yaml:"point"`
	Line     string   `yaml:"line"`
	Language string   `yaml:"language"`
	Labels   []string `yaml:"labels"`
}

func (m Manifest) buildPlugins() ([]pipeline.Plugin, error) {
	out := make([]pipeline.Plugin, 0, len(m.Plugins))
	for _, e := range m.Plugins {
		switch e.Type {
		case "word_prefix":
			out = append(out, &rendering.WordPrefixPlugin{Word: e.Word})
		default:
			return nil, fmt.Errorf("unknown plugin type %q", e.Type)
		}
	}
	return out, nil
}

func (m Manifest) buildRenderers() ([]pipeline.Renderer, error) {
	out := make([]pipeline.Renderer, 0, len(m.Renderers))
	for _, e := range m.Renderers {
		switch e.Type {
		case "word_prefix":
			out = append(out, &rendering.WordPrefixRenderer{Word: e.Word, Prefix: e.Prefix, FilePath: e.File})
		case "insertion_point_printer":
			out = append(out, rendering.NewInsertionPointPrinter(languageByName(e.Language), e.Labels...))
		case "prepender":
			out = append(out, &rendering.Prepender{Point: sourceset.NewInsertionPoint(e.Point), FilePath: e.File, Line: e.Line})
		case "file_creator":
			out = append(out, &rendering.FileCreator{Path: e.Path, Content: e.Content})
		case "file_deleter":
			out = append(out, &rendering.FileDeleter{Path: e.Path})
		case "js_renderer":
			out = append(out, rendering.JsRenderer())
		case "kt_renderer":
			out = append(out, rendering.KtRenderer())
		default:
			return nil, fmt.Errorf("unknown renderer type %q", e.Type)
		}
	}
	return out, nil
}

func languageByName(name string) rendering.Language {
	switch name {
	case "java":
		return rendering.Java
	case "javascript", "js":
		return rendering.JavaScript
	case "kotlin", "kt":
		return rendering.Kotlin
	case "shell", "sh":
		return rendering.Shell
	default:
		return rendering.Java
	}
}
