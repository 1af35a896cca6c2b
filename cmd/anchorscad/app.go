package main

import (
	"log"
	"strings"

	"github.com/chazu/anchorscad/internal/config"
	"github.com/chazu/anchorscad/pkg/engine"
	"github.com/chazu/anchorscad/pkg/kernel"
	"github.com/chazu/anchorscad/pkg/kernel/sdfx"
	"github.com/chazu/anchorscad/pkg/scad"
	"github.com/chazu/anchorscad/pkg/scene"
	"github.com/chazu/anchorscad/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs one script through evaluation, validation, OpenSCAD output and
// optionally tessellation.
type App struct {
	engine  *engine.Engine
	kernel  kernel.Kernel
	printer scad.Printer
}

// MeshData is the JSON-serializable mesh format written by -json.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable finding. Line and Col are zero for
// findings that do not come from the interpreter.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is everything one evaluation produced.
type EvalResult struct {
	SceneID  string          `json:"sceneId,omitempty"`
	SCAD     string          `json:"scad,omitempty"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App configured from cfg.
func NewApp(cfg *config.Config) *App {
	e := engine.NewEngine()
	e.Timeout = cfg.EvalTimeout
	e.Defaults = cfg.SceneDefaults()
	return &App{
		engine:  e,
		kernel:  &sdfx.SdfxKernel{MeshCells: cfg.MeshCells},
		printer: scad.Printer{Indent: cfg.Indent},
	}
}

// Evaluate takes script source and returns the OpenSCAD text, validation
// findings and, when mesh is set, one mesh per root.
func (a *App) Evaluate(source string, mesh bool) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.SceneID = s.ID.String()
	log.Printf("scene %s: %d roots", s.ID, s.Len())

	// Step 3: Validate. Blocking findings stop the pipeline.
	v := scene.Validate(s)
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !v.OK() {
		for _, e := range v.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	// Step 4: Print the scene as OpenSCAD.
	var b strings.Builder
	if err := a.printer.FprintScene(&b, s); err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: "scad output failed: " + err.Error()})
		return result
	}
	result.SCAD = b.String()

	if !mesh {
		return result
	}

	// Step 5: Tessellate the scene into triangle meshes.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	if err != nil {
		log.Printf("scene %s: tessellate error: %v", s.ID, err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 6: Convert kernel meshes to the output format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return result
}
