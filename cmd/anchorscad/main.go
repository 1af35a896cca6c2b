// Command anchorscad evaluates a scene script and writes OpenSCAD source.
//
//	anchorscad [flags] file.zy
//
// Use "-" as the file name to read the script from standard input.
// Settings such as the default $fn come from ANCHORSCAD_* environment
// variables.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/anchorscad/internal/config"
)

// errFailed reports that findings were already printed.
var errFailed = errors.New("evaluation failed")

type options struct {
	scriptPath string
	outPath    string
	validate   bool
	mesh       bool
	json       bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("anchorscad: ")

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "anchorscad: %v\n", err)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(opts, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errFailed) {
			log.Print(err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("anchorscad", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: anchorscad [flags] <script.zy | ->\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.outPath, "o", "", "Write output to this file instead of stdout")
	fs.BoolVar(&opts.validate, "validate", false, "Print validation findings only; exit non-zero on errors")
	fs.BoolVar(&opts.mesh, "mesh", false, "Tessellate with the sdfx kernel and report triangle counts")
	fs.BoolVar(&opts.json, "json", false, "Write the full result, meshes included, as JSON")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing script path")
	}
	opts.scriptPath = fs.Arg(0)
	return opts, nil
}

func run(opts options, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	source, err := readScript(opts.scriptPath, stdin)
	if err != nil {
		return err
	}

	app := NewApp(cfg)
	result := app.Evaluate(source, opts.mesh || opts.json)

	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "%s: warning: %s\n", opts.scriptPath, w.Message)
	}
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(stderr, "%s:%d:%d: %s\n", opts.scriptPath, e.Line, e.Col, e.Message)
		} else {
			fmt.Fprintf(stderr, "%s: %s\n", opts.scriptPath, e.Message)
		}
	}
	if len(result.Errors) > 0 {
		return errFailed
	}
	if opts.validate {
		return nil
	}

	if opts.mesh {
		for _, m := range result.Meshes {
			log.Printf("scene %s: part %s: %d triangles", result.SceneID, m.PartName, len(m.Indices)/3)
		}
	}

	if opts.outPath == "" {
		return writeResult(stdout, opts, result)
	}
	f, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeResult(f, opts, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// writeResult prints the scene as JSON or OpenSCAD source.
func writeResult(out io.Writer, opts options, result EvalResult) error {
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	}
	if _, err := io.WriteString(out, result.SCAD); err != nil {
		return fmt.Errorf("write scad: %w", err)
	}
	return nil
}

func readScript(path string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}
