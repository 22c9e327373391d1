package internal

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const SourceFileSuffix = ".cls"

// Compile tokenizes, parses and checks one compilation unit. A syntax error stops the
// pipeline at the parser. The program is only returned when no diagnostic was reported.
func Compile(rd io.Reader) (*ProgramAst, *ClassHierarchy, *Diagnostics) {
	program, diags := Parse(rd)
	if program == nil {
		return nil, nil, diags
	}
	hierarchy, checkDiags := Check(program)
	if !checkDiags.Empty() {
		return nil, nil, checkDiags
	}
	return program, hierarchy, checkDiags
}

// Parse tokenizes and parses one compilation unit. The program is nil when a syntax error was
// reported.
func Parse(rd io.Reader) (*ProgramAst, *Diagnostics) {
	diags := &Diagnostics{}
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(rd)
	if err != nil {
		addError(diags, err)
		return nil, diags
	}
	parser := &Parser{}
	program, err := parser.Parse(tokens)
	if err != nil {
		addError(diags, err)
		return nil, diags
	}
	return program, diags
}

// Check runs the semantic passes over a parsed program: hierarchy, then types, scopes and
// dataflow. It may be run again on the same program and reports the same diagnostics.
func Check(program *ProgramAst) (*ClassHierarchy, *Diagnostics) {
	diags := &Diagnostics{}
	hierarchy := BuildClassHierarchy(program.Classes, diags)
	NewTypeChecker(hierarchy, diags).CheckProgram(program)
	return hierarchy, diags
}

func addError(diags *Diagnostics, err error) {
	var diag *Diagnostic
	if errors.As(err, &diag) {
		diags.Add(diag)
		return
	}
	diags.add(KindSyntax, Position{Line: 1, Column: 1}, "%v", err)
}

// Unit is one source file going through the pipeline.
type Unit struct {
	Path        string
	Program     *ProgramAst
	Diagnostics *Diagnostics
	Output      []byte
	Err         error // I/O failure reading or writing the unit.
}

// OutputPath is where the JavaScript for the unit goes inside `outDir`, or next to the source
// when `outDir` is empty.
func (unit *Unit) OutputPath(outDir string) string {
	name := strings.TrimSuffix(filepath.Base(unit.Path), SourceFileSuffix) + ".js"
	if outDir == "" {
		return filepath.Join(filepath.Dir(unit.Path), name)
	}
	return filepath.Join(outDir, name)
}

// CompileFile compiles one file, generating code when `emit` is set and the file is clean.
func CompileFile(path string, emit bool) *Unit {
	unit := &Unit{Path: path}
	log.Printf("compiler: start compiling %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		unit.Err = err
		return unit
	}
	program, hierarchy, diags := Compile(bytes.NewReader(content))
	unit.Program, unit.Diagnostics = program, diags
	if !diags.Empty() {
		log.Printf("compiler: %s has %d errors", path, diags.Len())
		return unit
	}
	if emit {
		log.Printf("compiler: start generate codes for %s", path)
		unit.Output = GenerateCode(program, hierarchy)
	}
	return unit
}

// DumpFile parses one file and prints its tree. Only syntax errors are reported.
func DumpFile(path string) *Unit {
	unit := &Unit{Path: path}
	log.Printf("compiler: start parsing %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		unit.Err = err
		return unit
	}
	unit.Program, unit.Diagnostics = Parse(bytes.NewReader(content))
	if unit.Program != nil {
		unit.Output = DumpAst(unit.Program)
	}
	return unit
}

// CompileFiles compiles independent units concurrently. Each unit has its own hierarchy,
// checker and diagnostics; results keep the order of `paths`.
func CompileFiles(paths []string, emit bool) []*Unit {
	units := make([]*Unit, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			units[i] = CompileFile(path, emit)
		}(i, path)
	}
	wg.Wait()
	return units
}

// CollectSourceFiles returns `path` itself when it is a file, or the source files directly
// inside it, sorted by name.
func CollectSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isSourceFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isSourceFile(fileName string) bool {
	return strings.HasSuffix(fileName, SourceFileSuffix)
}

// WriteOutput saves the generated code of a clean unit.
func WriteOutput(unit *Unit, outDir string) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(unit.OutputPath(outDir), unit.Output, 0o644)
}
