package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"classc/compiler/internal"
)

var (
	path      = flag.String("path", ".", "a source file, or a directory of .cls files, to compile")
	outDir    = flag.String("out", "", "directory for generated .js files, next to each source when empty")
	checkOnly = flag.Bool("check_only", false, "only report errors, do not generate code")
	printAst  = flag.Bool("print_ast", false, "print the parsed tree of each file instead of compiling it")
	verbose   = flag.Bool("verbose", false, "log the progress of every compilation stage")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	os.Exit(run())
}

func run() int {
	files, err := internal.CollectSourceFiles(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		return 2
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no %s files at %s\n", internal.SourceFileSuffix, *path)
		return 2
	}
	var units []*internal.Unit
	if *printAst {
		for _, file := range files {
			units = append(units, internal.DumpFile(file))
		}
	} else {
		units = internal.CompileFiles(files, !*checkOnly)
	}
	status := 0
	for _, unit := range units {
		if unit.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %+v\n", unit.Err)
			status = 1
			continue
		}
		for _, d := range unit.Diagnostics.Sorted() {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", unit.Path, d.Pos.Line, d.Pos.Column, d.Kind, d.Msg)
		}
		if !unit.Diagnostics.Empty() {
			status = 1
			continue
		}
		if *printAst {
			os.Stdout.Write(unit.Output)
			continue
		}
		if *checkOnly {
			continue
		}
		if err := internal.WriteOutput(unit, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
			status = 1
		}
	}
	return status
}
