package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	testData := []struct {
		Content string
		Kinds   []ErrorKind
	}{
		{Content: "println(1);"},
		{Content: "let x: Int = ;", Kinds: []ErrorKind{KindSyntax}},
		{Content: `let s: Str = "abc`, Kinds: []ErrorKind{KindSyntax}},
		{Content: "let x: Int = 1 @ 2;", Kinds: []ErrorKind{KindSyntax}},
		{
			Content: `class A{init(){} meth f()->Int{return 1;}}
				class B extends A{init(){super();} meth f()->Int{return 2;}}
				let a: A = new B();
				a.f();`,
		},
		{
			Content: `class Person { let name: Str; init(name: Str, n: Int) { this.name = name; } }
				let p: Person = new Person();`,
			Kinds: []ErrorKind{KindArgumentCount},
		},
		{Content: `let x: Int = "s"; println(y);`, Kinds: []ErrorKind{KindTypeMismatch, KindUndefinedName}},
	}
	for _, data := range testData {
		program, hierarchy, diags := Compile(strings.NewReader(data.Content))
		assert.Equal(t, data.Kinds, diags.Kinds(), data.Content)
		if data.Kinds == nil {
			assert.NotNil(t, program, data.Content)
			assert.NotNil(t, hierarchy, data.Content)
			assert.NoError(t, diags.Err())
		} else {
			assert.Nil(t, program, data.Content)
			assert.Error(t, diags.Err())
		}
	}
}

func TestDiagnostics(t *testing.T) {
	diags := &Diagnostics{}
	diags.add(KindUndefinedName, Position{Line: 2, Column: 3}, "undefined variable %s", "x")
	diags.add(KindUndefinedName, Position{Line: 2, Column: 3}, "undefined variable %s", "x")
	diags.add(KindMissingReturn, Position{Line: 1, Column: 1}, "f must return")
	require.Equal(t, 2, diags.Len())
	assert.True(t, diags.HasKind(KindMissingReturn))
	assert.False(t, diags.HasKind(KindSyntax))
	assert.Equal(t, "UndefinedNameError at 2:3: undefined variable x", diags.List()[0].Error())

	var diag *Diagnostic
	require.True(t, errors.As(diags.Err(), &diag))
	assert.Equal(t, KindUndefinedName, diag.Kind)

	var empty *Diagnostics
	assert.True(t, empty.Empty())
	assert.Nil(t, empty.Kinds())
	assert.NoError(t, empty.Err())

	var positions []Position
	for _, d := range diags.Sorted() {
		positions = append(positions, d.Pos)
	}
	assert.Equal(t, []Position{{Line: 1, Column: 1}, {Line: 2, Column: 3}}, positions)
	assert.Equal(t, KindUndefinedName, diags.List()[0].Kind)
	assert.Nil(t, empty.Sorted())

	assert.True(t, Position{Line: 1, Column: 9}.Before(Position{Line: 2, Column: 1}))
	assert.False(t, Position{Line: 2, Column: 1}.Before(Position{Line: 2, Column: 1}))
}

func writeSource(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCollectSourceFiles(t *testing.T) {
	dir := t.TempDir()
	b := writeSource(t, dir, "b.cls", "println(1);")
	a := writeSource(t, dir, "a.cls", "println(2);")
	writeSource(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.cls"), 0o755))

	files, err := CollectSourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	files, err = CollectSourceFiles(b)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, files)

	_, err = CollectSourceFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	clean := writeSource(t, dir, "clean.cls", "println(1);")
	broken := writeSource(t, dir, "broken.cls", "let x: Int; println(x);")
	missing := filepath.Join(dir, "missing.cls")

	units := CompileFiles([]string{clean, broken, missing}, true)
	require.Len(t, units, 3)

	assert.Equal(t, clean, units[0].Path)
	assert.NoError(t, units[0].Err)
	assert.True(t, units[0].Diagnostics.Empty())
	assert.Equal(t, "console.log(1);\n", string(units[0].Output))

	assert.Equal(t, broken, units[1].Path)
	assert.Equal(t, []ErrorKind{KindUninitializedRead}, units[1].Diagnostics.Kinds())
	assert.Nil(t, units[1].Output)
	assert.Nil(t, units[1].Program)

	assert.Error(t, units[2].Err)

	checked := CompileFile(clean, false)
	assert.NotNil(t, checked.Program)
	assert.Nil(t, checked.Output)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	unit := CompileFile(writeSource(t, dir, "hello.cls", `println("hello");`), true)
	require.True(t, unit.Diagnostics.Empty())

	assert.Equal(t, filepath.Join(dir, "hello.js"), unit.OutputPath(""))
	require.NoError(t, WriteOutput(unit, ""))
	content, err := os.ReadFile(filepath.Join(dir, "hello.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(\"hello\");\n", string(content))

	outDir := filepath.Join(dir, "out", "js")
	require.NoError(t, WriteOutput(unit, outDir))
	content, err = os.ReadFile(filepath.Join(outDir, "hello.js"))
	require.NoError(t, err)
	assert.Equal(t, unit.Output, content)
}
