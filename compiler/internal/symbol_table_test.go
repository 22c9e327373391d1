package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable_Shadowing(t *testing.T) {
	diags := &Diagnostics{}
	table := NewSymbolTable(diags)
	table.EnterScope(GlobalScope)
	outer := table.Declare("x", FuncVariableType, IntType, Initialized, Position{Line: 1, Column: 1})
	table.EnterScope(BlockScope)
	inner := table.Declare("x", FuncVariableType, StrType, Uninitialized, Position{Line: 2, Column: 1})
	assert.True(t, diags.Empty())

	desc, ok := table.LookUp("x")
	require.True(t, ok)
	assert.Same(t, inner, desc)
	assert.Equal(t, StrType, desc.Type())

	table.ExitScope()
	desc, ok = table.LookUp("x")
	require.True(t, ok)
	assert.Same(t, outer, desc)

	_, ok = table.LookUp("y")
	assert.False(t, ok)
	table.ExitScope()
	assert.Equal(t, 0, table.Depth())
}

func TestSymbolTable_DuplicateDeclaration(t *testing.T) {
	diags := &Diagnostics{}
	table := NewSymbolTable(diags)
	table.EnterScope(FuncScope)
	first := table.Declare("a", FuncParamType, IntType, Initialized, Position{Line: 1, Column: 7})
	second := table.Declare("a", FuncVariableType, StrType, Initialized, Position{Line: 2, Column: 5})
	assert.Same(t, first, second)
	require.Equal(t, []ErrorKind{KindDuplicateDeclare}, diags.Kinds())
	assert.Equal(t, Position{Line: 2, Column: 5}, diags.List()[0].Pos)
	assert.Equal(t, "a already declared in this function scope at 1:7", diags.List()[0].Msg)
}

func TestSymbolTable_InLoop(t *testing.T) {
	table := NewSymbolTable(&Diagnostics{})
	table.EnterScope(GlobalScope)
	assert.False(t, table.InLoop())
	assert.False(t, table.InFunction())
	table.EnterScope(LoopScope)
	table.EnterScope(BlockScope)
	assert.True(t, table.InLoop())
	table.ExitScope()
	table.ExitScope()

	table.EnterScope(FuncScope)
	assert.True(t, table.InFunction())
	assert.False(t, table.InLoop())
	table.EnterScope(LoopScope)
	assert.True(t, table.InLoop())
}

func TestSymbolTable_SnapshotRestore(t *testing.T) {
	table := NewSymbolTable(&Diagnostics{})
	table.EnterScope(GlobalScope)
	x := table.Declare("x", FuncVariableType, IntType, Uninitialized, Position{})
	y := table.Declare("y", FuncVariableType, IntType, Initialized, Position{})
	before := table.snapshot()
	assert.Equal(t, InitFacts{x: Uninitialized, y: Initialized}, before)

	table.MarkInitialized(x)
	assert.Equal(t, Initialized, x.Init())
	table.restore(before)
	assert.Equal(t, Uninitialized, x.Init())
	assert.Equal(t, Initialized, y.Init())
}

func TestSymbolTable_ExitWithoutEnter(t *testing.T) {
	table := NewSymbolTable(&Diagnostics{})
	assert.Panics(t, func() { table.ExitScope() })
}
