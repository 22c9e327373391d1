package internal

// SymbolType tells where a name was declared.
type SymbolType int

const (
	ClassVariableSymbolType SymbolType = iota // A field, visible in methods and the constructor.
	FuncParamType
	FuncVariableType
	ThisSymbolType
)

// SymbolDesc is one binding: the declared type of a name plus its current initialization
// state, which the dataflow rules update as the checker walks a body.
type SymbolDesc struct {
	name         string
	symbolType   SymbolType
	variableType VariableType
	init         InitState
	pos          Position
}

func (desc *SymbolDesc) Name() string {
	return desc.name
}

func (desc *SymbolDesc) Type() VariableType {
	return desc.variableType
}

func (desc *SymbolDesc) Init() InitState {
	return desc.init
}

func (desc *SymbolDesc) IsField() bool {
	return desc.symbolType == ClassVariableSymbolType
}

type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	ClassScope
	FuncScope
	BlockScope
	LoopScope
)

func (kind ScopeKind) String() string {
	switch kind {
	case GlobalScope:
		return "global"
	case ClassScope:
		return "class"
	case FuncScope:
		return "function"
	case BlockScope:
		return "block"
	case LoopScope:
		return "loop"
	}
	return "unknown"
}

type scope struct {
	kind    ScopeKind
	symbols map[string]*SymbolDesc
}

// SymbolTable is the scope stack of one body. Lookup walks from the innermost scope outward,
// so an inner declaration hides an outer one until its scope is exited.
type SymbolTable struct {
	scopes []*scope
	diags  *Diagnostics
}

func NewSymbolTable(diags *Diagnostics) *SymbolTable {
	return &SymbolTable{diags: diags}
}

func (table *SymbolTable) EnterScope(kind ScopeKind) {
	table.scopes = append(table.scopes, &scope{kind: kind, symbols: map[string]*SymbolDesc{}})
}

func (table *SymbolTable) ExitScope() {
	if len(table.scopes) == 0 {
		panic("symbol table: exit scope without matching enter")
	}
	table.scopes = table.scopes[:len(table.scopes)-1]
}

func (table *SymbolTable) Depth() int {
	return len(table.scopes)
}

// Declare binds `name` in the innermost scope. A name already bound in that same scope is a
// DuplicateDeclarationError and the earlier binding is kept.
func (table *SymbolTable) Declare(name string, symbolType SymbolType, variableType VariableType, init InitState, pos Position) *SymbolDesc {
	current := table.scopes[len(table.scopes)-1]
	if prev, ok := current.symbols[name]; ok {
		table.diags.add(KindDuplicateDeclare, pos, "%s already declared in this %s scope at %s",
			name, current.kind, prev.pos)
		return prev
	}
	desc := &SymbolDesc{name: name, symbolType: symbolType, variableType: variableType, init: init, pos: pos}
	current.symbols[name] = desc
	return desc
}

// LookUp finds the binding of `name` in the nearest enclosing scope.
func (table *SymbolTable) LookUp(name string) (*SymbolDesc, bool) {
	for i := len(table.scopes) - 1; i >= 0; i-- {
		if desc, ok := table.scopes[i].symbols[name]; ok {
			return desc, true
		}
	}
	return nil, false
}

// InLoop reports whether a while body encloses the current point of the current function.
func (table *SymbolTable) InLoop() bool {
	for i := len(table.scopes) - 1; i >= 0; i-- {
		switch table.scopes[i].kind {
		case LoopScope:
			return true
		case FuncScope:
			return false
		}
	}
	return false
}

func (table *SymbolTable) InFunction() bool {
	for _, s := range table.scopes {
		if s.kind == FuncScope {
			return true
		}
	}
	return false
}

// MarkInitialized records an assignment to `desc`.
func (table *SymbolTable) MarkInitialized(desc *SymbolDesc) {
	desc.init = Initialized
}

// snapshot captures the initialization state of every visible binding.
func (table *SymbolTable) snapshot() InitFacts {
	facts := InitFacts{}
	for _, s := range table.scopes {
		for _, desc := range s.symbols {
			facts[desc] = desc.init
		}
	}
	return facts
}

// restore resets the bindings in `facts` to the recorded states.
func (table *SymbolTable) restore(facts InitFacts) {
	for desc, state := range facts {
		desc.init = state
	}
}
