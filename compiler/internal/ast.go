package internal

import "strings"

// In this file, we define all ast nodes of the class language according to its grammar.
// A program is a list of class definitions and function definitions followed by at least one
// top level statement. Statements and expressions are closed sets: every node implements the
// unexported marker method of its interface, and consumers switch over the concrete types.

type ProgramAst struct {
	Classes    []*ClassAst
	Funcs      []*FuncAst
	Statements []StatementAst
}

type ClassAst struct {
	ClassName   string
	ParentName  string // Empty when the class has no extends clause.
	Fields      []*VarDeclareAst
	Constructor *ConstructorAst
	Methods     []*FuncAst

	pos       Position
	parentPos Position

	Info *ClassInfo // Set by the hierarchy builder.
}

func (classAst *ClassAst) Pos() Position {
	return classAst.pos
}

func (classAst *ClassAst) HasParent() bool {
	return classAst.ParentName != ""
}

type FuncType int

const (
	FreeFuncType FuncType = iota
	ClassMethodType
)

// FuncAst is either a top level `fun` or a class `meth`.
type FuncAst struct {
	FuncTP   FuncType
	FuncName string
	Params   []*VarDeclareAst
	ReturnTP VariableType
	Body     []StatementAst

	pos Position

	Class *ClassInfo // Owning class of a method, set by the hierarchy builder.
}

func (funcAst *FuncAst) Pos() Position {
	return funcAst.pos
}

func (funcAst *FuncAst) ParamTypes() []VariableType {
	return paramTypes(funcAst.Params)
}

// Signature renders the function as `name(Int, Str)`.
func (funcAst *FuncAst) Signature() string {
	return funcAst.FuncName + typeListString(funcAst.ParamTypes())
}

// MangledName is the target-level name of an overload: `name$Int$Str`, `name$` without params.
func (funcAst *FuncAst) MangledName() string {
	var sb strings.Builder
	sb.WriteString(funcAst.FuncName)
	sb.WriteString("$")
	for i, param := range funcAst.Params {
		if i > 0 {
			sb.WriteString("$")
		}
		sb.WriteString(param.VarType.String())
	}
	return sb.String()
}

type ConstructorAst struct {
	Params    []*VarDeclareAst
	HasSuper  bool
	SuperArgs []ExpressionAst
	Body      []StatementAst

	pos      Position
	superPos Position
}

func (constructorAst *ConstructorAst) Pos() Position {
	return constructorAst.pos
}

func (constructorAst *ConstructorAst) ParamTypes() []VariableType {
	return paramTypes(constructorAst.Params)
}

// VarDeclareAst is a `name: Type` pair used by fields, parameters and let statements.
type VarDeclareAst struct {
	VarName string
	VarType VariableType

	pos     Position
	typePos Position
}

func (varDeclareAst *VarDeclareAst) Pos() Position {
	return varDeclareAst.pos
}

func paramTypes(params []*VarDeclareAst) []VariableType {
	types := make([]VariableType, 0, len(params))
	for _, param := range params {
		types = append(types, param.VarType)
	}
	return types
}

// Statements.

type StatementAst interface {
	Pos() Position
	statementNode()
}

type stmtBase struct {
	pos Position
}

func (stmt *stmtBase) Pos() Position {
	return stmt.pos
}

func (stmt *stmtBase) statementNode() {}

type ExpressionStatementAst struct {
	stmtBase
	Expr ExpressionAst
}

// LetStatementAst declares a local, Value is nil for `let x: T;`.
type LetStatementAst struct {
	stmtBase
	Var   *VarDeclareAst
	Value ExpressionAst
}

type AssignStatementAst struct {
	stmtBase
	VarName string
	Value   ExpressionAst

	Field bool // The name resolved to a field of the enclosing class.
}

// FieldAssignStatementAst is `receiver.name = value;`.
type FieldAssignStatementAst struct {
	stmtBase
	Receiver  ExpressionAst
	FieldName string
	Value     ExpressionAst
}

type WhileStatementAst struct {
	stmtBase
	Condition ExpressionAst
	Body      StatementAst
}

type BreakStatementAst struct {
	stmtBase
}

type ReturnStatementAst struct {
	stmtBase
	Value ExpressionAst // nil for a bare return.
}

type IfStatementAst struct {
	stmtBase
	Condition ExpressionAst
	Then      StatementAst
	Else      StatementAst // nil without an else branch.
}

type BlockStatementAst struct {
	stmtBase
	Statements []StatementAst
}

// Expressions.

// ExpressionAst is implemented by every expression node. The checker records the resolved
// static type of each node with setType; later passes read it back through Type.
type ExpressionAst interface {
	Pos() Position
	Type() VariableType
	setType(tp VariableType)
	expressionNode()
}

type exprBase struct {
	pos Position
	tp  VariableType
}

func (expr *exprBase) Pos() Position {
	return expr.pos
}

func (expr *exprBase) Type() VariableType {
	return expr.tp
}

func (expr *exprBase) setType(tp VariableType) {
	expr.tp = tp
}

func (expr *exprBase) expressionNode() {}

type IntegerLiteralAst struct {
	exprBase
	Value int64
}

type StringLiteralAst struct {
	exprBase
	Value string
}

type BooleanLiteralAst struct {
	exprBase
	Value bool
}

type VariableAst struct {
	exprBase
	VarName string

	Field bool // The name resolved to a field of the enclosing class.
}

type ThisAst struct {
	exprBase
}

type UnaryAst struct {
	exprBase
	Op      *OpAst
	Operand ExpressionAst
}

type BinaryAst struct {
	exprBase
	Left  ExpressionAst
	Op    *OpAst
	Right ExpressionAst
}

// CallAst is a call of a top level function.
type CallAst struct {
	exprBase
	FuncName string
	Params   []ExpressionAst

	Func *FuncAst // Resolved callee.
}

type NewAst struct {
	exprBase
	ClassName string
	Params    []ExpressionAst

	Class *ClassInfo // Resolved class.
}

type MethodCallAst struct {
	exprBase
	Receiver   ExpressionAst
	MethodName string
	Params     []ExpressionAst

	Method *MethodRef // Resolved overload.
}

type FieldAccessAst struct {
	exprBase
	Receiver  ExpressionAst
	FieldName string
}

// PrintAst is `print(e)` or `println(e)`.
type PrintAst struct {
	exprBase
	Newline bool
	Arg     ExpressionAst
}

// MethodRef identifies one overload: the method declaration and the class that declares it.
type MethodRef struct {
	Class  *ClassInfo
	Method *FuncAst
}

func (ref *MethodRef) Signature() string {
	return ref.Class.Name + "." + ref.Method.Signature()
}

func (ref *MethodRef) MangledName() string {
	return ref.Method.MangledName()
}

// Operators.

type OpAst struct {
	OpTP     OpType
	Op       OpCode
	priority int
	Name     string
}

var (
	OrOpAst           = OpAst{OpTP: BinaryOPTP, Op: OrOpTP, priority: 1, Name: "||"}
	AndOpAst          = OpAst{OpTP: BinaryOPTP, Op: AndOpTP, priority: 2, Name: "&&"}
	EqualOpAst        = OpAst{OpTP: BinaryOPTP, Op: EqualOpTP, priority: 3, Name: "=="}
	NotEqualOpAst     = OpAst{OpTP: BinaryOPTP, Op: NotEqualOpTP, priority: 3, Name: "!="}
	LessOpAst         = OpAst{OpTP: BinaryOPTP, Op: LessOpTP, priority: 3, Name: "<"}
	LessEqualOpAst    = OpAst{OpTP: BinaryOPTP, Op: LessEqualOpTP, priority: 3, Name: "<="}
	GreatOpAst        = OpAst{OpTP: BinaryOPTP, Op: GreaterOpTP, priority: 3, Name: ">"}
	GreatEqualOpAst   = OpAst{OpTP: BinaryOPTP, Op: GreaterEqualOpTP, priority: 3, Name: ">="}
	AddOpAst          = OpAst{OpTP: BinaryOPTP, Op: AddOpTP, priority: 4, Name: "+"}
	MinusOpAst        = OpAst{OpTP: BinaryOPTP, Op: MinusOpTP, priority: 4, Name: "-"}
	MultipleOpAst     = OpAst{OpTP: BinaryOPTP, Op: MultipleOpTP, priority: 5, Name: "*"}
	DivideOpAst       = OpAst{OpTP: BinaryOPTP, Op: DivideOpTP, priority: 5, Name: "/"}
	NegationOpAst     = OpAst{OpTP: UnaryOPTP, Op: NegationOpTP, Name: "-"}
	PlusOpAst         = OpAst{OpTP: UnaryOPTP, Op: PlusOpTP, Name: "+"}
	BooleanNegationOp = OpAst{OpTP: UnaryOPTP, Op: BooleanNegationOpTP, Name: "!"}
)

func (op *OpAst) String() string {
	return op.Name
}

// IsArithmetic reports whether op is one of + - * /.
func (op *OpAst) IsArithmetic() bool {
	switch op.Op {
	case AddOpTP, MinusOpTP, MultipleOpTP, DivideOpTP:
		return true
	}
	return false
}

func (op *OpAst) IsLogical() bool {
	return op.Op == AndOpTP || op.Op == OrOpTP
}

func (op *OpAst) IsEquality() bool {
	return op.Op == EqualOpTP || op.Op == NotEqualOpTP
}

func (op *OpAst) IsOrdering() bool {
	switch op.Op {
	case LessOpTP, LessEqualOpTP, GreaterOpTP, GreaterEqualOpTP:
		return true
	}
	return false
}

type OpType int

const (
	UnaryOPTP OpType = iota
	BinaryOPTP
)

type OpCode int

const (
	AddOpTP OpCode = iota
	MinusOpTP
	MultipleOpTP
	DivideOpTP
	AndOpTP
	OrOpTP
	LessOpTP
	LessEqualOpTP
	GreaterOpTP
	GreaterEqualOpTP
	EqualOpTP
	NotEqualOpTP

	// Unary Op
	NegationOpTP
	PlusOpTP
	BooleanNegationOpTP
)
