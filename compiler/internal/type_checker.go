package internal

// TypeChecker validates one program against the hierarchy built for it. Every function,
// method and constructor body, and the top level statements, gets a fresh SymbolTable; errors
// are collected and checking carries on with the Invalid placeholder type.
type TypeChecker struct {
	hierarchy *ClassHierarchy
	funcs     map[string]*FuncAst
	diags     *Diagnostics

	symbolTable  *SymbolTable
	currentClass *ClassInfo
	returnTP     VariableType
	bodyName     string
}

func NewTypeChecker(hierarchy *ClassHierarchy, diags *Diagnostics) *TypeChecker {
	return &TypeChecker{hierarchy: hierarchy, funcs: map[string]*FuncAst{}, diags: diags}
}

// CheckProgram annotates every expression of `program` with its static type and resolved
// callee, reporting all problems it finds.
func (checker *TypeChecker) CheckProgram(program *ProgramAst) {
	checker.collectFuncs(program.Funcs)
	checker.checkDeclarations(program)
	for _, classAst := range program.Classes {
		if classAst.Info == nil {
			continue
		}
		checker.typeCheckConstructor(classAst)
		for _, method := range classAst.Methods {
			checker.typeCheckFunc(method, classAst.Info)
		}
	}
	for _, funcAst := range program.Funcs {
		checker.typeCheckFunc(funcAst, nil)
	}
	checker.typeCheckTopLevel(program.Statements)
}

func (checker *TypeChecker) collectFuncs(funcs []*FuncAst) {
	for _, funcAst := range funcs {
		if prev, ok := checker.funcs[funcAst.FuncName]; ok {
			checker.diags.add(KindDuplicateDeclare, funcAst.Pos(), "function %s already declared at %s",
				funcAst.FuncName, prev.Pos())
			continue
		}
		checker.funcs[funcAst.FuncName] = funcAst
	}
}

// checkDeclarations validates every declared field, parameter and return type once, so the
// bodies can use the declarations without reporting them again.
func (checker *TypeChecker) checkDeclarations(program *ProgramAst) {
	for _, classAst := range program.Classes {
		for _, field := range classAst.Fields {
			checker.checkDeclaredType(field.VarType, field.typePos, false)
		}
		if classAst.Constructor != nil {
			checker.checkParamTypes(classAst.Constructor.Params)
		}
		for _, method := range classAst.Methods {
			checker.checkParamTypes(method.Params)
			checker.checkDeclaredType(method.ReturnTP, method.Pos(), true)
		}
	}
	for _, funcAst := range program.Funcs {
		checker.checkParamTypes(funcAst.Params)
		checker.checkDeclaredType(funcAst.ReturnTP, funcAst.Pos(), true)
	}
}

func (checker *TypeChecker) checkParamTypes(params []*VarDeclareAst) {
	for _, param := range params {
		checker.checkDeclaredType(param.VarType, param.typePos, false)
	}
}

// checkDeclaredType reports a declared type naming no class, or Void where a value type is
// needed, and returns the type bindings should use.
func (checker *TypeChecker) checkDeclaredType(tp VariableType, pos Position, allowVoid bool) VariableType {
	if tp.IsVoid() && !allowVoid {
		checker.diags.add(KindTypeMismatch, pos, "Void is not a value type")
		return InvalidType
	}
	if tp.IsClass() {
		if _, ok := checker.hierarchy.Lookup(tp.Name); !ok {
			checker.diags.add(KindUndefinedName, pos, "undefined class %s", tp.Name)
			return InvalidType
		}
	}
	return tp
}

// knownType is checkDeclaredType without reporting.
func (checker *TypeChecker) knownType(tp VariableType) VariableType {
	if tp.IsClass() {
		if _, ok := checker.hierarchy.Lookup(tp.Name); !ok {
			return InvalidType
		}
	}
	return tp
}

// beginBody sets up the scopes of a function, method or constructor body: the fields of
// `classInfo` in a class scope, then `this` and the parameters in the function scope.
func (checker *TypeChecker) beginBody(name string, classInfo *ClassInfo, params []*VarDeclareAst, returnTP VariableType, pos Position) {
	checker.symbolTable = NewSymbolTable(checker.diags)
	checker.currentClass, checker.returnTP, checker.bodyName = classInfo, returnTP, name
	if classInfo != nil {
		checker.symbolTable.EnterScope(ClassScope)
		for _, field := range classInfo.Fields {
			checker.symbolTable.Declare(field.Name, ClassVariableSymbolType, checker.knownType(field.Type),
				Initialized, field.Decl.Pos())
		}
	}
	checker.symbolTable.EnterScope(FuncScope)
	if classInfo != nil {
		checker.symbolTable.Declare("this", ThisSymbolType, ClassType(classInfo.Name), Initialized, pos)
	}
	for _, param := range params {
		checker.symbolTable.Declare(param.VarName, FuncParamType, checker.knownType(param.VarType),
			Initialized, param.Pos())
	}
}

func (checker *TypeChecker) endBody() {
	for checker.symbolTable.Depth() > 0 {
		checker.symbolTable.ExitScope()
	}
	checker.symbolTable, checker.currentClass = nil, nil
}

func (checker *TypeChecker) typeCheckFunc(funcAst *FuncAst, classInfo *ClassInfo) {
	name := funcAst.FuncName
	if classInfo != nil {
		name = classInfo.Name + "." + name
	}
	checker.beginBody(name, classInfo, funcAst.Params, checker.knownType(funcAst.ReturnTP), funcAst.Pos())
	checker.typeCheckStatements(funcAst.Body)
	checker.endBody()
	checkReturnCompleteness(funcAst, checker.diags)
}

func (checker *TypeChecker) typeCheckConstructor(classAst *ClassAst) {
	classInfo := classAst.Info
	constructor := classAst.Constructor
	checker.beginBody(classInfo.Name+" constructor", classInfo, constructor.Params, VoidType, constructor.Pos())
	argTypes := checker.getAndCheckExpressionTypes(constructor.SuperArgs)
	parent := checker.hierarchy.ParentOf(classInfo)
	switch {
	case classAst.HasParent() && parent.IsRoot():
		// The parent did not resolve; that is already reported.
	case classAst.HasParent() && !constructor.HasSuper:
		checker.diags.add(KindSuperCall, constructor.Pos(), "constructor of %s must call super(...) of %s first",
			classInfo.Name, parent.Name)
	case classAst.HasParent():
		checker.checkArguments("constructor of "+parent.Name, constructor.superPos,
			parent.Ast.Constructor.Params, constructor.SuperArgs, argTypes)
	case constructor.HasSuper:
		checker.diags.add(KindSuperCall, constructor.superPos, "class %s has no parent class to call super(...) on",
			classInfo.Name)
	}
	checker.typeCheckStatements(constructor.Body)
	checker.endBody()
}

func (checker *TypeChecker) typeCheckTopLevel(stms []StatementAst) {
	checker.symbolTable = NewSymbolTable(checker.diags)
	checker.currentClass, checker.returnTP, checker.bodyName = nil, VoidType, ""
	checker.symbolTable.EnterScope(GlobalScope)
	checker.typeCheckStatements(stms)
	checker.endBody()
}

func (checker *TypeChecker) typeCheckStatements(stms []StatementAst) {
	for _, stm := range stms {
		checker.typeCheckStatement(stm)
	}
}

func (checker *TypeChecker) typeCheckStatement(stm StatementAst) {
	switch stm := stm.(type) {
	case *ExpressionStatementAst:
		checker.getAndCheckExpressionType(stm.Expr)
	case *LetStatementAst:
		checker.typeCheckLetStatement(stm)
	case *AssignStatementAst:
		checker.typeCheckAssignStatement(stm)
	case *FieldAssignStatementAst:
		checker.typeCheckFieldAssignStatement(stm)
	case *WhileStatementAst:
		checker.typeCheckWhileStatement(stm)
	case *BreakStatementAst:
		if !checker.symbolTable.InLoop() {
			checker.diags.add(KindBreakOutsideLoop, stm.Pos(), "break is not inside a while loop")
		}
	case *ReturnStatementAst:
		checker.typeCheckReturnStatement(stm)
	case *IfStatementAst:
		checker.typeCheckIfStatement(stm)
	case *BlockStatementAst:
		checker.symbolTable.EnterScope(BlockScope)
		checker.typeCheckStatements(stm.Statements)
		checker.symbolTable.ExitScope()
	default:
		panic("type checker: unknown statement")
	}
}

func (checker *TypeChecker) typeCheckLetStatement(stm *LetStatementAst) {
	varTP := checker.checkDeclaredType(stm.Var.VarType, stm.Var.typePos, false)
	init := Uninitialized
	if stm.Value != nil {
		valueTP := checker.getAndCheckExpressionType(stm.Value)
		checker.checkAssignable(valueTP, varTP, stm.Value.Pos(), "cannot initialize %s of type %s with a value of type %s",
			stm.Var.VarName, varTP, valueTP)
		init = Initialized
	}
	checker.symbolTable.Declare(stm.Var.VarName, FuncVariableType, varTP, init, stm.Var.Pos())
}

func (checker *TypeChecker) typeCheckAssignStatement(stm *AssignStatementAst) {
	valueTP := checker.getAndCheckExpressionType(stm.Value)
	desc, ok := checker.symbolTable.LookUp(stm.VarName)
	if !ok {
		checker.diags.add(KindUndefinedName, stm.Pos(), "undefined variable %s", stm.VarName)
		return
	}
	stm.Field = desc.IsField()
	checker.checkAssignable(valueTP, desc.Type(), stm.Value.Pos(), "cannot assign a value of type %s to %s of type %s",
		valueTP, stm.VarName, desc.Type())
	checker.symbolTable.MarkInitialized(desc)
}

func (checker *TypeChecker) typeCheckFieldAssignStatement(stm *FieldAssignStatementAst) {
	receiverTP := checker.getAndCheckExpressionType(stm.Receiver)
	valueTP := checker.getAndCheckExpressionType(stm.Value)
	field := checker.lookUpField(receiverTP, stm.FieldName, stm.Pos())
	if field == nil {
		return
	}
	fieldTP := checker.knownType(field.Type)
	checker.checkAssignable(valueTP, fieldTP, stm.Value.Pos(), "cannot assign a value of type %s to field %s of type %s",
		valueTP, stm.FieldName, fieldTP)
}

// typeCheckWhileStatement checks the body in a loop scope. The state after the loop is the
// state before it, since the body may not run at all.
func (checker *TypeChecker) typeCheckWhileStatement(stm *WhileStatementAst) {
	checker.checkCondition(stm.Condition, "while")
	before := checker.symbolTable.snapshot()
	checker.symbolTable.EnterScope(LoopScope)
	checker.typeCheckStatement(stm.Body)
	checker.symbolTable.ExitScope()
	checker.symbolTable.restore(before)
}

func (checker *TypeChecker) typeCheckReturnStatement(stm *ReturnStatementAst) {
	var valueTP VariableType
	if stm.Value != nil {
		valueTP = checker.getAndCheckExpressionType(stm.Value)
	}
	if !checker.symbolTable.InFunction() {
		checker.diags.add(KindReturnOutsideFunc, stm.Pos(), "return is not inside a function, method or constructor")
		return
	}
	switch {
	case checker.returnTP.IsVoid() && stm.Value != nil:
		checker.diags.add(KindTypeMismatch, stm.Value.Pos(), "%s returns Void but a value of type %s is returned",
			checker.bodyName, valueTP)
	case !checker.returnTP.IsVoid() && stm.Value == nil:
		if checker.returnTP.IsValid() {
			checker.diags.add(KindTypeMismatch, stm.Pos(), "%s must return a value of type %s",
				checker.bodyName, checker.returnTP)
		}
	case stm.Value != nil:
		checker.checkAssignable(valueTP, checker.returnTP, stm.Value.Pos(), "%s returns %s but a value of type %s is returned",
			checker.bodyName, checker.returnTP, valueTP)
	}
}

// typeCheckIfStatement checks each branch in its own scope and joins the initialization state
// of the branches that fall through.
func (checker *TypeChecker) typeCheckIfStatement(stm *IfStatementAst) {
	checker.checkCondition(stm.Condition, "if")
	before := checker.symbolTable.snapshot()

	checker.symbolTable.EnterScope(BlockScope)
	checker.typeCheckStatement(stm.Then)
	checker.symbolTable.ExitScope()
	then := branchOutcome{facts: checker.symbolTable.snapshot(), exits: statementExits(stm.Then)}
	checker.symbolTable.restore(before)

	els := branchOutcome{facts: before}
	if stm.Else != nil {
		checker.symbolTable.EnterScope(BlockScope)
		checker.typeCheckStatement(stm.Else)
		checker.symbolTable.ExitScope()
		els = branchOutcome{facts: checker.symbolTable.snapshot(), exits: statementExits(stm.Else)}
	}
	if joined := joinBranches(then, els); joined != nil {
		checker.symbolTable.restore(joined)
	} else {
		checker.symbolTable.restore(before)
	}
}

func (checker *TypeChecker) checkCondition(cond ExpressionAst, construct string) {
	condTP := checker.getAndCheckExpressionType(cond)
	if condTP.IsValid() && condTP != BooleanType {
		checker.diags.add(KindTypeMismatch, cond.Pos(), "%s condition must be Boolean, got %s", construct, condTP)
	}
}

// isAssignable reports whether a value of type `from` may be stored where `to` is declared.
func (checker *TypeChecker) isAssignable(from, to VariableType) bool {
	if !from.IsValid() || !to.IsValid() {
		return true
	}
	if from.IsVoid() || to.IsVoid() {
		return false
	}
	if from.IsClass() && to.IsClass() {
		return checker.hierarchy.IsSubtype(from, to)
	}
	return from == to
}

func (checker *TypeChecker) checkAssignable(from, to VariableType, pos Position, format string, args ...interface{}) {
	if !checker.isAssignable(from, to) {
		checker.diags.add(KindTypeMismatch, pos, format, args...)
	}
}

// checkArguments matches call arguments against a single declared parameter list.
func (checker *TypeChecker) checkArguments(callee string, pos Position, params []*VarDeclareAst, args []ExpressionAst, argTypes []VariableType) {
	if len(params) != len(args) {
		checker.diags.add(KindArgumentCount, pos, "%s expects %d arguments but got %d", callee, len(params), len(args))
		return
	}
	for i, param := range params {
		paramTP := checker.knownType(param.VarType)
		if !checker.isAssignable(argTypes[i], paramTP) {
			checker.diags.add(KindArgumentType, args[i].Pos(), "argument %d of %s: cannot use %s as %s",
				i+1, callee, argTypes[i], paramTP)
		}
	}
}

// lookUpField finds field `name` on a value of type `receiverTP`, reporting when there is none.
func (checker *TypeChecker) lookUpField(receiverTP VariableType, name string, pos Position) *FieldInfo {
	if !receiverTP.IsValid() {
		return nil
	}
	if !receiverTP.IsClass() {
		checker.diags.add(KindTypeMismatch, pos, "a value of type %s has no field %s", receiverTP, name)
		return nil
	}
	classInfo, ok := checker.hierarchy.Lookup(receiverTP.Name)
	if !ok {
		return nil
	}
	field, ok := classInfo.Field(name)
	if !ok {
		checker.diags.add(KindUndefinedName, pos, "class %s has no field %s", classInfo.Name, name)
		return nil
	}
	return field
}

func (checker *TypeChecker) getAndCheckExpressionTypes(exprs []ExpressionAst) []VariableType {
	types := make([]VariableType, 0, len(exprs))
	for _, expr := range exprs {
		types = append(types, checker.getAndCheckExpressionType(expr))
	}
	return types
}

// getAndCheckExpressionType computes, records and returns the static type of `expr`.
func (checker *TypeChecker) getAndCheckExpressionType(expr ExpressionAst) VariableType {
	tp := checker.getAndCheckExpressionType0(expr)
	expr.setType(tp)
	return tp
}

func (checker *TypeChecker) getAndCheckExpressionType0(expr ExpressionAst) VariableType {
	switch expr := expr.(type) {
	case *IntegerLiteralAst:
		return IntType
	case *StringLiteralAst:
		return StrType
	case *BooleanLiteralAst:
		return BooleanType
	case *VariableAst:
		return checker.getVariableAstType(expr)
	case *ThisAst:
		desc, ok := checker.symbolTable.LookUp("this")
		if !ok {
			checker.diags.add(KindUndefinedName, expr.Pos(), "this is only available in methods and constructors")
			return InvalidType
		}
		return desc.Type()
	case *UnaryAst:
		return checker.checkTypeOnUnaryOp(expr)
	case *BinaryAst:
		return checker.checkTypeOnBinaryOp(expr)
	case *CallAst:
		return checker.checkCall(expr)
	case *NewAst:
		return checker.checkNew(expr)
	case *MethodCallAst:
		return checker.checkMethodCall(expr)
	case *FieldAccessAst:
		receiverTP := checker.getAndCheckExpressionType(expr.Receiver)
		field := checker.lookUpField(receiverTP, expr.FieldName, expr.Pos())
		if field == nil {
			return InvalidType
		}
		return checker.knownType(field.Type)
	case *PrintAst:
		argTP := checker.getAndCheckExpressionType(expr.Arg)
		if argTP.IsValid() && !argTP.IsPrimitive() {
			checker.diags.add(KindTypeMismatch, expr.Arg.Pos(), "cannot print a value of type %s", argTP)
		}
		return VoidType
	}
	panic("type checker: unknown expression")
}

// getVariableAstType resolves a bare name and applies the definite initialization rule.
func (checker *TypeChecker) getVariableAstType(varAst *VariableAst) VariableType {
	desc, ok := checker.symbolTable.LookUp(varAst.VarName)
	if !ok {
		checker.diags.add(KindUndefinedName, varAst.Pos(), "undefined variable %s", varAst.VarName)
		return InvalidType
	}
	varAst.Field = desc.IsField()
	switch desc.Init() {
	case Uninitialized:
		checker.diags.add(KindUninitializedRead, varAst.Pos(), "variable %s is read before it is assigned", varAst.VarName)
	case MaybeInitialized:
		checker.diags.add(KindUninitializedRead, varAst.Pos(), "variable %s may be read before it is assigned", varAst.VarName)
	}
	return desc.Type()
}

func (checker *TypeChecker) checkTypeOnUnaryOp(unary *UnaryAst) VariableType {
	operandTP := checker.getAndCheckExpressionType(unary.Operand)
	expected := IntType
	if unary.Op.Op == BooleanNegationOpTP {
		expected = BooleanType
	}
	if operandTP.IsValid() && operandTP != expected {
		checker.diags.add(KindTypeMismatch, unary.Pos(), "operator %s requires %s, got %s", unary.Op, expected, operandTP)
	}
	return expected
}

func (checker *TypeChecker) checkTypeOnBinaryOp(binary *BinaryAst) VariableType {
	l := checker.getAndCheckExpressionType(binary.Left)
	r := checker.getAndCheckExpressionType(binary.Right)
	op := binary.Op
	switch {
	case op.IsArithmetic():
		return checker.checkArithmetic(binary, l, r)
	case op.IsLogical():
		if (l.IsValid() && l != BooleanType) || (r.IsValid() && r != BooleanType) {
			checker.diags.add(KindTypeMismatch, binary.Pos(), "operator %s requires Boolean operands, got %s and %s", op, l, r)
		}
	case op.IsEquality():
		if !checker.isComparable(l, r) {
			checker.diags.add(KindTypeMismatch, binary.Pos(), "operator %s cannot compare %s and %s", op, l, r)
		}
	case op.IsOrdering():
		if (l.IsValid() && l != IntType) || (r.IsValid() && r != IntType) {
			checker.diags.add(KindTypeMismatch, binary.Pos(), "operator %s requires Int operands, got %s and %s", op, l, r)
		}
	}
	return BooleanType
}

// checkArithmetic types + - * /. Only + accepts two Str operands.
func (checker *TypeChecker) checkArithmetic(binary *BinaryAst, l, r VariableType) VariableType {
	if !l.IsValid() || !r.IsValid() {
		known := l
		if !known.IsValid() {
			known = r
		}
		if known == StrType && binary.Op.Op == AddOpTP {
			return StrType
		}
		if !known.IsValid() {
			return InvalidType
		}
		return IntType
	}
	if l == IntType && r == IntType {
		return IntType
	}
	if binary.Op.Op == AddOpTP && l == StrType && r == StrType {
		return StrType
	}
	if binary.Op.Op == AddOpTP {
		checker.diags.add(KindTypeMismatch, binary.Pos(), "operator + requires two Int or two Str operands, got %s and %s", l, r)
	} else {
		checker.diags.add(KindTypeMismatch, binary.Pos(), "operator %s requires Int operands, got %s and %s", binary.Op, l, r)
	}
	return InvalidType
}

// isComparable holds for two operands of the same non-Void type. A class and its subclass are
// different types.
func (checker *TypeChecker) isComparable(l, r VariableType) bool {
	if !l.IsValid() || !r.IsValid() {
		return true
	}
	return !l.IsVoid() && l == r
}

func (checker *TypeChecker) checkCall(call *CallAst) VariableType {
	argTypes := checker.getAndCheckExpressionTypes(call.Params)
	funcAst, ok := checker.funcs[call.FuncName]
	if !ok {
		call.Func = nil
		checker.diags.add(KindUndefinedName, call.Pos(), "undefined function %s", call.FuncName)
		return InvalidType
	}
	call.Func = funcAst
	checker.checkArguments("function "+call.FuncName, call.Pos(), funcAst.Params, call.Params, argTypes)
	return checker.knownType(funcAst.ReturnTP)
}

func (checker *TypeChecker) checkNew(newAst *NewAst) VariableType {
	argTypes := checker.getAndCheckExpressionTypes(newAst.Params)
	classInfo, ok := checker.hierarchy.Lookup(newAst.ClassName)
	if !ok {
		newAst.Class = nil
		checker.diags.add(KindUndefinedName, newAst.Pos(), "undefined class %s", newAst.ClassName)
		return InvalidType
	}
	newAst.Class = classInfo
	checker.checkArguments("constructor of "+classInfo.Name, newAst.Pos(), classInfo.Ast.Constructor.Params,
		newAst.Params, argTypes)
	return ClassType(classInfo.Name)
}

func (checker *TypeChecker) checkMethodCall(call *MethodCallAst) VariableType {
	receiverTP := checker.getAndCheckExpressionType(call.Receiver)
	argTypes := checker.getAndCheckExpressionTypes(call.Params)
	call.Method = checker.resolveMethod(receiverTP, call.MethodName, argTypes, call.Pos())
	if call.Method == nil {
		return InvalidType
	}
	return checker.knownType(call.Method.Method.ReturnTP)
}
