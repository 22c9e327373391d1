package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeGenerator turns a checked program into JavaScript. It relies on the annotations the
// checker leaves on the ast (resolved overloads, field references, expression types) and does
// no checking of its own.
type CodeGenerator struct {
	hierarchy *ClassHierarchy
	funcs     map[string]bool
	buf       strings.Builder
	indent    int
}

// GenerateCode emits the JavaScript program for `program`, which must have passed Check
// without diagnostics.
func GenerateCode(program *ProgramAst, hierarchy *ClassHierarchy) []byte {
	generator := &CodeGenerator{hierarchy: hierarchy, funcs: map[string]bool{}}
	for _, funcAst := range program.Funcs {
		generator.funcs[funcAst.FuncName] = true
	}
	for _, classInfo := range hierarchy.Ordered() {
		generator.generateClassCode(classInfo)
	}
	for _, funcAst := range program.Funcs {
		generator.generateFuncCode(funcAst)
	}
	generator.generateStatementsCode(program.Statements)
	return []byte(generator.buf.String())
}

func (generator *CodeGenerator) generateClassCode(classInfo *ClassInfo) {
	parent := generator.hierarchy.ParentOf(classInfo)
	if parent.IsRoot() {
		generator.writeOutput(fmt.Sprintf("class %s {", className(classInfo.Name)))
	} else {
		generator.writeOutput(fmt.Sprintf("class %s extends %s {", className(classInfo.Name), className(parent.Name)))
	}
	generator.indent++
	generator.generateConstructorCode(classInfo)
	for _, name := range classInfo.MethodNames() {
		for _, method := range classInfo.OwnMethods(name) {
			generator.generateMethodCode(method)
		}
	}
	generator.indent--
	generator.writeOutput("}")
}

// generateMethodCode writes one overload under its mangled name. Overloads of a name are
// written next to each other.
func (generator *CodeGenerator) generateMethodCode(method *FuncAst) {
	generator.writeOutput(fmt.Sprintf("%s(%s) {", method.MangledName(), generator.paramNames(method.Params)))
	generator.indent++
	generator.generateStatementsCode(method.Body)
	generator.indent--
	generator.writeOutput("}")
}

// generateConstructorCode writes the super call first, then the defaults of the class's own
// fields, then the body.
func (generator *CodeGenerator) generateConstructorCode(classInfo *ClassInfo) {
	constructor := classInfo.Ast.Constructor
	generator.writeOutput(fmt.Sprintf("constructor(%s) {", generator.paramNames(constructor.Params)))
	generator.indent++
	if constructor.HasSuper {
		generator.writeOutput(fmt.Sprintf("super(%s);", generator.expressionsCode(constructor.SuperArgs)))
	}
	for _, field := range classInfo.OwnFields() {
		generator.writeOutput(fmt.Sprintf("this.%s = %s;", field.Name, defaultValue(field.Type)))
	}
	generator.generateStatementsCode(constructor.Body)
	generator.indent--
	generator.writeOutput("}")
}

func defaultValue(tp VariableType) string {
	switch tp.TP {
	case IntVariableType:
		return "0"
	case StrVariableType:
		return `""`
	case BooleanVariableType:
		return "false"
	}
	return "null"
}

func (generator *CodeGenerator) generateFuncCode(funcAst *FuncAst) {
	generator.writeOutput(fmt.Sprintf("function %s(%s) {", generator.funcName(funcAst.FuncName),
		generator.paramNames(funcAst.Params)))
	generator.indent++
	generator.generateStatementsCode(funcAst.Body)
	generator.indent--
	generator.writeOutput("}")
}

func (generator *CodeGenerator) paramNames(params []*VarDeclareAst) string {
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, generator.varName(param.VarName))
	}
	return strings.Join(names, ", ")
}

func (generator *CodeGenerator) generateStatementsCode(stms []StatementAst) {
	for _, stm := range stms {
		generator.generateStatementCode(stm)
	}
}

func (generator *CodeGenerator) generateStatementCode(stm StatementAst) {
	switch stm := stm.(type) {
	case *ExpressionStatementAst:
		generator.writeOutput(generator.expressionCode(stm.Expr) + ";")
	case *LetStatementAst:
		if stm.Value == nil {
			generator.writeOutput(fmt.Sprintf("let %s;", generator.varName(stm.Var.VarName)))
		} else {
			generator.writeOutput(fmt.Sprintf("let %s = %s;", generator.varName(stm.Var.VarName),
				generator.expressionCode(stm.Value)))
		}
	case *AssignStatementAst:
		target := generator.varName(stm.VarName)
		if stm.Field {
			target = "this." + stm.VarName
		}
		generator.writeOutput(fmt.Sprintf("%s = %s;", target, generator.expressionCode(stm.Value)))
	case *FieldAssignStatementAst:
		generator.writeOutput(fmt.Sprintf("%s.%s = %s;", generator.expressionCode(stm.Receiver), stm.FieldName,
			generator.expressionCode(stm.Value)))
	case *WhileStatementAst:
		generator.writeOutput(fmt.Sprintf("while (%s) {", generator.expressionCode(stm.Condition)))
		generator.generateNestedCode(stm.Body)
		generator.writeOutput("}")
	case *BreakStatementAst:
		generator.writeOutput("break;")
	case *ReturnStatementAst:
		if stm.Value == nil {
			generator.writeOutput("return;")
		} else {
			generator.writeOutput(fmt.Sprintf("return %s;", generator.expressionCode(stm.Value)))
		}
	case *IfStatementAst:
		generator.writeOutput(fmt.Sprintf("if (%s) {", generator.expressionCode(stm.Condition)))
		generator.generateNestedCode(stm.Then)
		if stm.Else != nil {
			generator.writeOutput("} else {")
			generator.generateNestedCode(stm.Else)
		}
		generator.writeOutput("}")
	case *BlockStatementAst:
		generator.writeOutput("{")
		generator.generateNestedCode(stm)
		generator.writeOutput("}")
	default:
		panic("code generator: unknown statement")
	}
}

// generateNestedCode writes the body of a braced construct. A block body is unwrapped so the
// construct's own braces are the block's.
func (generator *CodeGenerator) generateNestedCode(stm StatementAst) {
	generator.indent++
	if block, ok := stm.(*BlockStatementAst); ok {
		generator.generateStatementsCode(block.Statements)
	} else {
		generator.generateStatementCode(stm)
	}
	generator.indent--
}

func (generator *CodeGenerator) expressionsCode(exprs []ExpressionAst) string {
	codes := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		codes = append(codes, generator.expressionCode(expr))
	}
	return strings.Join(codes, ", ")
}

func (generator *CodeGenerator) expressionCode(expr ExpressionAst) string {
	switch expr := expr.(type) {
	case *IntegerLiteralAst:
		return strconv.FormatInt(expr.Value, 10)
	case *StringLiteralAst:
		return `"` + expr.Value + `"`
	case *BooleanLiteralAst:
		return strconv.FormatBool(expr.Value)
	case *VariableAst:
		if expr.Field {
			return "this." + expr.VarName
		}
		return generator.varName(expr.VarName)
	case *ThisAst:
		return "this"
	case *UnaryAst:
		return fmt.Sprintf("(%s%s)", expr.Op.Name, generator.expressionCode(expr.Operand))
	case *BinaryAst:
		return generator.binaryCode(expr)
	case *CallAst:
		return fmt.Sprintf("%s(%s)", generator.funcName(expr.FuncName), generator.expressionsCode(expr.Params))
	case *NewAst:
		return fmt.Sprintf("new %s(%s)", className(expr.ClassName), generator.expressionsCode(expr.Params))
	case *MethodCallAst:
		return fmt.Sprintf("%s.%s(%s)", generator.expressionCode(expr.Receiver), expr.Method.MangledName(),
			generator.expressionsCode(expr.Params))
	case *FieldAccessAst:
		return fmt.Sprintf("%s.%s", generator.expressionCode(expr.Receiver), expr.FieldName)
	case *PrintAst:
		if expr.Newline {
			return fmt.Sprintf("console.log(%s)", generator.expressionCode(expr.Arg))
		}
		return fmt.Sprintf("process.stdout.write(String(%s))", generator.expressionCode(expr.Arg))
	}
	panic("code generator: unknown expression")
}

func (generator *CodeGenerator) binaryCode(binary *BinaryAst) string {
	l, r := generator.expressionCode(binary.Left), generator.expressionCode(binary.Right)
	switch binary.Op.Op {
	case DivideOpTP:
		return fmt.Sprintf("Math.trunc(%s / %s)", l, r)
	case EqualOpTP:
		return fmt.Sprintf("(%s === %s)", l, r)
	case NotEqualOpTP:
		return fmt.Sprintf("(%s !== %s)", l, r)
	}
	return fmt.Sprintf("(%s %s %s)", l, binary.Op.Name, r)
}

// jsReservedWords are identifiers of the source language that JavaScript does not accept as
// binding names.
var jsReservedWords = map[string]bool{
	"arguments": true, "await": true, "case": true, "catch": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "enum": true, "eval": true,
	"export": true, "finally": true, "for": true, "function": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "static": true, "switch": true, "throw": true, "try": true,
	"typeof": true, "var": true, "void": true, "with": true, "yield": true, "undefined": true,
	"console": true, "process": true, "Math": true, "String": true,
}

// Classes, functions and variables live in separate namespaces in the source but share one in
// JavaScript. Source identifiers never contain '$', so a '$' suffix cannot collide. Classes win
// over functions, functions over variables.

func className(name string) string {
	if jsReservedWords[name] {
		return name + "$class"
	}
	return name
}

func (generator *CodeGenerator) funcName(name string) string {
	if _, isClass := generator.hierarchy.Lookup(name); isClass || jsReservedWords[name] {
		return name + "$fun"
	}
	return name
}

func (generator *CodeGenerator) varName(name string) string {
	_, isClass := generator.hierarchy.Lookup(name)
	if isClass || generator.funcs[name] || jsReservedWords[name] {
		return name + "$"
	}
	return name
}

func (generator *CodeGenerator) writeOutput(output string) {
	generator.buf.WriteString(strings.Repeat("  ", generator.indent))
	generator.buf.WriteString(output)
	generator.buf.WriteString("\n")
}
