package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// AstPrinter renders a parsed program back as indented source, one statement per line, with
// every binary and unary expression parenthesized so the tree shape is visible.
type AstPrinter struct {
	buf    strings.Builder
	indent int
}

// DumpAst prints `program`. It only needs a parsed tree, not a checked one.
func DumpAst(program *ProgramAst) []byte {
	printer := &AstPrinter{}
	for _, classAst := range program.Classes {
		printer.printClass(classAst)
		printer.writeOutput("")
	}
	for _, funcAst := range program.Funcs {
		printer.printFunc("fun", funcAst)
		printer.writeOutput("")
	}
	printer.printStatements(program.Statements)
	return []byte(printer.buf.String())
}

func (printer *AstPrinter) printClass(classAst *ClassAst) {
	if classAst.HasParent() {
		printer.writeOutput(fmt.Sprintf("class %s extends %s {", classAst.ClassName, classAst.ParentName))
	} else {
		printer.writeOutput(fmt.Sprintf("class %s {", classAst.ClassName))
	}
	printer.indent++
	for _, field := range classAst.Fields {
		printer.writeOutput(fmt.Sprintf("let %s;", varDeclareString(field)))
	}
	if len(classAst.Fields) > 0 {
		printer.writeOutput("")
	}
	constructor := classAst.Constructor
	printer.writeOutput(fmt.Sprintf("init(%s) {", paramsString(constructor.Params)))
	printer.indent++
	if constructor.HasSuper {
		printer.writeOutput(fmt.Sprintf("super(%s);", expressionsString(constructor.SuperArgs)))
	}
	printer.printStatements(constructor.Body)
	printer.indent--
	printer.writeOutput("}")
	for _, method := range classAst.Methods {
		printer.writeOutput("")
		printer.printFunc("meth", method)
	}
	printer.indent--
	printer.writeOutput("}")
}

func (printer *AstPrinter) printFunc(keyword string, funcAst *FuncAst) {
	printer.writeOutput(fmt.Sprintf("%s %s(%s) -> %s {", keyword, funcAst.FuncName, paramsString(funcAst.Params),
		funcAst.ReturnTP))
	printer.indent++
	printer.printStatements(funcAst.Body)
	printer.indent--
	printer.writeOutput("}")
}

func (printer *AstPrinter) printStatements(stms []StatementAst) {
	for _, stm := range stms {
		printer.printStatement(stm)
	}
}

func (printer *AstPrinter) printStatement(stm StatementAst) {
	switch stm := stm.(type) {
	case *ExpressionStatementAst:
		printer.writeOutput(expressionString(stm.Expr) + ";")
	case *LetStatementAst:
		if stm.Value == nil {
			printer.writeOutput(fmt.Sprintf("let %s;", varDeclareString(stm.Var)))
		} else {
			printer.writeOutput(fmt.Sprintf("let %s = %s;", varDeclareString(stm.Var), expressionString(stm.Value)))
		}
	case *AssignStatementAst:
		printer.writeOutput(fmt.Sprintf("%s = %s;", stm.VarName, expressionString(stm.Value)))
	case *FieldAssignStatementAst:
		printer.writeOutput(fmt.Sprintf("%s.%s = %s;", expressionString(stm.Receiver), stm.FieldName,
			expressionString(stm.Value)))
	case *WhileStatementAst:
		printer.writeOutput(fmt.Sprintf("while (%s) {", expressionString(stm.Condition)))
		printer.printNested(stm.Body)
		printer.writeOutput("}")
	case *BreakStatementAst:
		printer.writeOutput("break;")
	case *ReturnStatementAst:
		if stm.Value == nil {
			printer.writeOutput("return;")
		} else {
			printer.writeOutput(fmt.Sprintf("return %s;", expressionString(stm.Value)))
		}
	case *IfStatementAst:
		printer.writeOutput(fmt.Sprintf("if (%s) {", expressionString(stm.Condition)))
		printer.printNested(stm.Then)
		if stm.Else != nil {
			printer.writeOutput("} else {")
			printer.printNested(stm.Else)
		}
		printer.writeOutput("}")
	case *BlockStatementAst:
		printer.writeOutput("{")
		printer.printNested(stm)
		printer.writeOutput("}")
	default:
		panic("ast printer: unknown statement")
	}
}

func (printer *AstPrinter) printNested(stm StatementAst) {
	printer.indent++
	if block, ok := stm.(*BlockStatementAst); ok {
		printer.printStatements(block.Statements)
	} else {
		printer.printStatement(stm)
	}
	printer.indent--
}

func (printer *AstPrinter) writeOutput(output string) {
	if output != "" {
		printer.buf.WriteString(strings.Repeat("  ", printer.indent))
		printer.buf.WriteString(output)
	}
	printer.buf.WriteString("\n")
}

func varDeclareString(varDeclare *VarDeclareAst) string {
	return varDeclare.VarName + ": " + varDeclare.VarType.String()
}

func paramsString(params []*VarDeclareAst) string {
	strs := make([]string, 0, len(params))
	for _, param := range params {
		strs = append(strs, varDeclareString(param))
	}
	return strings.Join(strs, ", ")
}

func expressionsString(exprs []ExpressionAst) string {
	strs := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		strs = append(strs, expressionString(expr))
	}
	return strings.Join(strs, ", ")
}

func expressionString(expr ExpressionAst) string {
	switch expr := expr.(type) {
	case *IntegerLiteralAst:
		return strconv.FormatInt(expr.Value, 10)
	case *StringLiteralAst:
		return `"` + expr.Value + `"`
	case *BooleanLiteralAst:
		return strconv.FormatBool(expr.Value)
	case *VariableAst:
		return expr.VarName
	case *ThisAst:
		return "this"
	case *UnaryAst:
		return fmt.Sprintf("(%s%s)", expr.Op, expressionString(expr.Operand))
	case *BinaryAst:
		return fmt.Sprintf("(%s %s %s)", expressionString(expr.Left), expr.Op, expressionString(expr.Right))
	case *CallAst:
		return fmt.Sprintf("%s(%s)", expr.FuncName, expressionsString(expr.Params))
	case *NewAst:
		return fmt.Sprintf("new %s(%s)", expr.ClassName, expressionsString(expr.Params))
	case *MethodCallAst:
		return fmt.Sprintf("%s.%s(%s)", expressionString(expr.Receiver), expr.MethodName, expressionsString(expr.Params))
	case *FieldAccessAst:
		return fmt.Sprintf("%s.%s", expressionString(expr.Receiver), expr.FieldName)
	case *PrintAst:
		if expr.Newline {
			return fmt.Sprintf("println(%s)", expressionString(expr.Arg))
		}
		return fmt.Sprintf("print(%s)", expressionString(expr.Arg))
	}
	panic("ast printer: unknown expression")
}
