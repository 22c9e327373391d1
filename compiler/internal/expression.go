package internal

import (
	"strconv"
)

// buildExpressionsTree folds the flat operand/operator sequence `a op1 b op2 c ...` into a tree
// by precedence climbing. Operators of equal priority associate to the left.
func buildExpressionsTree(ops []*OpAst, exprTerms []ExpressionAst) ExpressionAst {
	ret, _ := buildExpressionsTree0(ops, exprTerms, 0, 0)
	return ret
}

func buildExpressionsTree0(ops []*OpAst, exprTerms []ExpressionAst, loc int, minPriority int) (ExpressionAst, int) {
	lhs := exprTerms[loc]
	i := loc
	for i < len(ops) && ops[i].priority >= minPriority {
		op := ops[i]
		rhs := exprTerms[i+1]
		j := i + 1
		for j < len(ops) && ops[j].priority > op.priority {
			exprTerms[j] = rhs
			rhs, j = buildExpressionsTree0(ops, exprTerms, j, ops[j].priority)
		}
		lhs = makeNewExpression(lhs, rhs, op)
		i = j
	}
	return lhs, i
}

func makeNewExpression(leftExpr ExpressionAst, rightExpr ExpressionAst, op *OpAst) *BinaryAst {
	return &BinaryAst{exprBase: exprBase{pos: leftExpr.Pos()}, Left: leftExpr, Op: op, Right: rightExpr}
}

// parseCallArguments parses `(expression, expression, ...)`.
func (parser *Parser) parseCallArguments() (exprs []ExpressionAst, err error) {
	if _, match := parser.expectToken(LeftParenthesesTP, true); !match {
		return nil, parser.makeError("'('")
	}
	if _, match := parser.expectToken(RightParenthesesTP, true); match {
		return nil, nil
	}
	for {
		expression, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expression)
		if _, match := parser.expectToken(CommaTP, true); !match {
			break
		}
	}
	if _, match := parser.expectToken(RightParenthesesTP, true); !match {
		return nil, parser.makeError("',' or ')'")
	}
	return exprs, nil
}

// parseExpression collects `term (op term)*` and hands the sequence to buildExpressionsTree.
func (parser *Parser) parseExpression() (ExpressionAst, error) {
	term, err := parser.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	exprTerms := []ExpressionAst{term}
	var ops []*OpAst
	for parser.matchOp() {
		op := parser.parseOpAst()
		term, err = parser.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		exprTerms = append(exprTerms, term)
	}
	return buildExpressionsTree(ops, exprTerms), nil
}

// (! | - | +) unary | postfix
func (parser *Parser) parseUnaryExpression() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, parser.makeError("expression")
	}
	var op *OpAst
	switch token.tp {
	case NotTP:
		op = &BooleanNegationOp
	case MinusTP:
		op = &NegationOpAst
	case AddTP:
		op = &PlusOpAst
	default:
		return parser.parsePostfixExpression()
	}
	parser.stepForward()
	operand, err := parser.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	return &UnaryAst{exprBase: exprBase{pos: token.Pos()}, Op: op, Operand: operand}, nil
}

// primary (. name [(args)])*
func (parser *Parser) parsePostfixExpression() (ExpressionAst, error) {
	expr, err := parser.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		if _, match := parser.expectToken(DotTP, true); !match {
			return expr, nil
		}
		nameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("method or field name")
		}
		if _, match = parser.expectToken(LeftParenthesesTP, false); !match {
			expr = &FieldAccessAst{exprBase: exprBase{pos: nameToken.Pos()}, Receiver: expr, FieldName: nameToken.content}
			continue
		}
		args, err := parser.parseCallArguments()
		if err != nil {
			return nil, err
		}
		expr = &MethodCallAst{
			exprBase:   exprBase{pos: nameToken.Pos()},
			Receiver:   expr,
			MethodName: nameToken.content,
			Params:     args,
		}
	}
}

func (parser *Parser) parsePrimaryExpression() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, parser.makeError("expression")
	}
	base := exprBase{pos: token.Pos()}
	switch token.tp {
	case IntegerTP:
		value, err := strconv.ParseInt(token.content, 10, 64)
		if err != nil {
			return nil, newDiagnostic(KindSyntax, token.Pos(), "integer constant %s out of range", token.content)
		}
		parser.stepForward()
		return &IntegerLiteralAst{exprBase: base, Value: value}, nil
	case StringTP:
		parser.stepForward()
		return &StringLiteralAst{exprBase: base, Value: token.content}, nil
	case TrueTP, FalseTP:
		parser.stepForward()
		return &BooleanLiteralAst{exprBase: base, Value: token.tp == TrueTP}, nil
	case ThisTP:
		parser.stepForward()
		return &ThisAst{exprBase: base}, nil
	case LeftParenthesesTP:
		return parser.parseParenthesizedExpression()
	case PrintTP, PrintlnTP:
		parser.stepForward()
		arg, err := parser.parseParenthesizedExpression()
		if err != nil {
			return nil, err
		}
		return &PrintAst{exprBase: base, Newline: token.tp == PrintlnTP, Arg: arg}, nil
	case NewTP:
		parser.stepForward()
		classNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("class name")
		}
		args, err := parser.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return &NewAst{exprBase: base, ClassName: classNameToken.content, Params: args}, nil
	case IdentifierTP:
		parser.stepForward()
		if _, match := parser.expectToken(LeftParenthesesTP, false); !match {
			return &VariableAst{exprBase: base, VarName: token.content}, nil
		}
		args, err := parser.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return &CallAst{exprBase: base, FuncName: token.content, Params: args}, nil
	}
	return nil, parser.makeError("expression")
}

var binaryOpTokenMap = map[TokenType]*OpAst{
	OrTP:           &OrOpAst,
	AndTP:          &AndOpAst,
	EqualTP:        &EqualOpAst,
	NotEqualTP:     &NotEqualOpAst,
	LessTP:         &LessOpAst,
	LessEqualTP:    &LessEqualOpAst,
	GreaterTP:      &GreatOpAst,
	GreaterEqualTP: &GreatEqualOpAst,
	AddTP:          &AddOpAst,
	MinusTP:        &MinusOpAst,
	MultiplyTP:     &MultipleOpAst,
	DivideTP:       &DivideOpAst,
}

// parseOpAst consumes the binary operator matched by matchOp.
func (parser *Parser) parseOpAst() *OpAst {
	token, _ := parser.getCurrentToken()
	parser.stepForward()
	return binaryOpTokenMap[token.tp]
}

func (parser *Parser) matchOp() bool {
	if !parser.hasRemainTokens() {
		return false
	}
	_, ok := binaryOpTokenMap[parser.currentTokens[parser.currentTokenPos].tp]
	return ok
}
