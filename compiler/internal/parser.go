package internal

// Parser is a recursive descent parser over the token slice produced by Tokenizer.
// It checks structure only; names and types are left to the later passes.
type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
}

// Parse builds the program ast of `tokens`. The first structural error stops parsing and is
// returned as a *Diagnostic of kind SyntaxError.
func (parser *Parser) Parse(tokens []*Token) (*ProgramAst, error) {
	parser.reset()
	parser.currentTokens = tokens
	return parser.parseProgram()
}

func (parser *Parser) reset() {
	parser.currentTokenPos, parser.currentTokens = 0, nil
}

// program := (classDef | funDef)* stmt+
func (parser *Parser) parseProgram() (*ProgramAst, error) {
	program := &ProgramAst{}
	for parser.hasRemainTokens() {
		token, _ := parser.getCurrentToken()
		switch token.tp {
		case ClassTP, FunTP:
			if len(program.Statements) > 0 {
				return nil, parser.makeError("statement")
			}
			if token.tp == ClassTP {
				classAst, err := parser.parseClassDeclaration()
				if err != nil {
					return nil, err
				}
				program.Classes = append(program.Classes, classAst)
				continue
			}
			funcAst, err := parser.parseFuncDeclaration(FreeFuncType)
			if err != nil {
				return nil, err
			}
			program.Funcs = append(program.Funcs, funcAst)
		default:
			stm, err := parser.parseStatement()
			if err != nil {
				return nil, err
			}
			program.Statements = append(program.Statements, stm)
		}
	}
	if len(program.Statements) == 0 {
		return nil, parser.makeError("at least one top level statement")
	}
	return program, nil
}

// class Identifier [extends Identifier] {
//    fieldDefs
//    init(...) { ... }
//    methodDefs
// }
func (parser *Parser) parseClassDeclaration() (*ClassAst, error) {
	classToken, _ := parser.expectToken(ClassTP, true)
	classNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("class name")
	}
	classAst := &ClassAst{ClassName: classNameToken.content, pos: classToken.Pos()}
	if _, match = parser.expectToken(ExtendsTP, true); match {
		parentToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("parent class name")
		}
		classAst.ParentName, classAst.parentPos = parentToken.content, parentToken.Pos()
	}
	if _, match = parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.makeError("'{'")
	}
	for {
		if _, match = parser.expectToken(LetTP, false); !match {
			break
		}
		field, err := parser.parseFieldDeclaration()
		if err != nil {
			return nil, err
		}
		classAst.Fields = append(classAst.Fields, field)
	}
	constructor, err := parser.parseConstructor()
	if err != nil {
		return nil, err
	}
	classAst.Constructor = constructor
	for {
		if _, match = parser.expectToken(MethTP, false); !match {
			break
		}
		method, err := parser.parseFuncDeclaration(ClassMethodType)
		if err != nil {
			return nil, err
		}
		classAst.Methods = append(classAst.Methods, method)
	}
	if _, match = parser.expectToken(RightBraceTP, true); !match {
		return nil, parser.makeError("method definition or '}'")
	}
	return classAst, nil
}

// let name: Type;
func (parser *Parser) parseFieldDeclaration() (*VarDeclareAst, error) {
	parser.stepForward()
	field, err := parser.parseVarTypeName()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("';'")
	}
	return field, nil
}

// init(params) { [super(args);] statements }
func (parser *Parser) parseConstructor() (*ConstructorAst, error) {
	initToken, match := parser.expectToken(InitTP, true)
	if !match {
		return nil, parser.makeError("field declaration or constructor")
	}
	constructor := &ConstructorAst{pos: initToken.Pos()}
	params, err := parser.parseFuncParamList()
	if err != nil {
		return nil, err
	}
	constructor.Params = params
	if _, match = parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.makeError("'{'")
	}
	if superToken, match := parser.expectToken(SuperTP, true); match {
		args, err := parser.parseCallArguments()
		if err != nil {
			return nil, err
		}
		if _, match = parser.expectToken(SemiColonTP, true); !match {
			return nil, parser.makeError("';'")
		}
		constructor.HasSuper, constructor.SuperArgs, constructor.superPos = true, args, superToken.Pos()
	}
	body, err := parser.parseStatementsUntilRightBrace()
	if err != nil {
		return nil, err
	}
	constructor.Body = body
	return constructor, nil
}

// [fun|meth] name(params) [-> Type] { statements }
func (parser *Parser) parseFuncDeclaration(funcTP FuncType) (*FuncAst, error) {
	keywordToken, _ := parser.getCurrentToken()
	parser.stepForward()
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("function name")
	}
	funcAst := &FuncAst{FuncTP: funcTP, FuncName: nameToken.content, ReturnTP: VoidType, pos: keywordToken.Pos()}
	params, err := parser.parseFuncParamList()
	if err != nil {
		return nil, err
	}
	funcAst.Params = params
	if _, match = parser.expectToken(ArrowTP, true); match {
		returnTP, _, err := parser.parseVariableType()
		if err != nil {
			return nil, err
		}
		funcAst.ReturnTP = returnTP
	}
	if _, match = parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.makeError("'{'")
	}
	body, err := parser.parseStatementsUntilRightBrace()
	if err != nil {
		return nil, err
	}
	funcAst.Body = body
	return funcAst, nil
}

// (name: Type, name: Type)
func (parser *Parser) parseFuncParamList() (params []*VarDeclareAst, err error) {
	if _, match := parser.expectToken(LeftParenthesesTP, true); !match {
		return nil, parser.makeError("'('")
	}
	if _, match := parser.expectToken(RightParenthesesTP, true); match {
		return nil, nil
	}
	for {
		param, err := parser.parseVarTypeName()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if _, match := parser.expectToken(CommaTP, true); !match {
			break
		}
	}
	if _, match := parser.expectToken(RightParenthesesTP, true); !match {
		return nil, parser.makeError("',' or ')'")
	}
	return params, nil
}

// name: Type
func (parser *Parser) parseVarTypeName() (*VarDeclareAst, error) {
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("variable name")
	}
	if _, match = parser.expectToken(ColonTP, true); !match {
		return nil, parser.makeError("':'")
	}
	varType, typePos, err := parser.parseVariableType()
	if err != nil {
		return nil, err
	}
	return &VarDeclareAst{VarName: nameToken.content, VarType: varType, pos: nameToken.Pos(), typePos: typePos}, nil
}

func (parser *Parser) parseVariableType() (v VariableType, pos Position, err error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return v, pos, parser.makeError("type")
	}
	switch token.tp {
	case IntTP:
		v = IntType
	case StrTP:
		v = StrType
	case BooleanTP:
		v = BooleanType
	case VoidTP:
		v = VoidType
	case IdentifierTP:
		v = ClassType(token.content)
	default:
		return v, pos, parser.makeError("type")
	}
	parser.stepForward()
	return v, token.Pos(), nil
}

// parseStatementsUntilRightBrace parses statements up to and including the closing '}'.
func (parser *Parser) parseStatementsUntilRightBrace() (stms []StatementAst, err error) {
	for {
		if !parser.hasRemainTokens() {
			return nil, parser.makeError("'}'")
		}
		if _, match := parser.expectToken(RightBraceTP, true); match {
			return stms, nil
		}
		stm, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stms = append(stms, stm)
	}
}

func (parser *Parser) parseStatement() (StatementAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, parser.makeError("statement")
	}
	switch token.tp {
	case LetTP:
		return parser.parseLetStatement()
	case WhileTP:
		return parser.parseWhileStatement()
	case BreakTP:
		return parser.parseBreakStatement()
	case ReturnTP:
		return parser.parseReturnStatement()
	case IfTP:
		return parser.parseIfStatement()
	case LeftBraceTP:
		return parser.parseBlockStatement()
	case IdentifierTP:
		if next := parser.peekToken(1); next != nil && next.tp == AssignTP {
			return parser.parseAssignStatement()
		}
	case ClassTP, FunTP:
		return nil, parser.makeError("statement")
	}
	return parser.parseExpressionStatement()
}

// let name: Type [= expression];
func (parser *Parser) parseLetStatement() (StatementAst, error) {
	letToken, _ := parser.expectToken(LetTP, true)
	varDeclare, err := parser.parseVarTypeName()
	if err != nil {
		return nil, err
	}
	stm := &LetStatementAst{stmtBase: stmtBase{pos: letToken.Pos()}, Var: varDeclare}
	if _, match := parser.expectToken(AssignTP, true); match {
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		stm.Value = value
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("'=' or ';'")
	}
	return stm, nil
}

// name = expression;
func (parser *Parser) parseAssignStatement() (StatementAst, error) {
	nameToken, _ := parser.expectToken(IdentifierTP, true)
	parser.stepForward()
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("';'")
	}
	return &AssignStatementAst{stmtBase: stmtBase{pos: nameToken.Pos()}, VarName: nameToken.content, Value: value}, nil
}

// expression; or receiver.name = expression;
func (parser *Parser) parseExpressionStatement() (StatementAst, error) {
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(AssignTP, true); match {
		fieldAccess, ok := expr.(*FieldAccessAst)
		if !ok {
			return nil, parser.makeErrorAt(expr.Pos(), "assignable expression")
		}
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, match = parser.expectToken(SemiColonTP, true); !match {
			return nil, parser.makeError("';'")
		}
		return &FieldAssignStatementAst{
			stmtBase:  stmtBase{pos: fieldAccess.Pos()},
			Receiver:  fieldAccess.Receiver,
			FieldName: fieldAccess.FieldName,
			Value:     value,
		}, nil
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("';'")
	}
	return &ExpressionStatementAst{stmtBase: stmtBase{pos: expr.Pos()}, Expr: expr}, nil
}

// while (expression) statement
func (parser *Parser) parseWhileStatement() (StatementAst, error) {
	whileToken, _ := parser.expectToken(WhileTP, true)
	condition, err := parser.parseParenthesizedExpression()
	if err != nil {
		return nil, err
	}
	body, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStatementAst{stmtBase: stmtBase{pos: whileToken.Pos()}, Condition: condition, Body: body}, nil
}

func (parser *Parser) parseBreakStatement() (StatementAst, error) {
	breakToken, _ := parser.expectToken(BreakTP, true)
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("';'")
	}
	return &BreakStatementAst{stmtBase: stmtBase{pos: breakToken.Pos()}}, nil
}

// return [expression];
func (parser *Parser) parseReturnStatement() (StatementAst, error) {
	returnToken, _ := parser.expectToken(ReturnTP, true)
	stm := &ReturnStatementAst{stmtBase: stmtBase{pos: returnToken.Pos()}}
	if _, match := parser.expectToken(SemiColonTP, true); match {
		return stm, nil
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError("';'")
	}
	stm.Value = value
	return stm, nil
}

// if (expression) statement [else statement]
// The else binds to the nearest if, since the then branch is parsed first.
func (parser *Parser) parseIfStatement() (StatementAst, error) {
	ifToken, _ := parser.expectToken(IfTP, true)
	condition, err := parser.parseParenthesizedExpression()
	if err != nil {
		return nil, err
	}
	then, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	stm := &IfStatementAst{stmtBase: stmtBase{pos: ifToken.Pos()}, Condition: condition, Then: then}
	if _, match := parser.expectToken(ElseTP, true); match {
		elseStm, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stm.Else = elseStm
	}
	return stm, nil
}

func (parser *Parser) parseBlockStatement() (StatementAst, error) {
	braceToken, _ := parser.expectToken(LeftBraceTP, true)
	stms, err := parser.parseStatementsUntilRightBrace()
	if err != nil {
		return nil, err
	}
	return &BlockStatementAst{stmtBase: stmtBase{pos: braceToken.Pos()}, Statements: stms}, nil
}

func (parser *Parser) parseParenthesizedExpression() (ExpressionAst, error) {
	if _, match := parser.expectToken(LeftParenthesesTP, true); !match {
		return nil, parser.makeError("'('")
	}
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(RightParenthesesTP, true); !match {
		return nil, parser.makeError("')'")
	}
	return expr, nil
}

func (parser *Parser) getCurrentToken() (*Token, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError("more tokens")
	}
	return parser.currentTokens[parser.currentTokenPos], nil
}

func (parser *Parser) peekToken(offset int) *Token {
	pos := parser.currentTokenPos + offset
	if pos >= len(parser.currentTokens) {
		return nil
	}
	return parser.currentTokens[pos]
}

// expectToken reports whether the current token has type `tp`, and steps past it when `walk`
// is set and it matches.
func (parser *Parser) expectToken(tp TokenType, walk bool) (*Token, bool) {
	if !parser.hasRemainTokens() {
		return nil, false
	}
	token := parser.currentTokens[parser.currentTokenPos]
	if token.tp != tp {
		return nil, false
	}
	if walk {
		parser.stepForward()
	}
	return token, true
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

// makeError reports that `expected` was wanted at the current token.
func (parser *Parser) makeError(expected string) error {
	if parser.hasRemainTokens() {
		token := parser.currentTokens[parser.currentTokenPos]
		return newDiagnostic(KindSyntax, token.Pos(), "expected %s but found %s", expected, token)
	}
	pos := Position{Line: 1, Column: 1}
	if len(parser.currentTokens) > 0 {
		last := parser.currentTokens[len(parser.currentTokens)-1]
		pos = Position{Line: last.line, Column: last.column + len(last.content)}
	}
	return newDiagnostic(KindSyntax, pos, "expected %s but found end of input", expected)
}

func (parser *Parser) makeErrorAt(pos Position, expected string) error {
	return newDiagnostic(KindSyntax, pos, "expected %s", expected)
}
