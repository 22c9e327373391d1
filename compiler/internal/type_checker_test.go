package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkProgram(t *testing.T, content string) (*ProgramAst, *Diagnostics) {
	program := parseProgram(t, content)
	_, diags := Check(program)
	return program, diags
}

func TestTypeChecker_Errors(t *testing.T) {
	testData := []struct {
		Content string
		Kinds   []ErrorKind
	}{
		{Content: `let x: Int = 1; let y: Str = "a"; println(x); println(y + "b");`},
		{Content: `let x: Int = "a";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `println(y);`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `let b: Boolean = !1;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let i: Int = -true;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Int = 1 + "a";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let s: Str = "a" - "b";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let s: Str = "a" + "b"; let i: Int = 7 / 2 * 3 - 1;`},
		{Content: `let x: Boolean = 1 < 2 && true || !false;`},
		{Content: `let x: Boolean = 1 == "a";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Boolean = "a" < "b";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Boolean = 1 && true;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Boolean = "a" == "b" && true != false;`},
		{Content: `fun f(a: Int, b: Str) -> Int { return a; } let x: Int = f(1);`, Kinds: []ErrorKind{KindArgumentCount}},
		{Content: `fun f(a: Int) -> Int { return a; } let x: Int = f("s");`, Kinds: []ErrorKind{KindArgumentType}},
		{Content: `fun f(a: Int) -> Int { return a; } let x: Str = f(1);`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Int = g();`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `fun f() {} fun f() {} f();`, Kinds: []ErrorKind{KindDuplicateDeclare}},
		{
			Content: `class P { let name: Str; let n: Int; init(name: Str, n: Int) { } } let p: P = new P();`,
			Kinds:   []ErrorKind{KindArgumentCount},
		},
		{Content: `class P { init(n: Int) { } } let p: P = new P(true);`, Kinds: []ErrorKind{KindArgumentType}},
		{Content: `let p: Q = new Q();`, Kinds: []ErrorKind{KindUndefinedName, KindUndefinedName}},
		{Content: `class A { init() {} } class B extends A { init() {} } 1;`, Kinds: []ErrorKind{KindSuperCall}},
		{Content: `class A { init() { super(); } } 1;`, Kinds: []ErrorKind{KindSuperCall}},
		{
			Content: `class A { init(x: Int) {} } class B extends A { init() { super("s"); } } 1;`,
			Kinds:   []ErrorKind{KindArgumentType},
		},
		{
			Content: `class A { init(x: Int) {} } class B extends A { init() { super(); } } 1;`,
			Kinds:   []ErrorKind{KindArgumentCount},
		},
		{Content: `class A { init(x: Int) {} } class B extends A { init(y: Int) { super(y + 1); } } 1;`},
		{Content: `break;`, Kinds: []ErrorKind{KindBreakOutsideLoop}},
		{Content: `while (true) { if (false) { break; } }`},
		{Content: `fun f() { break; } while (true) { f(); }`, Kinds: []ErrorKind{KindBreakOutsideLoop}},
		{Content: `return 1;`, Kinds: []ErrorKind{KindReturnOutsideFunc}},
		{Content: `fun f() { return 1; } f();`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `fun f() -> Int { return; } f();`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `fun f() -> Int { return "s"; } f();`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `class A { init() { return; } } 1;`},
		{Content: `class A { init() { return 1; } } 1;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `if (1) { println(1); }`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `while ("a") { }`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `println(this);`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `fun f() { println(this); } f();`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `class A { init() {} } let a: A = new A(); println(a);`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `println(println(1));`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let v: Void;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `fun f(v: Void) {} 1;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `class A { let v: Void; init() {} } 1;`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let z: Zed;`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `fun f() -> Zed { return 1; } f();`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `fun f() {} let x: Int = f();`, Kinds: []ErrorKind{KindTypeMismatch}},
		{
			Content: `class A { init() {} } class B extends A { init() { super(); } } let a: A = new B(); let b: B = new A();`,
			Kinds:   []ErrorKind{KindTypeMismatch},
		},
		{
			Content: `class A { init() {} } class B extends A { init() { super(); } } let a: A = new A(); let b: B = new B(); println(a == b);`,
			Kinds:   []ErrorKind{KindTypeMismatch},
		},
		{
			Content: `class A { init() {} } class B extends A { init() { super(); } } let a: A = new A(); let b: A = new B(); println(a != b);`,
		},
		{
			Content: `class A { init() {} } class C { init() {} } let a: A = new A(); let c: C = new C(); println(a == c);`,
			Kinds:   []ErrorKind{KindTypeMismatch},
		},
		{
			Content: `class A { let x: Int; init() { x = 1; this.x = 2; } meth get() -> Int { return x + this.x; } }
				let a: A = new A(); a.x = 3; println(a.x + a.get());`,
		},
		{Content: `class A { init() {} } let a: A = new A(); println(a.y);`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `class A { init() {} } let a: A = new A(); a.y = 1;`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `class A { let y: Int; init() {} } let a: A = new A(); a.y = "s";`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Int = 1; x.f();`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `let x: Int = 1; println(x.f);`, Kinds: []ErrorKind{KindTypeMismatch}},
		{Content: `class A { init() {} } let a: A = new A(); a.f();`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `fun f() -> Int { return x; } let x: Int = 1; f();`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `let x: Int = 1; let x: Int = 2;`, Kinds: []ErrorKind{KindDuplicateDeclare}},
		{Content: `let x: Int = 1; { let x: Str = "a"; println(x); }`},
		{Content: `fun f(a: Int) { let a: Int = 1; } f(1);`, Kinds: []ErrorKind{KindDuplicateDeclare}},
		{Content: `fun f(a: Int, a: Str) { } f(1, "s");`, Kinds: []ErrorKind{KindDuplicateDeclare}},
		{Content: `x = 1;`, Kinds: []ErrorKind{KindUndefinedName}},
		{Content: `let x: Int = 1; x = "s";`, Kinds: []ErrorKind{KindTypeMismatch}},
		// Independent statements are checked independently.
		{
			Content: `let x: Int = "a"; let y: Str = 1; println(z);`,
			Kinds:   []ErrorKind{KindTypeMismatch, KindTypeMismatch, KindUndefinedName},
		},
		// An error inside an expression is reported once, not again by every enclosing operator.
		{Content: `let x: Int = (u + 1) * 2 - 3;`, Kinds: []ErrorKind{KindUndefinedName}},
	}
	for _, data := range testData {
		_, diags := checkProgram(t, data.Content)
		assert.Equal(t, data.Kinds, diags.Kinds(), data.Content)
	}
}

func TestTypeChecker_Annotations(t *testing.T) {
	program, diags := checkProgram(t, `
		class A { let n: Int; init() {} meth get() -> Int { return n; } }
		fun f(a: A) -> Str { return "s"; }
		let a: A = new A();
		let s: Str = f(a);
		println(a.get() + 1);
	`)
	require.True(t, diags.Empty(), diags.Err())

	newAst := program.Statements[0].(*LetStatementAst).Value.(*NewAst)
	assert.Equal(t, ClassType("A"), newAst.Type())
	require.NotNil(t, newAst.Class)
	assert.Equal(t, "A", newAst.Class.Name)

	call := program.Statements[1].(*LetStatementAst).Value.(*CallAst)
	assert.Equal(t, StrType, call.Type())
	assert.Same(t, program.Funcs[0], call.Func)
	assert.Equal(t, ClassType("A"), call.Params[0].Type())

	printAst := program.Statements[2].(*ExpressionStatementAst).Expr.(*PrintAst)
	assert.Equal(t, VoidType, printAst.Type())
	sum := printAst.Arg.(*BinaryAst)
	assert.Equal(t, IntType, sum.Type())
	methodCall := sum.Left.(*MethodCallAst)
	assert.Equal(t, IntType, methodCall.Type())
	assert.Equal(t, "A.get()", methodCall.Method.Signature())

	ret := program.Classes[0].Methods[0].Body[0].(*ReturnStatementAst)
	field := ret.Value.(*VariableAst)
	assert.True(t, field.Field)
	assert.Equal(t, IntType, field.Type())
}

func TestTypeChecker_OverloadResolution(t *testing.T) {
	const classes = `
		class Base { init() {} meth f(x: Int) -> Int { return 1; } }
		class Derived extends Base {
			init() { super(); }
			meth f(x: Int, y: Int) -> Int { return 2; }
			meth f(s: Str) -> Str { return s; }
		}
		let d: Derived = new Derived();
	`
	testData := []struct {
		Call      string
		Kinds     []ErrorKind
		Signature string
		Type      VariableType
	}{
		{Call: "d.f(1);", Signature: "Base.f(Int)", Type: IntType},
		{Call: "d.f(1, 2);", Signature: "Derived.f(Int, Int)", Type: IntType},
		{Call: `d.f("s");`, Signature: "Derived.f(Str)", Type: StrType},
		{Call: "d.f();", Kinds: []ErrorKind{KindNoMatchingOverload}, Type: InvalidType},
		{Call: "d.f(true);", Kinds: []ErrorKind{KindNoMatchingOverload}, Type: InvalidType},
		{Call: "d.g(1);", Kinds: []ErrorKind{KindUndefinedName}, Type: InvalidType},
		// An argument that already failed matches any parameter type and is not reported again.
		{Call: "d.f(nope);", Kinds: []ErrorKind{KindUndefinedName}, Signature: "Derived.f(Str)", Type: StrType},
		{Call: "d.f(nope, 1);", Kinds: []ErrorKind{KindUndefinedName}, Signature: "Derived.f(Int, Int)", Type: IntType},
	}
	for _, data := range testData {
		// Run each resolution twice to make sure the choice is deterministic.
		for i := 0; i < 2; i++ {
			program, diags := checkProgram(t, classes+data.Call)
			assert.Equal(t, data.Kinds, diags.Kinds(), data.Call)
			call := program.Statements[1].(*ExpressionStatementAst).Expr.(*MethodCallAst)
			assert.Equal(t, data.Type, call.Type(), data.Call)
			if data.Signature == "" {
				assert.Nil(t, call.Method, data.Call)
				continue
			}
			require.NotNil(t, call.Method, data.Call)
			assert.Equal(t, data.Signature, call.Method.Signature(), data.Call)
		}
	}
}

func TestTypeChecker_OverloadNearestWins(t *testing.T) {
	program, diags := checkProgram(t, `
		class A { init() {} meth h(x: Int) -> Int { return 1; } }
		class B extends A { init() { super(); } meth h(x: Int) -> Str { return "b"; } }
		let b: B = new B();
		let s: Str = b.h(1);
	`)
	require.True(t, diags.Empty(), diags.Err())
	call := program.Statements[1].(*LetStatementAst).Value.(*MethodCallAst)
	assert.Equal(t, "B", call.Method.Class.Name)
}

func TestTypeChecker_AmbiguousCall(t *testing.T) {
	_, diags := checkProgram(t, `
		class A { init() {} meth g(x: A) {} meth g(x: B) {} }
		class B extends A { init() { super(); } }
		let a: A = new A();
		a.g(new B());
		a.g(new A());
	`)
	assert.Equal(t, []ErrorKind{KindAmbiguousCall}, diags.Kinds())
}

// The receiver's static type decides the lookup class, not the runtime value.
func TestTypeChecker_StaticReceiverType(t *testing.T) {
	program, diags := checkProgram(t, `
		class A{init(){} meth f()->Int{return 1;}}
		class B extends A{init(){super();} meth f()->Int{return 2;}}
		let a: A = new B();
		a.f();
	`)
	require.True(t, diags.Empty(), diags.Err())
	call := program.Statements[1].(*ExpressionStatementAst).Expr.(*MethodCallAst)
	assert.Equal(t, IntType, call.Type())
	assert.Equal(t, "A.f()", call.Method.Signature())
}

func TestTypeChecker_Idempotent(t *testing.T) {
	testData := []string{
		`class A { let n: Int; init() {} meth get() -> Int { return n; } }
		 let a: A = new A(); let x: Int = a.get() + 1; println(x);`,
		`class A extends B { init() { super(); } } class B extends A { init() { super(); } }
		 let x: Int = "s"; let y: Int; println(y); fun_call();`,
	}
	for _, content := range testData {
		program := parseProgram(t, content)
		_, first := Check(program)
		firstTypes := collectTypes(program)
		_, second := Check(program)
		assert.Equal(t, first.List(), second.List(), content)
		assert.Equal(t, firstTypes, collectTypes(program), content)
	}
}

// collectTypes lists the recorded type of every top level expression statement and
// initializer.
func collectTypes(program *ProgramAst) []VariableType {
	var types []VariableType
	for _, stm := range program.Statements {
		switch stm := stm.(type) {
		case *ExpressionStatementAst:
			types = append(types, stm.Expr.Type())
		case *LetStatementAst:
			if stm.Value != nil {
				types = append(types, stm.Value.Type())
			}
		}
	}
	return types
}
