package internal

// Definite initialization runs inside the checker walk: each SymbolDesc carries its state,
// branches and loops take a snapshot before and join the facts after. Return completeness is
// a separate syntactic pass over a finished body.

// InitState is the initialization lattice Uninitialized < MaybeInitialized < Initialized.
type InitState int

const (
	Uninitialized InitState = iota
	MaybeInitialized
	Initialized
)

func (state InitState) String() string {
	switch state {
	case Uninitialized:
		return "uninitialized"
	case MaybeInitialized:
		return "maybe initialized"
	case Initialized:
		return "initialized"
	}
	return "unknown"
}

// Merge joins the states reaching a control flow merge: equal states stay, anything else
// becomes MaybeInitialized.
func (state InitState) Merge(other InitState) InitState {
	if state == other {
		return state
	}
	return MaybeInitialized
}

// InitFacts maps each visible binding to its initialization state at one program point.
type InitFacts map[*SymbolDesc]InitState

// Merge joins two sets of facts taken over the same bindings.
func (facts InitFacts) Merge(other InitFacts) InitFacts {
	merged := make(InitFacts, len(facts))
	for desc, state := range facts {
		if otherState, ok := other[desc]; ok {
			merged[desc] = state.Merge(otherState)
		} else {
			merged[desc] = state
		}
	}
	return merged
}

// branchOutcome is the state at the end of one branch. A branch that always returns or
// breaks does not reach the join, so it contributes nothing to it.
type branchOutcome struct {
	facts InitFacts
	exits bool
}

// joinBranches returns the facts after an if statement, or nil when neither branch reaches
// the statement after it.
func joinBranches(then, els branchOutcome) InitFacts {
	switch {
	case then.exits && els.exits:
		return nil
	case then.exits:
		return els.facts
	case els.exits:
		return then.facts
	}
	return then.facts.Merge(els.facts)
}

// statementEndsInReturn reports whether every path through `stm` ends in a return.
func statementEndsInReturn(stm StatementAst) bool {
	switch stm := stm.(type) {
	case *ReturnStatementAst:
		return true
	case *IfStatementAst:
		return stm.Else != nil && statementEndsInReturn(stm.Then) && statementEndsInReturn(stm.Else)
	case *BlockStatementAst:
		return statementsEndInReturn(stm.Statements)
	case *WhileStatementAst:
		// The body may run zero times.
		return false
	}
	return false
}

// statementExits reports whether no path through `stm` falls through to the next statement,
// because each one ends in a return or a break.
func statementExits(stm StatementAst) bool {
	switch stm := stm.(type) {
	case *ReturnStatementAst, *BreakStatementAst:
		return true
	case *IfStatementAst:
		return stm.Else != nil && statementExits(stm.Then) && statementExits(stm.Else)
	case *BlockStatementAst:
		return len(stm.Statements) > 0 && statementExits(stm.Statements[len(stm.Statements)-1])
	}
	return false
}

// statementsEndInReturn applies the block rule: a sequence ends in a return when its last
// statement does.
func statementsEndInReturn(stms []StatementAst) bool {
	if len(stms) == 0 {
		return false
	}
	return statementEndsInReturn(stms[len(stms)-1])
}

// checkReturnCompleteness reports a MissingReturnError when a non-Void function or method
// body has a path that does not end in a return.
func checkReturnCompleteness(funcAst *FuncAst, diags *Diagnostics) {
	if !funcAst.ReturnTP.IsValid() || funcAst.ReturnTP.IsVoid() {
		return
	}
	if statementsEndInReturn(funcAst.Body) {
		return
	}
	name := funcAst.FuncName
	if funcAst.Class != nil {
		name = funcAst.Class.Name + "." + name
	}
	diags.add(KindMissingReturn, funcAst.Pos(), "%s must return a value of type %s on every path",
		name, funcAst.ReturnTP)
}
