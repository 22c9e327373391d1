package internal

import (
	"strings"
)

// resolveMethod picks the overload of `name` a call on a receiver of static type `receiverTP`
// binds to. The receiver's class and then each ancestor is searched in turn; the first class
// declaring at least one applicable overload decides. Two applicable overloads in that class
// make the call ambiguous.
func (checker *TypeChecker) resolveMethod(receiverTP VariableType, name string, argTypes []VariableType, pos Position) *MethodRef {
	if !receiverTP.IsValid() {
		return nil
	}
	if !receiverTP.IsClass() {
		checker.diags.add(KindTypeMismatch, pos, "cannot call method %s on a value of type %s", name, receiverTP)
		return nil
	}
	receiver, ok := checker.hierarchy.Lookup(receiverTP.Name)
	if !ok {
		return nil
	}
	recovering := hasInvalid(argTypes)
	var candidates []*MethodRef
	for _, classInfo := range checker.hierarchy.Ancestors(receiver) {
		var applicable []*MethodRef
		for _, method := range classInfo.OwnMethods(name) {
			ref := &MethodRef{Class: classInfo, Method: method}
			candidates = append(candidates, ref)
			if checker.isApplicable(method, argTypes) {
				applicable = append(applicable, ref)
			}
		}
		switch {
		case len(applicable) == 1:
			return applicable[0]
		case len(applicable) > 1:
			if !recovering {
				checker.diags.add(KindAmbiguousCall, pos, "call %s%s is ambiguous between %s",
					name, typeListString(argTypes), signatures(applicable))
			}
			return nil
		}
	}
	if len(candidates) == 0 {
		checker.diags.add(KindUndefinedName, pos, "class %s has no method %s", receiver.Name, name)
		return nil
	}
	if !recovering {
		checker.diags.add(KindNoMatchingOverload, pos, "no overload of %s matches %s%s, candidates are %s",
			name, name, typeListString(argTypes), signatures(candidates))
	}
	return nil
}

// isApplicable reports whether `method` accepts arguments of `argTypes` by count and by
// assignability of each argument.
func (checker *TypeChecker) isApplicable(method *FuncAst, argTypes []VariableType) bool {
	if len(method.Params) != len(argTypes) {
		return false
	}
	for i, param := range method.Params {
		if !checker.isAssignable(argTypes[i], checker.knownType(param.VarType)) {
			return false
		}
	}
	return true
}

func hasInvalid(types []VariableType) bool {
	for _, tp := range types {
		if !tp.IsValid() {
			return true
		}
	}
	return false
}

func signatures(refs []*MethodRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Signature())
	}
	return strings.Join(names, ", ")
}
