package internal

// VarType is the kind of a static type. InvalidVariableType is the placeholder the checker
// substitutes after an error; it is compatible with everything so one mistake is reported once.
type VarType int

const (
	InvalidVariableType VarType = iota
	VoidVariableType            // Only valid as a return type.
	IntVariableType
	StrVariableType
	BooleanVariableType
	ClassVariableType
)

// VariableType is a static type. Class types compare by class name.
type VariableType struct {
	TP   VarType
	Name string
}

var (
	InvalidType = VariableType{TP: InvalidVariableType}
	VoidType    = VariableType{TP: VoidVariableType}
	IntType     = VariableType{TP: IntVariableType}
	StrType     = VariableType{TP: StrVariableType}
	BooleanType = VariableType{TP: BooleanVariableType}
)

func ClassType(name string) VariableType {
	return VariableType{TP: ClassVariableType, Name: name}
}

func (t VariableType) String() string {
	switch t.TP {
	case VoidVariableType:
		return "Void"
	case IntVariableType:
		return "Int"
	case StrVariableType:
		return "Str"
	case BooleanVariableType:
		return "Boolean"
	case ClassVariableType:
		return t.Name
	}
	return "<invalid>"
}

func (t VariableType) IsValid() bool {
	return t.TP != InvalidVariableType
}

func (t VariableType) IsVoid() bool {
	return t.TP == VoidVariableType
}

func (t VariableType) IsClass() bool {
	return t.TP == ClassVariableType
}

// IsPrimitive reports whether t is one of the printable value types Int, Str and Boolean.
func (t VariableType) IsPrimitive() bool {
	return t.TP == IntVariableType || t.TP == StrVariableType || t.TP == BooleanVariableType
}

func typeListString(types []VariableType) string {
	s := "("
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s + ")"
}
