package internal

import (
	"strings"
)

// rootClassIndex is the slot of the implicit root every class descends from. It has no name
// and cannot be referenced from source.
const rootClassIndex = 0

// ClassInfo is the resolved view of one class: its parent, the flattened field list and the
// overloads it declares itself.
type ClassInfo struct {
	Name   string
	Index  int
	Parent int // Index of the parent class, -1 for the root.
	Ast    *ClassAst

	// Fields holds inherited fields first, in ancestor order, then the class's own.
	Fields     []*FieldInfo
	fieldIndex map[string]*FieldInfo

	methods     map[string][]*FuncAst
	methodNames []string

	flattened bool
}

type FieldInfo struct {
	Name  string
	Type  VariableType
	Owner *ClassInfo
	Decl  *VarDeclareAst
}

func (classInfo *ClassInfo) IsRoot() bool {
	return classInfo.Index == rootClassIndex
}

// Field finds a field declared by the class or any ancestor.
func (classInfo *ClassInfo) Field(name string) (*FieldInfo, bool) {
	field, ok := classInfo.fieldIndex[name]
	return field, ok
}

// OwnFields returns the fields declared by the class itself.
func (classInfo *ClassInfo) OwnFields() []*FieldInfo {
	var fields []*FieldInfo
	for _, field := range classInfo.Fields {
		if field.Owner == classInfo {
			fields = append(fields, field)
		}
	}
	return fields
}

// OwnMethods returns the overloads named `name` declared directly in the class, in
// declaration order.
func (classInfo *ClassInfo) OwnMethods(name string) []*FuncAst {
	return classInfo.methods[name]
}

// MethodNames lists the method names the class declares, in first-declaration order.
func (classInfo *ClassInfo) MethodNames() []string {
	return classInfo.methodNames
}

// ClassHierarchy is the table of all classes of one program, indexed by position. Parent links
// are indices into the same table so a cyclic input never produces a cyclic pointer graph.
type ClassHierarchy struct {
	classes []*ClassInfo
	byName  map[string]int
}

type visitState int

const (
	unvisited visitState = iota
	onPath
	visited
)

// BuildClassHierarchy resolves the classes of a program. Problems are reported to `diags` and
// repaired so the result is always a tree: unknown parents and classes closing a cycle are
// attached to the root.
func BuildClassHierarchy(classAsts []*ClassAst, diags *Diagnostics) *ClassHierarchy {
	hierarchy := &ClassHierarchy{byName: make(map[string]int)}
	hierarchy.classes = append(hierarchy.classes, &ClassInfo{
		Index:      rootClassIndex,
		Parent:     -1,
		fieldIndex: map[string]*FieldInfo{},
		methods:    map[string][]*FuncAst{},
		flattened:  true,
	})
	for _, classAst := range classAsts {
		classAst.Info = nil
		if prev, ok := hierarchy.Lookup(classAst.ClassName); ok {
			diags.add(KindDuplicateDeclare, classAst.Pos(), "class %s already declared at %s",
				classAst.ClassName, prev.Ast.Pos())
			continue
		}
		classInfo := &ClassInfo{
			Name:       classAst.ClassName,
			Index:      len(hierarchy.classes),
			Parent:     rootClassIndex,
			Ast:        classAst,
			fieldIndex: map[string]*FieldInfo{},
			methods:    map[string][]*FuncAst{},
		}
		hierarchy.byName[classInfo.Name] = classInfo.Index
		hierarchy.classes = append(hierarchy.classes, classInfo)
		classAst.Info = classInfo
	}
	hierarchy.resolveParents(diags)
	hierarchy.breakCycles(diags)
	for _, classInfo := range hierarchy.classes {
		hierarchy.flattenFields(classInfo, diags)
	}
	for _, classInfo := range hierarchy.Classes() {
		hierarchy.collectMethods(classInfo, diags)
	}
	return hierarchy
}

func (hierarchy *ClassHierarchy) resolveParents(diags *Diagnostics) {
	for _, classInfo := range hierarchy.Classes() {
		classAst := classInfo.Ast
		if !classAst.HasParent() {
			continue
		}
		parent, ok := hierarchy.Lookup(classAst.ParentName)
		if !ok {
			diags.add(KindUnknownParent, classAst.parentPos, "class %s extends undeclared class %s",
				classInfo.Name, classAst.ParentName)
			continue
		}
		classInfo.Parent = parent.Index
	}
}

// breakCycles follows the parent links from every class, marking the classes on the current
// path. Reaching a class that is still on the path closes a cycle; the class whose parent link
// closed it is re-attached to the root.
func (hierarchy *ClassHierarchy) breakCycles(diags *Diagnostics) {
	states := make([]visitState, len(hierarchy.classes))
	states[rootClassIndex] = visited
	for start := range hierarchy.classes {
		var path []int
		current := start
		for current >= 0 && states[current] == unvisited {
			states[current] = onPath
			path = append(path, current)
			current = hierarchy.classes[current].Parent
		}
		if current >= 0 && states[current] == onPath {
			closing := hierarchy.classes[path[len(path)-1]]
			diags.add(KindCyclicInheritance, closing.Ast.parentPos, "cyclic inheritance: %s",
				hierarchy.cycleString(path, current))
			closing.Parent = rootClassIndex
		}
		for _, index := range path {
			states[index] = visited
		}
	}
}

func (hierarchy *ClassHierarchy) cycleString(path []int, first int) string {
	start := 0
	for path[start] != first {
		start++
	}
	var names []string
	for _, index := range path[start:] {
		names = append(names, hierarchy.classes[index].Name)
	}
	names = append(names, hierarchy.classes[first].Name)
	return strings.Join(names, " -> ")
}

// flattenFields computes the field list of `classInfo` after the one of its parent.
func (hierarchy *ClassHierarchy) flattenFields(classInfo *ClassInfo, diags *Diagnostics) {
	if classInfo.flattened {
		return
	}
	classInfo.flattened = true
	parent := hierarchy.classes[classInfo.Parent]
	hierarchy.flattenFields(parent, diags)
	for _, field := range parent.Fields {
		classInfo.Fields = append(classInfo.Fields, field)
		classInfo.fieldIndex[field.Name] = field
	}
	for _, decl := range classInfo.Ast.Fields {
		if prev, ok := classInfo.fieldIndex[decl.VarName]; ok {
			if prev.Owner == classInfo {
				diags.add(KindDuplicateDeclare, decl.Pos(), "field %s already declared in class %s",
					decl.VarName, classInfo.Name)
			} else {
				diags.add(KindDuplicateDeclare, decl.Pos(), "field %s of class %s already declared in ancestor %s",
					decl.VarName, classInfo.Name, prev.Owner.Name)
			}
			continue
		}
		field := &FieldInfo{Name: decl.VarName, Type: decl.VarType, Owner: classInfo, Decl: decl}
		classInfo.Fields = append(classInfo.Fields, field)
		classInfo.fieldIndex[field.Name] = field
	}
}

func (hierarchy *ClassHierarchy) collectMethods(classInfo *ClassInfo, diags *Diagnostics) {
	for _, method := range classInfo.Ast.Methods {
		method.Class = classInfo
		overloads := classInfo.methods[method.FuncName]
		duplicate := false
		for _, other := range overloads {
			if sameTypes(other.ParamTypes(), method.ParamTypes()) {
				diags.add(KindDuplicateDeclare, method.Pos(), "method %s.%s already declared at %s",
					classInfo.Name, method.Signature(), other.Pos())
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		if len(overloads) == 0 {
			classInfo.methodNames = append(classInfo.methodNames, method.FuncName)
		}
		classInfo.methods[method.FuncName] = append(overloads, method)
	}
}

func sameTypes(a, b []VariableType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (hierarchy *ClassHierarchy) Root() *ClassInfo {
	return hierarchy.classes[rootClassIndex]
}

// Lookup finds a declared class by name. The root is never found.
func (hierarchy *ClassHierarchy) Lookup(name string) (*ClassInfo, bool) {
	index, ok := hierarchy.byName[name]
	if !ok {
		return nil, false
	}
	return hierarchy.classes[index], true
}

// Classes returns the declared classes in declaration order, without the root.
func (hierarchy *ClassHierarchy) Classes() []*ClassInfo {
	return hierarchy.classes[1:]
}

// ParentOf returns the parent of `classInfo`, nil for the root.
func (hierarchy *ClassHierarchy) ParentOf(classInfo *ClassInfo) *ClassInfo {
	if classInfo.Parent < 0 {
		return nil
	}
	return hierarchy.classes[classInfo.Parent]
}

// Ancestors returns `classInfo` followed by its ancestors, most derived first, ending with the
// root.
func (hierarchy *ClassHierarchy) Ancestors(classInfo *ClassInfo) []*ClassInfo {
	var ancestors []*ClassInfo
	for current := classInfo; current != nil; current = hierarchy.ParentOf(current) {
		ancestors = append(ancestors, current)
	}
	return ancestors
}

// IsSubclass reports whether `sub` is `super` or descends from it.
func (hierarchy *ClassHierarchy) IsSubclass(sub, super *ClassInfo) bool {
	for current := sub; current != nil; current = hierarchy.ParentOf(current) {
		if current == super {
			return true
		}
	}
	return false
}

// IsSubtype reports whether a value of class type `from` may be used where class type `to`
// is expected.
func (hierarchy *ClassHierarchy) IsSubtype(from, to VariableType) bool {
	if !from.IsClass() || !to.IsClass() {
		return false
	}
	sub, ok := hierarchy.Lookup(from.Name)
	if !ok {
		return false
	}
	super, ok := hierarchy.Lookup(to.Name)
	if !ok {
		return false
	}
	return hierarchy.IsSubclass(sub, super)
}

// Ordered returns the declared classes with every class after its parent, keeping declaration
// order otherwise.
func (hierarchy *ClassHierarchy) Ordered() []*ClassInfo {
	done := make([]bool, len(hierarchy.classes))
	done[rootClassIndex] = true
	var ordered []*ClassInfo
	var visit func(classInfo *ClassInfo)
	visit = func(classInfo *ClassInfo) {
		if done[classInfo.Index] {
			return
		}
		done[classInfo.Index] = true
		visit(hierarchy.classes[classInfo.Parent])
		ordered = append(ordered, classInfo)
	}
	for _, classInfo := range hierarchy.Classes() {
		visit(classInfo)
	}
	return ordered
}
