// Package symbols implements the C1 symbol table: a stack of scopes backing
// static, lexical name resolution with one level of function-body nesting
// under the global scope.
//
// Semantics (id assignment timing, insert side effects per symbol class,
// leave-scope cleanup) are grounded on
// original_source/src/parser/structures/symbol_table.rs; see SPEC_FULL.md §5.
package symbols

import "fmt"

// Type is the C1 value type lattice.
type Type int

const (
	Void Type = iota
	Boolean
	Integer
	Float
	String
)

func (t Type) String() string {
	switch t {
	case Void:
		return "Void"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Class distinguishes how a symbol was declared.
type Class int

const (
	ClassVariable Class = iota
	ClassParameter
	ClassFunction
)

func (c Class) String() string {
	switch c {
	case ClassVariable:
		return "Variable"
	case ClassParameter:
		return "Parameter"
	case ClassFunction:
		return "Function"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Symbol is one entry in the table. Parameters is only meaningful for
// Class == ClassFunction, and is populated by successive Insert calls for
// that function's Parameter-class symbols, in declaration order.
type Symbol struct {
	Name       string
	ID         uint64
	Type       Type
	Class      Class
	Parameters []Symbol
}

func (s Symbol) String() string {
	return fmt.Sprintf("Symbol(name: %s, id: %d, type: %s, class: %s)", s.Name, s.ID, s.Type, s.Class)
}

// Table is a stack of scopes; index 0 is always the global scope and is
// never popped.
type Table struct {
	scopes      []map[string]*Symbol
	numSymbols  uint64
	functionIDs []uint64
	functionTyp *Type
}

// New returns a table with just the global scope active.
func New() *Table {
	return &Table{scopes: []map[string]*Symbol{{}}}
}

// FunctionSymbol, VariableSymbol, and ParameterSymbol construct a fresh
// Symbol of the given name/type/class, with id taken from the table's
// current successfully-inserted-symbol count. The id is assigned here,
// when the symbol is "seen", regardless of whether a later Insert of it
// succeeds: two symbols constructed back to back before either is
// inserted will carry the same id.
func (t *Table) FunctionSymbol(name string, typ Type) Symbol {
	return Symbol{Name: name, ID: t.numSymbols, Type: typ, Class: ClassFunction}
}

func (t *Table) VariableSymbol(name string, typ Type) Symbol {
	return Symbol{Name: name, ID: t.numSymbols, Type: typ, Class: ClassVariable}
}

func (t *Table) ParameterSymbol(name string, typ Type) Symbol {
	return Symbol{Name: name, ID: t.numSymbols, Type: typ, Class: ClassParameter}
}

// FunctionType reports the return type of the innermost function scope
// currently entered, if any.
func (t *Table) FunctionType() (Type, bool) {
	if t.functionTyp == nil {
		return Void, false
	}
	return *t.functionTyp, true
}

// EnterScope pushes a new, empty scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, map[string]*Symbol{})
}

// LeaveScope pops the innermost scope. It panics if called on the global
// scope: that is a programmer error in the caller, not a diagnosable
// condition of the program being analyzed.
func (t *Table) LeaveScope() {
	if len(t.scopes) == 1 {
		panic("symbols: cannot leave the global scope")
	}
	popped := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	t.numSymbols -= uint64(len(popped))
	for _, sym := range popped {
		if sym.Class == ClassFunction {
			if len(t.functionIDs) > 0 {
				t.functionIDs = t.functionIDs[:len(t.functionIDs)-1]
			}
			t.functionTyp = nil
		}
	}
}

// NumScopes reports how many scopes (including the global one) are active.
func (t *Table) NumScopes() int {
	return len(t.scopes)
}

// Insert adds sym to the innermost scope. It fails if a symbol with the
// same name already exists in that scope; the returned error's text
// matches original_source's "<symbol> has been defined twice in the
// current scope (<depth>)" message.
func (t *Table) Insert(sym Symbol) error {
	cur := t.scopes[len(t.scopes)-1]
	if _, exists := cur[sym.Name]; exists {
		return fmt.Errorf("%s has been defined twice in the current scope (%d)", sym, len(t.scopes))
	}

	stored := sym
	cur[sym.Name] = &stored
	t.numSymbols++

	switch sym.Class {
	case ClassFunction:
		t.functionIDs = append(t.functionIDs, sym.ID)
		typ := sym.Type
		t.functionTyp = &typ
	case ClassParameter:
		if len(t.functionIDs) > 0 {
			id := t.functionIDs[len(t.functionIDs)-1]
			if fn := t.findByID(id); fn != nil {
				fn.Parameters = append(fn.Parameters, sym)
			}
		}
	}
	return nil
}

func (t *Table) findByID(id uint64) *Symbol {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		for _, s := range t.scopes[i] {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// Get looks up name starting from the innermost scope outward, returning
// the nearest matching symbol.
func (t *Table) Get(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if s, ok := t.scopes[i][name]; ok {
			return *s, true
		}
	}
	return Symbol{}, false
}
