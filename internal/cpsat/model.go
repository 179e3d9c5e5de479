// Package cpsat is the declarative, backend-agnostic surface the planner
// builds its model against: boolean and integer variables, linear
// constraints (with optional reification), and a linear objective. It
// mirrors the vocabulary of a CP-SAT-style model builder — NewBoolVar,
// NewIntVar, OnlyEnforceIf, Minimize — without committing to any concrete
// solver. A concrete backend (internal/backend/mipsat) consumes a *Model
// and actually solves it.
package cpsat

// Kind distinguishes a boolean variable from a bounded integer variable.
type Kind int

const (
	KindBool Kind = iota
	KindInt
)

// Var is a handle to a decision variable. The zero Var is invalid; use the
// constructors on Model to obtain one.
type Var struct {
	id   int
	kind Kind
	lo   int64
	hi   int64
	name string
}

func (v Var) ID() int      { return v.id }
func (v Var) Kind() Kind   { return v.kind }
func (v Var) Lo() int64    { return v.lo }
func (v Var) Hi() int64    { return v.hi }
func (v Var) Name() string { return v.name }

// Literal is a variable or its negation, used for reification
// (OnlyEnforceIf) and boolean clauses.
type Literal struct {
	V        Var
	Negated  bool
}

// Not returns the negation of v as a Literal.
func (v Var) Not() Literal { return Literal{V: v, Negated: true} }

// Lit returns v as a positive Literal.
func (v Var) Lit() Literal { return Literal{V: v} }

// Negate returns the logical complement of l.
func (l Literal) Negate() Literal { return Literal{V: l.V, Negated: !l.Negated} }

// Term is one coefficient*variable addend of a linear expression.
type Term struct {
	Coef float64
	Var  Var
}

// Sense is the comparison a linear Constraint enforces against its RHS.
type Sense int

const (
	LE Sense = iota // <=
	GE              // >=
	EQ              // ==
)

// Constraint is sum(Terms) <Sense> RHS, optionally gated by EnforceIf: when
// EnforceIf is non-empty, the backend only has to hold the inequality when
// every listed literal is true (CP-SAT's OnlyEnforceIf semantics).
type Constraint struct {
	Name      string
	Sense     Sense
	RHS       float64
	Terms     []Term
	EnforceIf []Literal
}

// AddTerm appends one coefficient*variable addend and returns c for
// chaining.
func (c *Constraint) AddTerm(coef float64, v Var) *Constraint {
	c.Terms = append(c.Terms, Term{Coef: coef, Var: v})
	return c
}

// OnlyEnforceIf gates c on every literal in lits being true.
func (c *Constraint) OnlyEnforceIf(lits ...Literal) *Constraint {
	c.EnforceIf = append(c.EnforceIf, lits...)
	return c
}

// BoolOr is a disjunction constraint: at least one of the listed literals
// must be true, optionally only when every EnforceIf literal holds.
// Modeled separately from Constraint because it has no useful
// linear-coefficient form and backends lower it directly.
type BoolOr struct {
	Name      string
	Lits      []Literal
	EnforceIf []Literal
}

// OnlyEnforceIf gates b on every literal in lits being true.
func (b *BoolOr) OnlyEnforceIf(lits ...Literal) *BoolOr {
	b.EnforceIf = append(b.EnforceIf, lits...)
	return b
}

// Objective is a linear expression the solver minimizes.
type Objective struct {
	Terms []Term
}

// Model accumulates every variable, constraint, and the objective of one
// planning instance's constraint-satisfaction problem. It is built once
// per solve and handed, read-only, to a backend.
type Model struct {
	Vars        []Var
	Constraints []*Constraint
	BoolOrs     []*BoolOr
	Obj         Objective

	// Domains holds the admissible value sets for variables created via
	// NewIntVarFromDomain, keyed by Var.ID(). A backend that cannot
	// express a sparse domain natively must lower these into extra
	// constraints itself.
	Domains map[int][]int64

	nextID int
}

// NewModel returns an empty model ready for variable and constraint
// construction.
func NewModel() *Model { return &Model{} }

// NewBoolVar creates a new 0/1 variable.
func (m *Model) NewBoolVar(name string) Var {
	v := Var{id: m.nextID, kind: KindBool, lo: 0, hi: 1, name: name}
	m.nextID++
	m.Vars = append(m.Vars, v)
	return v
}

// NewIntVar creates a new integer variable bounded to [lo, hi].
func (m *Model) NewIntVar(lo, hi int64, name string) Var {
	v := Var{id: m.nextID, kind: KindInt, lo: lo, hi: hi, name: name}
	m.nextID++
	m.Vars = append(m.Vars, v)
	return v
}

// NewIntVarFromDomain creates an integer variable whose only admissible
// values are the ones listed (mirroring CP-SAT's
// NewIntVarFromDomain(Domain.FromValues(...))). The variable's Lo/Hi
// bracket the domain; the backend is responsible for excluding the gaps.
func (m *Model) NewIntVarFromDomain(values []int64, name string) (Var, []int64) {
	lo, hi := values[0], values[0]
	for _, x := range values {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	v := Var{id: m.nextID, kind: KindInt, lo: lo, hi: hi, name: name}
	m.nextID++
	m.Vars = append(m.Vars, v)
	if m.Domains == nil {
		m.Domains = make(map[int][]int64)
	}
	m.Domains[v.id] = values
	return v, values
}

// NewConstraint starts a new linear constraint sum(terms) <sense> rhs and
// registers it on the model.
func (m *Model) NewConstraint(sense Sense, rhs float64, name string) *Constraint {
	c := &Constraint{Name: name, Sense: sense, RHS: rhs}
	m.Constraints = append(m.Constraints, c)
	return c
}

// AddBoolOr registers a disjunction: at least one literal must be true.
func (m *Model) AddBoolOr(name string, lits ...Literal) *BoolOr {
	b := &BoolOr{Name: name, Lits: lits}
	m.BoolOrs = append(m.BoolOrs, b)
	return b
}

// Minimize sets the objective to minimize sum(terms).
func (m *Model) Minimize(terms ...Term) {
	m.Obj = Objective{Terms: terms}
}
