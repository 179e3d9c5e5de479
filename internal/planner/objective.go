package planner

import "railopt/internal/cpsat"

// AddObjective sets the model's objective: minimize the total preventive
// maintenance deviation, in kilometers, across every scheduled instance —
// the only quantity the original optimizer optimizes for.
func AddObjective(vars *Variables, m *cpsat.Model) {
	terms := make([]cpsat.Term, 0, len(vars.Deviation))
	for _, v := range vars.Deviation {
		terms = append(terms, cpsat.Term{Coef: 1, Var: v})
	}
	m.Minimize(terms...)
}
