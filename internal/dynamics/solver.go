package dynamics

const DefaultSolverIterations = 10

// Solver runs one XPBD position and velocity pass per substep, so solver
// iterations become substeps of every internal step.
type Solver struct {
	Substeps int
}

func NewSolver(iterations int) *Solver {
	return &Solver{Substeps: max(1, iterations)}
}
