package solver

import "errors"

// ErrNoSolution is returned when no solution exists within the
// configured move budget.
var ErrNoSolution = errors.New("solver: no solution found within move budget")
