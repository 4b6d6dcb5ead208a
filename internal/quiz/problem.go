package quiz

import (
	"fmt"
	"math/rand"
)

// Минимальное значение операнда
const minOperand = 2

type Problem struct {
	A         int
	B         int
	Operation Operation
	Answer    int
}

// Text возвращает задачу в виде "5 + 3"
func (p Problem) Text() string {
	return fmt.Sprintf("%d %s %d", p.A, p.Operation.Symbol, p.B)
}

// GenerateProblem выбирает действие и операнды из [2, Range+1]
func GenerateProblem(ops []Operation, r *rand.Rand) Problem {
	op := ops[r.Intn(len(ops))]
	a := r.Intn(op.Range) + minOperand
	b := r.Intn(op.Range) + minOperand

	return Problem{
		A:         a,
		B:         b,
		Operation: op,
		Answer:    op.Apply(a, b),
	}
}
