package quiz

// Operation описывает арифметическое действие и диапазон операндов
type Operation struct {
	Name   string
	Symbol string
	Apply  func(a, b int) int
	Range  int
}

var (
	Addition = Operation{
		Name:   "Addition",
		Symbol: "+",
		Apply:  func(a, b int) int { return a + b },
		Range:  20,
	}
	Multiplication = Operation{
		Name:   "Multiplication",
		Symbol: "×",
		Apply:  func(a, b int) int { return a * b },
		Range:  12,
	}
)

// DefaultOperations возвращает каталог действий по умолчанию
func DefaultOperations() []Operation {
	return []Operation{Addition, Multiplication}
}
