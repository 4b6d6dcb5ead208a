package quiz

import "math/rand"

// ChoiceCount - сколько вариантов ответа показывается
const ChoiceCount = 4

// maxStrategyAttempts ограничивает попытки стратегий ошибок. Для ответов
// около нуля и ниже (например, у вычитания) их не хватает на три варианта.
const maxStrategyAttempts = 64

// GenerateDistractors строит набор из правильного ответа и трёх
// правдоподобных ошибок. Порядок не перемешан, это делает Shuffle.
func GenerateDistractors(correct int, r *rand.Rand) []int {
	seen := map[int]bool{correct: true}
	values := []int{correct}

	for attempt := 0; len(values) < ChoiceCount && attempt < maxStrategyAttempts; attempt++ {
		var candidate int
		switch r.Intn(3) {
		case 0: // ошибка на единицу
			candidate = correct + sign(r)
		case 1: // ошибка на десяток
			candidate = correct + 10*sign(r)
		default: // небольшой разброс [-3, 3]
			candidate = correct + r.Intn(7) - 3
		}

		if candidate > 0 && !seen[candidate] {
			seen[candidate] = true
			values = append(values, candidate)
		}
	}

	// добираем ближайшими положительными числами выше ответа
	for candidate := max(correct, 0) + 1; len(values) < ChoiceCount; candidate++ {
		if !seen[candidate] {
			seen[candidate] = true
			values = append(values, candidate)
		}
	}

	return values
}

func sign(r *rand.Rand) int {
	if r.Intn(2) == 0 {
		return -1
	}
	return 1
}

// Shuffle перемешивает копию значений алгоритмом Фишера-Йейтса
func Shuffle(values []int, r *rand.Rand) []int {
	shuffled := make([]int, len(values))
	copy(shuffled, values)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}
