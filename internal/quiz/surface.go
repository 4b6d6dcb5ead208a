package quiz

import "time"

// Color - цвет строки статуса
type Color string

const (
	ColorNone    Color = ""
	ColorSuccess Color = "emerald"
	ColorError   Color = "crimson"
)

// Mark - визуальные флаги варианта ответа, можно комбинировать
type Mark uint8

const (
	MarkCorrect Mark = 1 << iota
	MarkWrong
	MarkShake
	MarkHint
)

// Has сообщает, выставлен ли флаг
func (m Mark) Has(flag Mark) bool {
	return m&flag != 0
}

// Surface - то, что показывает сессию игроку. Сессия только отдаёт команды,
// а выбор игрока возвращается через Session.Select.
type Surface interface {
	SetCategory(name string)
	SetProblemText(text string)
	RenderChoices(values []int)
	SetStatus(text string, color Color)
	SetProgress(current, total int)
	MarkChoice(value int, mark Mark)
	ClearMarks()
}

// Timer - отложенный вызов, который можно отменить
type Timer interface {
	Stop() bool
}

// Scheduler откладывает вызов f на d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
