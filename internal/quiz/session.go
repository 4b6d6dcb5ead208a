package quiz

import (
	"errors"
	"math/rand"
	"time"
)

const (
	MaxQuestions = 10

	SuccessDelay = 800 * time.Millisecond
	FailureDelay = 1000 * time.Millisecond

	StatusCorrect = "Отлично!"
	StatusWrong   = "Попробуй ещё раз"
)

var (
	ErrLocked     = errors.New("quiz: selection is being resolved")
	ErrNotAChoice = errors.New("quiz: value is not one of the current choices")
	ErrClosed     = errors.New("quiz: session is closed")
)

type Phase int

const (
	PhaseAwaiting Phase = iota
	PhaseResolving
)

func (p Phase) String() string {
	if p == PhaseResolving {
		return "resolving"
	}
	return "awaiting"
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeWrong
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Session - одна бесконечная викторина: вопросы идут по кругу 1..MaxQuestions.
// Не безопасна для конкурентного использования, вызовы сериализует хост.
type Session struct {
	surface   Surface
	scheduler Scheduler
	rnd       *rand.Rand
	ops       []Operation

	index   int
	phase   Phase
	outcome Outcome
	problem Problem
	choices []int

	pending Timer
	gen     uint64
	closed  bool
}

// NewSession создаёт сессию. Если rnd == nil, используется генератор от текущего времени.
func NewSession(surface Surface, scheduler Scheduler, rnd *rand.Rand) *Session {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		surface:   surface,
		scheduler: scheduler,
		rnd:       rnd,
		ops:       DefaultOperations(),
		index:     1,
	}
}

// WithOperations заменяет каталог действий. Вызывать до Start.
func (s *Session) WithOperations(ops ...Operation) *Session {
	if len(ops) > 0 {
		s.ops = ops
	}
	return s
}

// Start показывает первый вопрос
func (s *Session) Start() {
	s.generateProblem()
}

func (s *Session) generateProblem() {
	s.problem = GenerateProblem(s.ops, s.rnd)
	s.choices = Shuffle(GenerateDistractors(s.problem.Answer, s.rnd), s.rnd)

	s.surface.SetCategory(s.problem.Operation.Name)
	s.surface.SetProblemText(s.problem.Text())
	s.surface.RenderChoices(s.Choices())
	s.surface.SetProgress(s.index, MaxQuestions)
}

// Select обрабатывает выбор игрока. Пока идёт разбор прошлого ответа,
// а также для значения не из текущих вариантов ничего не меняется.
func (s *Session) Select(value int) (Outcome, error) {
	if s.closed {
		return OutcomeNone, ErrClosed
	}
	if s.phase == PhaseResolving {
		return OutcomeNone, ErrLocked
	}
	if !s.isChoice(value) {
		return OutcomeNone, ErrNotAChoice
	}

	s.phase = PhaseResolving

	if value == s.problem.Answer {
		s.outcome = OutcomeCorrect
		s.surface.MarkChoice(value, MarkCorrect)
		s.surface.SetStatus(StatusCorrect, ColorSuccess)
		s.schedule(SuccessDelay, s.nextQuestion)
		return s.outcome, nil
	}

	s.outcome = OutcomeWrong
	s.surface.MarkChoice(value, MarkWrong|MarkShake)
	s.surface.SetStatus(StatusWrong, ColorError)
	s.surface.MarkChoice(s.problem.Answer, MarkHint)
	s.schedule(FailureDelay, s.retry)
	return s.outcome, nil
}

func (s *Session) isChoice(value int) bool {
	for _, c := range s.choices {
		if c == value {
			return true
		}
	}
	return false
}

// schedule откладывает продолжение. Продолжение, отменённое уже после
// срабатывания таймера, отбрасывается по номеру поколения.
func (s *Session) schedule(d time.Duration, next func()) {
	s.gen++
	gen := s.gen
	s.pending = s.scheduler.AfterFunc(d, func() {
		if s.closed || gen != s.gen {
			return
		}
		s.pending = nil
		next()
	})
}

func (s *Session) nextQuestion() {
	s.index = s.index%MaxQuestions + 1
	s.generateProblem()
	s.surface.SetStatus("", ColorNone)
	s.unlock()
}

func (s *Session) retry() {
	s.surface.ClearMarks()
	s.surface.SetStatus("", ColorNone)
	s.unlock()
}

func (s *Session) unlock() {
	s.phase = PhaseAwaiting
	s.outcome = OutcomeNone
}

// Close отменяет ожидающий таймер. После Close сессия не принимает выбор.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) Problem() Problem { return s.problem }

// Choices возвращает копию текущих вариантов в порядке показа
func (s *Session) Choices() []int {
	out := make([]int, len(s.choices))
	copy(out, s.choices)
	return out
}

func (s *Session) Index() int { return s.index }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) Locked() bool { return s.phase == PhaseResolving }
func (s *Session) Closed() bool { return s.closed }
func (s *Session) MaxQuestions() int { return MaxQuestions }
