package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PoluyanbIch/MathQuizBot/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	choicePrefix = "choice_"
	progressBar  = 10
)

var categoryTitles = map[string]string{
	quiz.Addition.Name:       "➕ Сложение",
	quiz.Multiplication.Name: "✖️ Умножение",
}

// View - зеркало сессии для одного чата. Реализует quiz.Surface и
// превращает состояние в текст сообщения и inline-клавиатуру.
type View struct {
	category string
	problem  string
	choices  []int
	marks    map[int]quiz.Mark
	status   string
	color    quiz.Color
	current  int
	total    int
	dirty    bool
}

func NewView() *View {
	return &View{marks: make(map[int]quiz.Mark)}
}

func (v *View) SetCategory(name string) {
	v.category = name
	v.dirty = true
}

func (v *View) SetProblemText(text string) {
	v.problem = text
	v.dirty = true
}

func (v *View) RenderChoices(values []int) {
	v.choices = append(v.choices[:0], values...)
	v.marks = make(map[int]quiz.Mark)
	v.dirty = true
}

func (v *View) SetStatus(text string, color quiz.Color) {
	v.status = text
	v.color = color
	v.dirty = true
}

func (v *View) SetProgress(current, total int) {
	v.current = current
	v.total = total
	v.dirty = true
}

func (v *View) MarkChoice(value int, mark quiz.Mark) {
	v.marks[value] |= mark
	v.dirty = true
}

func (v *View) ClearMarks() {
	if len(v.marks) == 0 {
		return
	}
	v.marks = make(map[int]quiz.Mark)
	v.dirty = true
}

// Dirty сообщает, поменялось ли что-то с последней отправки
func (v *View) Dirty() bool { return v.dirty }

func (v *View) MarkClean() { v.dirty = false }

func (v *View) Text() string {
	var sb strings.Builder

	title := categoryTitles[v.category]
	if title == "" {
		title = v.category
	}
	fmt.Fprintf(&sb, "*%s* · %d/%d\n", title, v.current, v.total)
	sb.WriteString(progress(v.current, v.total))
	fmt.Fprintf(&sb, "\n\n*%s = ?*", v.problem)

	if v.status != "" {
		fmt.Fprintf(&sb, "\n\n%s %s", colorEmoji(v.color), v.status)
	}

	return sb.String()
}

func (v *View) Keyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	// сетка 2x2
	for i := 0; i < len(v.choices); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, value := range v.choices[i:min(i+2, len(v.choices))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				choiceLabel(value, v.marks[value]),
				choicePrefix+strconv.Itoa(value),
			))
		}
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪Выйти из викторины🚪", "exit_quiz"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func progress(current, total int) string {
	if total <= 0 {
		return ""
	}
	filled := current * progressBar / total
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressBar-filled)
}

func colorEmoji(c quiz.Color) string {
	switch c {
	case quiz.ColorSuccess:
		return "🟢"
	case quiz.ColorError:
		return "🔴"
	default:
		return "⚪️"
	}
}

func choiceLabel(value int, mark quiz.Mark) string {
	var prefix string
	if mark.Has(quiz.MarkCorrect) {
		prefix += "✅"
	}
	if mark.Has(quiz.MarkWrong) {
		prefix += "❌"
	}
	if mark.Has(quiz.MarkShake) {
		prefix += "📳"
	}
	if mark.Has(quiz.MarkHint) {
		prefix += "👉"
	}

	label := strconv.Itoa(value)
	if prefix != "" {
		label = prefix + " " + label
	}
	return label
}

// parseChoice разбирает callback data вида choice_<число>
func parseChoice(data string) (int, bool) {
	if !strings.HasPrefix(data, choicePrefix) {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimPrefix(data, choicePrefix))
	if err != nil {
		return 0, false
	}
	return value, true
}
