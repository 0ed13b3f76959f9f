// Package session реализует конечный автомат диалога: каждый обработчик
// описывает упорядоченный список именованных шагов и таблицу функций шагов.
// Один входящий ввод продвигает сессию не более чем на один шаг.
package session

import (
	"context"
	"fmt"
	"time"

	"lingvotest-bot/internal/domain/model"
)

// Input — одно входящее сообщение: свободный текст или документ.
// Пустой Input означает, что шаг вызван без нового сообщения
// (автопродвижение после принятия предыдущего шага).
type Input struct {
	Text     string
	Document []byte
	Empty    bool
}

// NoInput — вызов шага без нового сообщения.
var NoInput = Input{Empty: true}

// TextInput оборачивает текстовое сообщение.
func TextInput(text string) Input {
	return Input{Text: text}
}

// DocumentInput оборачивает присланный документ.
func DocumentInput(document []byte) Input {
	return Input{Document: document}
}

// Outcome — результат обработки шага: один или два ответа пользователю
// и признак того, что сессию нужно закрыть.
type Outcome struct {
	Answers []model.Answer
	Close   bool
}

func reply(answers ...model.Answer) Outcome {
	return Outcome{Answers: answers}
}

func closeWith(answer model.Answer) Outcome {
	return Outcome{Answers: []model.Answer{answer}, Close: true}
}

// Handler — обработчик сессий одного типа.
type Handler interface {
	Alias() string
	NewSession(userID int64, created time.Time) *model.Session
	Handle(ctx context.Context, sess *model.Session, input Input) (Outcome, error)
}

// StepFunc — функция одного шага: принимает сессию и ввод, возвращает результат.
type StepFunc func(ctx context.Context, sess *model.Session, input Input) (Outcome, error)

// stateMachine — общая часть обработчиков: явная таблица шагов,
// построенная в конструкторе обработчика.
type stateMachine struct {
	alias string
	steps []string
	funcs map[string]StepFunc
}

func newStateMachine(alias string, steps ...string) *stateMachine {
	return &stateMachine{
		alias: alias,
		steps: steps,
		funcs: make(map[string]StepFunc, len(steps)),
	}
}

func (m *stateMachine) Alias() string {
	return m.alias
}

// register привязывает функцию к именованному шагу.
func (m *stateMachine) register(step string, fn StepFunc) {
	if !m.hasStep(step) {
		panic(fmt.Sprintf("session: шаг %q не объявлен в списке шагов обработчика %s", step, m.alias))
	}
	m.funcs[step] = fn
}

func (m *stateMachine) hasStep(step string) bool {
	for _, s := range m.steps {
		if s == step {
			return true
		}
	}
	return false
}

// Handle вызывает функцию шага под текущим курсором сессии.
// Шаг за пределами списка — дефект программы, а не пользовательская ошибка.
func (m *stateMachine) Handle(ctx context.Context, sess *model.Session, input Input) (Outcome, error) {
	if sess.CurrentStep < 0 || sess.CurrentStep >= len(m.steps) {
		return Outcome{}, fmt.Errorf("session: шаг %d вне диапазона обработчика %s", sess.CurrentStep, m.alias)
	}
	fn := m.funcs[m.steps[sess.CurrentStep]]
	return fn(ctx, sess, input)
}

// advance сдвигает курсор на один шаг; на последнем шаге вызов ничего не меняет.
func (m *stateMachine) advance(sess *model.Session) {
	if sess.CurrentStep < len(m.steps)-1 {
		sess.CurrentStep++
	}
}
