package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/domain/entity"
	apperrors "ghost-story/pkg/errors"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	prompts []string
	results []entity.GenerationResult
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (entity.GenerationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	res := g.results[0]
	g.results = g.results[1:]
	return res, nil
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(Model), cmd
}

func lastAttempt(m Model) controller.Attempt {
	return m.attempt
}

func newModel(gen controller.Generator) Model {
	return New(context.Background(), gen, time.Hour)
}

func TestModel_SubmitShowsStory(t *testing.T) {
	gen := &scriptedGenerator{results: []entity.GenerationResult{entity.Success("The attic breathed.")}}
	m := typeText(t, newModel(gen), "abandoned house")
	assert.Contains(t, m.View(), "15/200")

	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, controller.Generating, m.snap.State)
	assert.Contains(t, m.View(), "Conjuring your tale")

	next, _ := m.Update(m.generate(lastAttempt(m))())
	m = next.(Model)

	assert.Equal(t, controller.Success, m.snap.State)
	assert.Contains(t, m.View(), "The attic breathed.")
	assert.Equal(t, []string{"abandoned house"}, gen.prompts)
}

func TestModel_InvalidPromptShowsFormErrorUntilTyping(t *testing.T) {
	gen := &scriptedGenerator{}
	m := typeText(t, newModel(gen), "ab")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "Prompt must be at least 3 characters", m.formErr)
	assert.Contains(t, m.View(), "Prompt must be at least 3 characters")

	m = typeText(t, m, "c")
	assert.Empty(t, m.formErr)
	assert.Empty(t, gen.prompts)
}

func TestModel_RetryAndStartOver(t *testing.T) {
	gen := &scriptedGenerator{results: []entity.GenerationResult{
		entity.Failure(apperrors.New(apperrors.CodeAPI, "Failed to generate story. Please try again.")),
		entity.Success("Second time lucky."),
	}}
	m := typeText(t, newModel(gen), "abandoned house")

	m, _ = press(t, m, tea.KeyEnter)
	next, _ := m.Update(m.generate(lastAttempt(m))())
	m = next.(Model)
	assert.Equal(t, controller.Failed, m.snap.State)
	assert.Contains(t, m.View(), "ctrl+r try again")

	m, cmd := press(t, m, tea.KeyCtrlR)
	require.NotNil(t, cmd)
	next, _ = m.Update(m.generate(lastAttempt(m))())
	m = next.(Model)
	assert.Equal(t, controller.Success, m.snap.State)
	assert.Equal(t, []string{"abandoned house", "abandoned house"}, gen.prompts)

	m, _ = press(t, m, tea.KeyCtrlN)
	assert.Equal(t, controller.Idle, m.snap.State)
	assert.NotContains(t, m.View(), "Second time lucky.")
}

func TestModel_SlowWarningOnlyWhileGenerating(t *testing.T) {
	gen := &scriptedGenerator{results: []entity.GenerationResult{entity.Success("done")}}
	m := typeText(t, newModel(gen), "abandoned house")
	m, _ = press(t, m, tea.KeyEnter)
	a := lastAttempt(m)

	next, _ := m.Update(slowMsg{attempt: a})
	m = next.(Model)
	assert.Contains(t, m.View(), "taking longer than usual")

	next, _ = m.Update(m.generate(a)())
	m = next.(Model)
	next, _ = m.Update(slowMsg{attempt: a})
	m = next.(Model)
	assert.NotContains(t, m.View(), "taking longer than usual")
}

func TestModel_QuitClosesController(t *testing.T) {
	m := newModel(&scriptedGenerator{})
	m, cmd := press(t, m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, err := m.ctrl.Begin("abandoned house")
	assert.ErrorIs(t, err, controller.ErrClosed)
	assert.Error(t, m.ctx.Err())
}
