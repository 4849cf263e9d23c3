package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberquestjr/cyberquest/internal/catalog"
)

func newModel(t *testing.T) Model {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	m, err := New(Options{Catalog: cat})
	require.NoError(t, err)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestUnknownQuiz(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	_, err = New(Options{Catalog: cat, QuizType: "nope"})
	assert.Error(t, err)
}

func TestWelcomeToQuiz(t *testing.T) {
	m := newModel(t)
	assert.Contains(t, m.render(), "CyberQuest Jr")
	assert.Contains(t, m.render(), "hero name")

	for _, r := range "Ada" {
		m, _ = send(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	m, cmd := send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	view := m.render()
	assert.Contains(t, view, "Question 1")
	assert.Contains(t, view, "★ Ada")
	assert.Equal(t, 1, m.router.Depth())
}

func TestTooSmall(t *testing.T) {
	m := newModel(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel(t)
	_, cmd := send(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
