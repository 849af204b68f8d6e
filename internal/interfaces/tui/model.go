// Package tui 提供基于 bubbletea 的终端客户端
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/domain/entity"
)

const defaultWidth = 80

type resultMsg struct {
	snap controller.Snapshot
}

type slowMsg struct {
	attempt controller.Attempt
}

// Model 终端界面状态；会话状态全部由 Controller 持有
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ctrl      *controller.Controller
	slowAfter time.Duration

	input   textinput.Model
	spinner spinner.Model
	styles  Styles

	snap    controller.Snapshot
	attempt controller.Attempt
	formErr string
	width   int
}

// New 创建终端界面模型
func New(ctx context.Context, gen controller.Generator, slowAfter time.Duration) Model {
	if slowAfter <= 0 {
		slowAfter = controller.SlowWarningDelay
	}
	ctx, cancel := context.WithCancel(ctx)

	in := textinput.New()
	in.Placeholder = "Enter your horror prompt... (e.g., abandoned house, witch forest, lost child)"
	in.CharLimit = entity.MaxPromptLength
	in.Width = defaultWidth - 4
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctrl := controller.New(gen)
	return Model{
		ctx:       ctx,
		cancel:    cancel,
		ctrl:      ctrl,
		slowAfter: slowAfter,
		input:     in,
		spinner:   sp,
		styles:    DefaultStyles(),
		snap:      ctrl.Snapshot(),
		width:     defaultWidth,
	}
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update 实现 tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 20)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case slowMsg:
		m.snap = m.ctrl.MarkSlow(msg.attempt)
		return m, nil

	case spinner.TickMsg:
		if m.snap.State != controller.Generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.ctrl.Close()
		m.cancel()
		return m, tea.Quit

	case tea.KeyEnter:
		attempt, err := m.ctrl.Begin(m.input.Value())
		if err != nil {
			if !errors.Is(err, controller.ErrBusy) {
				m.formErr = err.Error()
			}
			return m, nil
		}
		return m.started(attempt)

	case tea.KeyCtrlR:
		if m.snap.State != controller.Failed || !m.snap.Retryable {
			return m, nil
		}
		attempt, err := m.ctrl.BeginRetry()
		if err != nil {
			return m, nil
		}
		return m.started(attempt)

	case tea.KeyCtrlN:
		m.snap = m.ctrl.Reset()
		return m, nil
	}

	if m.snap.State == controller.Generating {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.formErr = ""
	return m, cmd
}

func (m Model) started(a controller.Attempt) (tea.Model, tea.Cmd) {
	m.formErr = ""
	m.attempt = a
	m.snap = m.ctrl.Snapshot()
	return m, tea.Batch(
		m.generate(a),
		m.slowTimer(a),
		m.spinner.Tick,
	)
}

func (m Model) generate(a controller.Attempt) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return resultMsg{snap: ctrl.Run(ctx, a)}
	}
}

func (m Model) slowTimer(a controller.Attempt) tea.Cmd {
	return tea.Tick(m.slowAfter, func(time.Time) tea.Msg {
		return slowMsg{attempt: a}
	})
}

// View 实现 tea.Model
func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("👻 AI Ghost Story Generator"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Enter a prompt and let the spirits weave a chilling tale..."))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(s.Counter.Render(fmt.Sprintf("%d/%d", entity.PromptLength(m.input.Value()), entity.MaxPromptLength)))
	if m.formErr != "" {
		b.WriteString("  ")
		b.WriteString(s.FormError.Render(m.formErr))
	}
	b.WriteString("\n\n")

	width := max(m.width-4, 20)
	switch m.snap.State {
	case controller.Generating:
		b.WriteString(m.spinner.View() + " Conjuring your tale...")
		b.WriteString("\n")
		if m.snap.SlowWarning {
			b.WriteString(s.Muted.Render("This is taking longer than usual. The spirits are still gathering..."))
			b.WriteString("\n")
		}
	case controller.Success:
		if m.snap.CurrentStory != nil {
			b.WriteString(s.Story.Width(width).Render(*m.snap.CurrentStory))
			b.WriteString("\n")
		}
	case controller.Failed:
		if m.snap.Error != nil {
			body := s.ErrorHead.Render("⚠️  Error Generating Story") + "\n" + *m.snap.Error
			b.WriteString(s.ErrorBox.Width(width).Render(body))
			b.WriteString("\n")
		}
	}

	b.WriteString(s.Help.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help() string {
	keys := []string{"enter generate"}
	switch m.snap.State {
	case controller.Success:
		keys = append(keys, "ctrl+n start over")
	case controller.Failed:
		if m.snap.Retryable {
			keys = append(keys, "ctrl+r try again")
		}
		keys = append(keys, "ctrl+n start over")
	}
	keys = append(keys, "esc quit")
	return strings.Join(keys, " • ")
}

// Run 启动终端界面直到用户退出
func Run(ctx context.Context, gen controller.Generator, slowAfter time.Duration) error {
	m := New(ctx, gen, slowAfter)
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}
