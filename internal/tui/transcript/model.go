// Package transcript содержит модель экрана просмотра транскрипта для TUI
package transcript

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-ttsplayer/internal/library"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	bodyStyle = lipgloss.NewStyle().
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// GoBackMsg отправляется при возврате к списку треков
type GoBackMsg struct{}

// Model представляет модель экрана транскрипта
type Model struct {
	track    library.Track
	viewport viewport.Model
	ready    bool
}

// NewModel создает новую модель экрана транскрипта
func NewModel(track library.Track) *Model {
	return &Model{
		track: track,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Viewport занимает экран за вычетом заголовка и справки
		width := msg.Width - 2
		height := msg.Height - 5
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		m.viewport.SetContent(bodyStyle.Width(width).Render(m.track.Transcript))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("📄 Транскрипт: %s", m.track.Title))

	body := m.track.Transcript
	if m.ready {
		body = m.viewport.View()
	}

	help := helpStyle.Render("↑/↓: прокрутка • q/esc: назад к списку")

	return fmt.Sprintf("%s\n%s\n%s", title, body, help)
}
