// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/player"
	"github.com/hazadus/go-ttsplayer/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	transcriptStyle = lipgloss.NewStyle().
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// seekStep задает шаг перемотки стрелками
const seekStep = 5 * time.Second

// GoBackMsg отправляется для возврата к списку треков
type GoBackMsg struct{}

// ProgressMsg содержит обновления прогресса воспроизведения
type ProgressMsg struct {
	Status player.Status
}

// PlaybackFinishedMsg отправляется при завершении воспроизведения
type PlaybackFinishedMsg struct{}

// PlaybackErrorMsg отправляется при ошибке воспроизведения
type PlaybackErrorMsg struct {
	Error error
}

// Model представляет модель экрана воспроизведения
type Model struct {
	track       library.Track
	player      *player.Player
	progressBar progress.Model
	status      player.Status
	isPlaying   bool
	finished    bool
	err         error
	width       int
	height      int
}

// NewModel создает новую модель экрана воспроизведения
// с использованием общего плеера приложения
func NewModel(track library.Track, sharedPlayer *player.Player) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		track:       track,
		player:      sharedPlayer,
		progressBar: prog,
	}
}

// Init инициализирует модель и запускает воспроизведение
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startPlayback(),
		m.listenForProgress(),
	)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			// Останавливаем воспроизведение и возвращаемся к списку
			m.player.Stop()
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case " ", "enter":
			// Повторный запуск всегда начинается с начала
			if err := m.player.Play(); err != nil {
				m.err = err
				return m, nil
			}
			m.isPlaying = true
			m.finished = false
			return m, m.listenForProgress()

		case "s":
			m.player.Stop()
			m.isPlaying = false
			return m, nil

		case "left":
			// Перемотка назад на пять секунд
			if err := m.player.Seek(m.player.Position() - seekStep); err != nil {
				m.err = err
			}
			return m, nil

		case "right":
			// Перемотка вперед на пять секунд
			if err := m.player.Seek(m.player.Position() + seekStep); err != nil {
				m.err = err
			}
			return m, nil

		case "+", "=":
			m.player.SetVolume(m.player.Volume() + 0.1)
			return m, nil

		case "-":
			m.player.SetVolume(m.player.Volume() - 0.1)
			return m, nil
		}

	case ProgressMsg:
		// Обновляем статус и прогресс-бар
		m.status = msg.Status
		m.isPlaying = msg.Status.IsPlaying

		var percent float64
		if msg.Status.Total > 0 {
			percent = float64(msg.Status.Current) / float64(msg.Status.Total)
		}

		return m, tea.Batch(
			m.progressBar.SetPercent(percent),
			m.listenForProgress(),
		)

	case PlaybackFinishedMsg:
		// Клип доиграл до конца, остаемся на экране для повтора
		m.isPlaying = false
		m.finished = true
		return m, m.progressBar.SetPercent(1.0)

	case PlaybackErrorMsg:
		m.err = msg.Error
		m.isPlaying = false
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(m.err.Error()),
			controlsStyle.Render("Нажмите 'q' или 'esc' для возврата"),
		)
	}

	// Заголовок
	title := titleStyle.Render("🎵 Воспроизведение")

	// Информация о треке
	info := m.track.Title
	if m.track.Artist != "" {
		info = fmt.Sprintf("%s — %s", m.track.Artist, m.track.Title)
	}
	trackInfo := trackInfoStyle.Render(fmt.Sprintf("🎵 %s [%s]", info, m.track.ID))

	// Текст транскрипта
	transcript := "(нет транскрипта)"
	if m.track.HasTranscript() {
		transcript = m.track.Transcript
	}
	width := m.width - 4
	if width < 20 || width > 72 {
		width = 72
	}
	transcriptView := transcriptStyle.Width(width).Render(transcript)

	// Статус воспроизведения
	var statusText string
	switch {
	case m.isPlaying:
		statusText = "▶️  Воспроизведение"
	case m.finished:
		statusText = "✅ Завершено"
	default:
		statusText = "⏹️  Остановлено"
	}
	statusView := statusStyle.Render(statusText)

	// Прогресс-бар и время
	timeText := fmt.Sprintf(
		"%s / %s • 🔊 %.0f%%",
		utils.FormatDuration(m.status.Current),
		utils.FormatDuration(m.status.Total),
		m.player.Volume()*100,
	)

	// Элементы управления
	controls := controlsStyle.Render(
		"Пробел: с начала • s: стоп • ←/→: перемотка • +/-: громкость • q/esc: назад к списку",
	)

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n\n%s\n%s\n\n%s",
		title,
		trackInfo,
		transcriptView,
		statusView,
		m.progressBar.View(),
		timeText,
		controls,
	)
}

// startPlayback загружает трек и запускает воспроизведение
func (m *Model) startPlayback() tea.Cmd {
	track := m.track
	return func() tea.Msg {
		if err := m.player.Load(&track); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		if err := m.player.Play(); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		return ProgressMsg{Status: player.Status{
			Total:     m.player.Duration(),
			IsPlaying: true,
		}}
	}
}

// listenForProgress слушает обновления прогресса от плеера
func (m *Model) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case status, ok := <-m.player.Progress():
			if !ok {
				return PlaybackFinishedMsg{}
			}
			return ProgressMsg{Status: status}

		case _, ok := <-m.player.Done():
			if !ok {
				return PlaybackFinishedMsg{}
			}
			return PlaybackFinishedMsg{}
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
