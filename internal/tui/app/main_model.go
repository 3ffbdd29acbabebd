// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/player"
	tuiPlayer "github.com/hazadus/go-ttsplayer/internal/tui/player"
	"github.com/hazadus/go-ttsplayer/internal/tui/tracklist"
	"github.com/hazadus/go-ttsplayer/internal/tui/transcript"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// TracklistScreen - экран списка треков
	TracklistScreen ScreenType = iota
	// PlayerScreen - экран плеера
	PlayerScreen
	// TranscriptScreen - экран просмотра транскрипта
	TranscriptScreen
)

// LibraryChangedMsg отправляется наблюдателем при изменениях в папке библиотеки
type LibraryChangedMsg struct{}

// MainModel представляет главную модель TUI
type MainModel struct {
	library         *library.Library
	loader          *library.Loader
	currentScreen   ScreenType
	tracklistModel  *tracklist.Model
	playerModel     *tuiPlayer.Model
	transcriptModel *transcript.Model
	globalPlayer    *player.Player // Общий плеер приложения
	width           int
	height          int
}

// NewMainModel создает новую главную модель
func NewMainModel(lib *library.Library, loader *library.Loader, globalPlayer *player.Player) *MainModel {
	return &MainModel{
		library:        lib,
		loader:         loader,
		currentScreen:  TracklistScreen,
		tracklistModel: tracklist.NewModel(lib),
		globalPlayer:   globalPlayer,
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return m.tracklistModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			// Останавливаем плеер перед выходом
			if m.globalPlayer != nil {
				m.globalPlayer.Stop()
			}
			return m, tea.Quit
		}

	case tracklist.TrackSelectedMsg:
		// Выбор карточки запускает воспроизведение на экране плеера
		m.currentScreen = PlayerScreen
		m.playerModel = tuiPlayer.NewModel(msg.Track, m.globalPlayer)
		return m, tea.Batch(m.playerModel.Init(), m.resendWindowSize())

	case tracklist.TrackTranscriptMsg:
		// Переключаемся на экран просмотра транскрипта
		m.currentScreen = TranscriptScreen
		m.transcriptModel = transcript.NewModel(msg.Track)
		return m, tea.Batch(m.transcriptModel.Init(), m.resendWindowSize())

	case tuiPlayer.GoBackMsg:
		// Возвращаемся к списку треков
		m.currentScreen = TracklistScreen
		m.playerModel = nil
		return m, nil

	case transcript.GoBackMsg:
		// Возвращаемся к списку треков из транскрипта
		m.currentScreen = TracklistScreen
		m.transcriptModel = nil
		return m, nil

	case LibraryChangedMsg:
		// Пересобираем библиотеку целиком и обновляем список
		if lib, err := m.loader.Scan(); err == nil {
			m.library = lib
			m.tracklistModel.SetLibrary(lib)
		}
		return m, nil

	case tea.WindowSizeMsg:
		// Запоминаем размеры и передаем активной модели
		m.width = msg.Width
		m.height = msg.Height
	}

	// Передаем сообщение активной модели
	switch m.currentScreen {
	case TracklistScreen:
		var tracklistCmd tea.Cmd
		m.tracklistModel, tracklistCmd = m.tracklistModel.Update(msg)
		cmd = tracklistCmd

	case PlayerScreen:
		if m.playerModel != nil {
			updatedModel, playerCmd := m.playerModel.Update(msg)
			if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
				m.playerModel = playerModel
			}
			cmd = playerCmd
		}

	case TranscriptScreen:
		if m.transcriptModel != nil {
			var transcriptCmd tea.Cmd
			m.transcriptModel, transcriptCmd = m.transcriptModel.Update(msg)
			cmd = transcriptCmd
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case TracklistScreen:
		return m.tracklistModel.View()

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	case TranscriptScreen:
		if m.transcriptModel != nil {
			return m.transcriptModel.View()
		}
		return "Ошибка: модель транскрипта не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	if m.globalPlayer != nil {
		m.globalPlayer.Close()
	}
}

// resendWindowSize повторяет последнее известное изменение размеров окна,
// чтобы свежесозданная модель экрана получила актуальные размеры
func (m *MainModel) resendWindowSize() tea.Cmd {
	if m.width == 0 {
		return nil
	}
	width, height := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}
