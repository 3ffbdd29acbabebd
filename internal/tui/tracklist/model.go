// Package tracklist содержит модель экрана списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// TrackSelectedMsg отправляется при выборе трека для воспроизведения
type TrackSelectedMsg struct {
	Track library.Track
}

// TrackTranscriptMsg отправляется при запросе полного текста транскрипта
type TrackTranscriptMsg struct {
	Track library.Track
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	track library.Track
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", i.track.Name, i.track.Title, i.track.Transcript)
}

// trackItemDelegate реализует отображение карточек списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	// Карточка трека: маркер транскрипта, название и анонс текста
	marker := "—"
	preview := "(нет транскрипта)"
	if i.track.HasTranscript() {
		marker = "✓"
		preview = utils.Preview(i.track.Transcript, 44)
	}

	str := fmt.Sprintf("%s %-32s %s",
		marker,
		utils.TruncateString(i.track.Title, 32),
		preview)

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана списка треков
type Model struct {
	list     list.Model
	library  *library.Library
	quitting bool
}

// NewModel создает новую модель списка треков
func NewModel(lib *library.Library) *Model {
	l := list.New(buildItems(lib), trackItemDelegate{}, 0, 0)
	l.Title = "Аудио библиотека"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{
		list:    l,
		library: lib,
	}
}

// buildItems преобразует треки библиотеки в элементы списка
func buildItems(lib *library.Library) []list.Item {
	items := make([]list.Item, len(lib.Tracks))
	for i, t := range lib.Tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetLibrary заменяет библиотеку целиком и обновляет список
func (m *Model) SetLibrary(lib *library.Library) {
	m.library = lib
	m.list.SetItems(buildItems(lib))
}

// Library возвращает текущую библиотеку модели
func (m *Model) Library() *library.Library {
	return m.library
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4) // Оставляем место для заголовка и справки
		return m, nil

	case tea.KeyMsg:
		// Во время фильтрации клавиши обрабатывает сам список
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			// Выбор карточки запускает воспроизведение
			if item, ok := m.list.SelectedItem().(trackItem); ok {
				return m, func() tea.Msg {
					return TrackSelectedMsg{Track: item.track}
				}
			}

		case "t":
			// Просмотр полного транскрипта выбранного трека
			if item, ok := m.list.SelectedItem().(trackItem); ok {
				if item.track.HasTranscript() {
					return m, func() tea.Msg {
						return TrackTranscriptMsg{Track: item.track}
					}
				}
			}
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	view := m.list.View()
	// Добавляем дополнительную справку
	extraHelp := helpStyle.Render("Enter: воспроизвести • t: транскрипт • q: выход")
	return view + "\n" + extraHelp
}
