// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/player"
	"github.com/hazadus/go-ttsplayer/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	library *library.Library
	loader  *library.Loader
	volume  float64
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(lib *library.Library, loader *library.Loader, volume float64) *App {
	return &App{
		library: lib,
		loader:  loader,
		volume:  volume,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	// Создаем плеер поверх системного микшера
	globalPlayer := player.NewPlayer(player.NewSpeakerMixer())
	globalPlayer.SetVolume(tuiApp.volume)

	// Создаем модель для Bubble Tea
	model := app.NewMainModel(tuiApp.library, tuiApp.loader, globalPlayer)

	// Создаем программу Bubble Tea
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Наблюдатель за папкой библиотеки обновляет список треков.
	// Его отсутствие (например, из-за лимита inotify) не мешает работе.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watcher, err := library.NewWatcher(tuiApp.library.Root); err == nil {
		defer watcher.Close()
		go watcher.Run(ctx)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-watcher.Changes():
					p.Send(app.LibraryChangedMsg{})
				}
			}
		}()
	}

	// Запускаем программу
	_, err := p.Run()

	// Закрываем плеер после завершения программы
	model.Close()

	return err
}
