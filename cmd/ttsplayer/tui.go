package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	var folderPath string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch the interactive terminal interface with track cards and playback controls.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(app.resolveFolder(folderPath), recursive)
		},
	}

	cmd.Flags().StringVar(&folderPath, "folder", "", "folder containing audio files")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "recursively discover audio files in subfolders")

	return cmd
}

// launchTUI сканирует папку (если указана) и запускает интерфейс
func (app *Application) launchTUI(folderPath string, recursive bool) error {
	lib := &library.Library{}
	loader := library.NewLoader(folderPath, recursive)

	// Папку можно не указывать: интерфейс запустится с пустой библиотекой
	if folderPath != "" {
		var err error
		lib, err = loader.Scan()
		if err != nil {
			return fmt.Errorf("ошибка сканирования папки: %w", err)
		}
	}

	tuiApp := tui.NewApp(lib, loader, app.Config.Volume)
	return tuiApp.Run()
}
