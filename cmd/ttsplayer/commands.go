package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var folderPath string
	var recursive bool
	var headless bool

	rootCmd := &cobra.Command{
		Use:   "ttsplayer",
		Short: "Play audio clips paired with transcript text files",
		Long: `A player for folders of audio clips (wav, mp3, ogg) paired with
same-name .txt transcripts. Launches an interactive interface by default;
with --headless, prints the track list and exits.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			folder := app.resolveFolder(folderPath)

			if headless {
				if folder == "" {
					return fmt.Errorf("в режиме --headless требуется флаг --folder или library_dir в конфигурации")
				}
				return app.listTracks(folder, recursive)
			}

			return app.launchTUI(folder, recursive)
		},
	}

	rootCmd.Flags().StringVar(&folderPath, "folder", "", "folder containing audio files")
	rootCmd.Flags().BoolVar(&recursive, "recursive", false, "recursively discover audio files in subfolders")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "list tracks without launching the interface")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}

// resolveFolder возвращает папку из флага или, если флаг пуст, из конфигурации
func (app *Application) resolveFolder(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return app.Config.LibraryDir
}
