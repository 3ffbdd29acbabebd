package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/metadata"
	"github.com/hazadus/go-ttsplayer/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var folderPath string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks discovered in the library folder",
		Long:  `Scan the library folder and print the discovered tracks with transcript previews.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			folder := app.resolveFolder(folderPath)
			if folder == "" {
				return fmt.Errorf("требуется флаг --folder или library_dir в конфигурации")
			}
			return app.listTracks(folder, recursive)
		},
	}

	cmd.Flags().StringVar(&folderPath, "folder", "", "folder containing audio files")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "recursively discover audio files in subfolders")

	return cmd
}

// listTracks сканирует папку и выводит список найденных треков
func (app *Application) listTracks(folderPath string, recursive bool) error {
	loader := library.NewLoader(folderPath, recursive)
	lib, err := loader.Scan()
	if err != nil {
		return fmt.Errorf("ошибка сканирования папки: %w", err)
	}

	if len(lib.Tracks) == 0 {
		fmt.Println("📚 В папке не найдено аудио файлов.")
		return nil
	}

	fmt.Printf("📚 Найдено треков: %d\n\n", len(lib.Tracks))

	extractor := metadata.NewExtractor()

	for i, track := range lib.Tracks {
		// Маркер показывает наличие транскрипта у трека
		marker := "—"
		if track.HasTranscript() {
			marker = "✓"
		}

		title := track.Title
		if track.Artist != "" {
			title = fmt.Sprintf("%s — %s", track.Artist, track.Title)
		}

		line := fmt.Sprintf("%3d. %s %s [%s]", i+1, marker, title, track.ID)
		// Длительность показываем, если файл удалось декодировать
		if duration, err := extractor.GetDuration(track.Path); err == nil {
			line += fmt.Sprintf(" (%s)", utils.FormatDuration(duration))
		}
		fmt.Println(line)
		if track.HasTranscript() {
			fmt.Printf("       %s\n", utils.Preview(track.Transcript, 80))
		}
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'ttsplayer play [файл]' для воспроизведения трека")
	return nil
}
