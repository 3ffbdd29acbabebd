package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-ttsplayer/internal/library"
	"github.com/hazadus/go-ttsplayer/internal/player"
	"github.com/hazadus/go-ttsplayer/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [file path]",
		Short: "Play a single audio file in the terminal",
		Long:  `Play an audio file (wav, mp3, ogg) with its transcript, if a same-name .txt file exists.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playFile(ctx, args[0])
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

func (app *Application) playFile(ctx context.Context, filePath string) error {
	// Сканируем папку файла, чтобы подобрать транскрипт
	loader := library.NewLoader(filepath.Dir(filePath), false)
	lib, err := loader.Scan()
	if err != nil {
		return fmt.Errorf("ошибка сканирования папки: %w", err)
	}

	track := lib.TrackByID(filepath.Base(filePath))
	if track == nil {
		return fmt.Errorf("аудио файл не найден: %s", filePath)
	}

	// Создаем плеер поверх системного микшера
	p := player.NewPlayer(player.NewSpeakerMixer())
	defer p.Close()
	p.SetVolume(app.Config.Volume)

	// Загружаем трек в память
	if err := p.Load(track); err != nil {
		return fmt.Errorf("ошибка загрузки трека: %w", err)
	}

	fmt.Printf("🎵 Сейчас играет: %s\n", track.Title)
	fmt.Printf("   Файл: %s\n", track.Path)
	fmt.Printf("   Продолжительность: %s\n", utils.FormatDuration(p.Duration()))
	if track.HasTranscript() {
		fmt.Printf("📄 Транскрипт: %s\n", utils.Preview(track.Transcript, 100))
	}
	fmt.Println()
	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - с начала\n")
	fmt.Printf("   [s] - стоп\n")
	fmt.Printf("   [Ctrl+C] - выйти\n")
	fmt.Println()

	// Запускаем воспроизведение
	if err := p.Play(); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	// Создаем канал для обработки сигналов прерывания
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки клавиш
	go func() {
		for {
			char, err := readSingleChar()
			if err != nil {
				continue
			}

			switch char {
			case ' ':
				// Повторный запуск начинается с начала
				if err := p.Play(); err == nil {
					fmt.Printf("\r\033[K▶️  С начала\n")
				}
			case 's':
				p.Stop()
				fmt.Printf("\r\033[K⏹️  Остановлено\n")
			}
		}
	}()

	// Главный цикл обработки событий
	for {
		select {
		case status := <-p.Progress():
			displayProgress(status)
		case <-p.Done():
			fmt.Println("\n✅ Воспроизведение завершено")
			return nil
		case <-interrupt:
			fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
			p.Stop()
			return nil
		case <-ctx.Done():
			fmt.Println("\n🚫 Операция отменена")
			p.Stop()
			return ctx.Err()
		}
	}
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(status player.Status) {
	var progress string
	if status.Total > 0 {
		percent := float64(status.Current) / float64(status.Total) * 100
		progress = fmt.Sprintf("%.1f%%", percent)
	} else {
		progress = "??%"
	}

	statusIcon := "▶️"
	if !status.IsPlaying {
		statusIcon = "⏹️"
	}

	fmt.Printf("\r%s  %s | %s / %s",
		statusIcon,
		progress,
		utils.FormatDuration(status.Current),
		utils.FormatDuration(status.Total))
}
