package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hazadus/go-ttsplayer/internal/config"
)

const (
	defaultConfigPath = "~/.ttsplayer"
)

// Application хранит зависимости, общие для всех команд приложения
type Application struct {
	Config *config.Config
}

func main() {
	// Загружаем конфигурацию; отсутствующий файл дает значения по умолчанию
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	app := &Application{Config: cfg}

	rootCmd := app.createRootCommand(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
