// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	LibraryDir string  `yaml:"library_dir"` // Папка с аудиофайлами по умолчанию
	Recursive  bool    `yaml:"recursive"`   // Сканировать вложенные папки
	Volume     float64 `yaml:"volume"`      // Громкость от 0.0 до 1.0
}

// defaultConfig возвращает конфигурацию по умолчанию
func defaultConfig() *Config {
	return &Config{
		Volume: 1.0,
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файл отсутствует, возвращается конфигурация по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	data, err := os.ReadFile(path)
	if err != nil {
		// Конфигурационный файл не обязателен
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	config := defaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	// Раскрываем тильду в пути к библиотеке
	if config.LibraryDir != "" {
		config.LibraryDir = strings.Replace(config.LibraryDir, "~", home, 1)
	}

	// Приводим громкость к допустимому диапазону
	if config.Volume < 0 {
		config.Volume = 0
	}
	if config.Volume > 1 {
		config.Volume = 1
	}

	return config, nil
}
