package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfigFromFile(t *testing.T) {
	// Создаем временный файл конфигурации
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	// Создаем тестовую конфигурацию
	testConfig := Config{
		LibraryDir: "~/audio",
		Recursive:  true,
		Volume:     0.5,
	}

	// Сериализуем конфигурацию в YAML
	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	// Записываем в файл
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Загружаем конфигурацию
	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Проверяем, что тильда в пути к библиотеке раскрыта
	home, _ := os.UserHomeDir()
	expectedLibraryDir := strings.Replace(testConfig.LibraryDir, "~", home, 1)
	if loadedConfig.LibraryDir != expectedLibraryDir {
		t.Errorf("Ожидался LibraryDir: %s, получено: %s", expectedLibraryDir, loadedConfig.LibraryDir)
	}

	if !loadedConfig.Recursive {
		t.Error("Ожидался Recursive: true")
	}

	if loadedConfig.Volume != 0.5 {
		t.Errorf("Ожидалась Volume: 0.5, получено: %v", loadedConfig.Volume)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	// Загружаем конфигурацию из несуществующего файла
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "no-such-config.yaml")

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Отсутствующий файл конфигурации не должен быть ошибкой: %v", err)
	}

	// Проверяем значения по умолчанию
	if loadedConfig.LibraryDir != "" {
		t.Errorf("Ожидался пустой LibraryDir, получено: %s", loadedConfig.LibraryDir)
	}
	if loadedConfig.Volume != 1.0 {
		t.Errorf("Ожидалась громкость по умолчанию 1.0, получено: %v", loadedConfig.Volume)
	}
}

func TestLoadConfigClampsVolume(t *testing.T) {
	// Создаем конфигурацию с громкостью за пределами диапазона
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("volume: 2.5\n"), 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Громкость должна быть приведена к 1.0
	if loadedConfig.Volume != 1.0 {
		t.Errorf("Ожидалась громкость 1.0, получено: %v", loadedConfig.Volume)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	// Создаем файл с некорректным YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("library_dir: [unclosed"), 0644)
	if err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Ожидаем ошибку разбора
	_, err = LoadConfig(configPath)
	if err == nil {
		t.Error("Ожидалась ошибка при разборе некорректного YAML")
	}
}
