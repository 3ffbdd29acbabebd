package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazadus/go-ttsplayer/internal/metadata"
)

// SupportedExtensions перечисляет расширения аудио файлов, которые попадают в библиотеку
var SupportedExtensions = []string{".wav", ".mp3", ".ogg"}

// Loader сканирует папку и строит библиотеку треков
type Loader struct {
	root      string
	recursive bool
	extractor *metadata.Extractor
}

// NewLoader создает новый загрузчик библиотеки для указанной папки
func NewLoader(root string, recursive bool) *Loader {
	return &Loader{
		root:      root,
		recursive: recursive,
		extractor: metadata.NewExtractor(),
	}
}

// Scan сканирует папку и возвращает библиотеку треков.
// Треки сортируются по имени файла без учета регистра.
// Отдельный нечитаемый файл пропускается с предупреждением,
// фатальна только недоступность самой папки.
func (l *Loader) Scan() (*Library, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("папка библиотеки недоступна: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("папка библиотеки недоступна: %s не является папкой", l.root)
	}

	paths, err := l.collectAudioFiles()
	if err != nil {
		return nil, err
	}

	// Сортируем по имени файла без учета регистра для детерминированного порядка
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.ToLower(filepath.Base(paths[i])) < strings.ToLower(filepath.Base(paths[j]))
	})

	lib := &Library{Root: l.root}
	seen := make(map[string]bool)

	for _, path := range paths {
		// Страхуемся от дубликатов путей
		if seen[path] {
			continue
		}
		seen[path] = true

		// Нечитаемый аудио файл пропускаем, не прерывая сканирование
		if file, err := os.Open(path); err != nil {
			fmt.Printf("⚠️  Пропускаем недоступный файл %s: %v\n", filepath.Base(path), err)
			continue
		} else {
			file.Close()
		}

		lib.Tracks = append(lib.Tracks, l.buildTrack(path))
	}

	return lib, nil
}

// collectAudioFiles возвращает пути всех аудио файлов в папке библиотеки
func (l *Loader) collectAudioFiles() ([]string, error) {
	var paths []string

	if !l.recursive {
		entries, err := os.ReadDir(l.root)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения папки библиотеки: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isAudioFile(entry.Name()) {
				paths = append(paths, filepath.Join(l.root, entry.Name()))
			}
		}
		return paths, nil
	}

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Недоступную вложенную папку пропускаем
			if path != l.root {
				fmt.Printf("⚠️  Пропускаем недоступную папку %s: %v\n", path, err)
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && isAudioFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка обхода папки библиотеки: %w", err)
	}

	return paths, nil
}

// buildTrack создает трек для найденного аудио файла,
// подбирая транскрипт с тем же именем и расширением .txt
func (l *Loader) buildTrack(path string) Track {
	fileName := filepath.Base(path)
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	id, err := filepath.Rel(l.root, path)
	if err != nil {
		id = fileName
	}

	track := Track{
		ID:   id,
		Name: stem,
		Path: path,
	}

	// Метаданные из тегов, с именем файла в качестве запасного варианта
	meta := l.extractor.ExtractFromFile(path)
	track.Title = meta.Title
	track.Artist = meta.Artist

	// Ищем транскрипт рядом с аудио файлом
	transcriptPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		// Нечитаемый транскрипт равносилен его отсутствию
		return track
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return track
	}

	track.TranscriptPath = transcriptPath
	track.Transcript = transcript
	return track
}

// isAudioFile проверяет, относится ли файл к поддерживаемым аудио форматам
func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
