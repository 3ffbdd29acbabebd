// Package library содержит модель библиотеки треков и логику сканирования папок
package library

// Track представляет один аудио файл с опциональным транскриптом.
// Структура неизменяема после сканирования.
type Track struct {
	ID             string // Путь относительно корня библиотеки
	Name           string // Имя файла без расширения
	Path           string // Абсолютный путь к аудио файлу
	Title          string // Отображаемое название (из тегов или имени файла)
	Artist         string // Исполнитель из тегов, если есть
	TranscriptPath string // Путь к файлу транскрипта, пустой если его нет
	Transcript     string // Текст транскрипта, пустой если его нет
}

// HasTranscript возвращает true, если у трека есть текст транскрипта
func (t *Track) HasTranscript() bool {
	return t.Transcript != ""
}

// Library хранит упорядоченный набор треков, найденных в папке.
// Библиотека пересобирается целиком при каждом сканировании.
type Library struct {
	Root   string
	Tracks []Track
}

// TrackByID возвращает трек по его идентификатору
func (l *Library) TrackByID(id string) *Track {
	for i := range l.Tracks {
		if l.Tracks[i].ID == id {
			return &l.Tracks[i]
		}
	}
	return nil
}
