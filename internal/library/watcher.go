package library

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay задает паузу после последнего события файловой системы,
// чтобы серия изменений приводила к одному пересканированию
const debounceDelay = 300 * time.Millisecond

// Watcher следит за папкой библиотеки и сообщает об изменениях
// аудио файлов и транскриптов
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
}

// NewWatcher создает наблюдатель для указанной папки
func NewWatcher(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsWatcher.Add(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsWatcher,
		changes: make(chan struct{}, 1),
	}

	return w, nil
}

// Changes возвращает канал, в который отправляется сигнал
// после каждой серии изменений в папке библиотеки
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run обрабатывает события файловой системы до отмены контекста.
// Запускается в отдельной горутине.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}
			// Откладываем сигнал до затишья
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// Сигнал уже ожидает обработки
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ошибки наблюдения не критичны, продолжаем работу
		}
	}
}

// Close освобождает ресурсы наблюдателя
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// isRelevantEvent проверяет, касается ли событие файлов библиотеки
func isRelevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == ".txt" {
		return true
	}
	return isAudioFile(event.Name)
}
