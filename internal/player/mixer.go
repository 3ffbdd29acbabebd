// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Mixer абстрагирует системный аудио-вывод. Плеер монопольно владеет
// одним логическим каналом микшера; в тестах используется фальшивая реализация.
type Mixer interface {
	// Init подготавливает устройство к воспроизведению с указанной частотой дискретизации
	Init(sampleRate beep.SampleRate, bufferSize int) error
	// Play запускает поток на канале; onFinish вызывается после естественного завершения
	Play(s beep.Streamer, onFinish func())
	// Clear останавливает канал и освобождает его данные
	Clear()
	// Active сообщает, занят ли канал в данный момент
	Active() bool
	// Lock и Unlock ограждают доступ к потоку во время воспроизведения
	Lock()
	Unlock()
}

// SpeakerMixer реализует Mixer поверх beep/speaker.
// Динамик — общесистемный ресурс, поэтому экземпляр должен быть
// один на процесс и передаваться плееру явно.
type SpeakerMixer struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	initialized bool
	active      bool
}

// NewSpeakerMixer создает микшер системного аудио устройства
func NewSpeakerMixer() *SpeakerMixer {
	return &SpeakerMixer{}
}

// Init инициализирует динамик. Повторная инициализация с той же частотой
// дискретизации не переоткрывает устройство, а лишь очищает канал.
func (m *SpeakerMixer) Init(sampleRate beep.SampleRate, bufferSize int) error {
	m.mu.Lock()
	alreadyAtRate := m.initialized && m.sampleRate == sampleRate
	m.mu.Unlock()

	if alreadyAtRate {
		m.Clear()
		return nil
	}

	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return err
	}

	m.mu.Lock()
	m.initialized = true
	m.sampleRate = sampleRate
	m.active = false
	m.mu.Unlock()
	return nil
}

// Play запускает воспроизведение потока
func (m *SpeakerMixer) Play(s beep.Streamer, onFinish func()) {
	m.mu.Lock()
	m.active = true
	m.mu.Unlock()

	speaker.Play(beep.Seq(s, beep.Callback(func() {
		m.mu.Lock()
		m.active = false
		m.mu.Unlock()
		// Callback выполняется под блокировкой динамика,
		// поэтому уведомление уходит в отдельной горутине
		if onFinish != nil {
			go onFinish()
		}
	})))
}

// Clear останавливает воспроизведение и очищает канал
func (m *SpeakerMixer) Clear() {
	speaker.Clear()
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()
}

// Active возвращает true, если канал воспроизводит поток
func (m *SpeakerMixer) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Lock блокирует динамик для безопасного доступа к потоку
func (m *SpeakerMixer) Lock() {
	speaker.Lock()
}

// Unlock снимает блокировку динамика
func (m *SpeakerMixer) Unlock() {
	speaker.Unlock()
}
