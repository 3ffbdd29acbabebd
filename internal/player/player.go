package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/go-ttsplayer/internal/library"
)

// ErrNothingLoaded возвращается при попытке воспроизведения без загруженного трека
var ErrNothingLoaded = errors.New("не загружен трек для воспроизведения")

// State описывает состояние плеера
type State int

// Состояния плеера
const (
	// StateIdle - трек не загружен
	StateIdle State = iota
	// StateLoaded - трек загружен, но не воспроизводится
	StateLoaded
	// StatePlaying - трек воспроизводится
	StatePlaying
)

// Status представляет текущий статус воспроизведения
type Status struct {
	Current   time.Duration // Текущая позиция
	Total     time.Duration // Общая продолжительность
	IsPlaying bool          // Воспроизводится ли трек
}

// Player управляет воспроизведением треков. В каждый момент времени
// загружен не более чем один трек, данные которого целиком находятся в памяти.
type Player struct {
	// Каналы для обратной связи
	progressChan chan Status
	doneChan     chan bool

	// Внутреннее состояние
	ctx        context.Context
	cancel     context.CancelFunc
	mutex      sync.RWMutex
	state      State
	track      *library.Track
	generation int
	closed     bool

	// Компоненты воспроизведения
	mixer      Mixer
	buffer     *beep.Buffer
	streamer   beep.StreamSeeker
	volumeCtrl *effects.Volume
	volume     float64
}

// NewPlayer создает новый экземпляр плеера поверх указанного микшера
func NewPlayer(mixer Mixer) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		mixer:        mixer,
		state:        StateIdle,
		volume:       1.0,
	}
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, сигнализирующий о завершении воспроизведения
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Load загружает трек, декодируя весь файл в память для мгновенного старта.
// Прежний буфер освобождается. При ошибке загрузки плеер остается
// в прежнем состоянии.
func (p *Player) Load(track *library.Track) error {
	buffer, err := decodeIntoBuffer(track.Path)
	if err != nil {
		return fmt.Errorf("ошибка загрузки трека: %w", err)
	}

	format := buffer.Format()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err := p.mixer.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("ошибка инициализации аудио устройства: %w", err)
	}

	// Канал очищен, прежний буфер замещается новым
	p.generation++
	p.buffer = buffer
	p.track = track
	p.streamer = nil
	p.volumeCtrl = nil
	p.state = StateLoaded

	return nil
}

// Play начинает воспроизведение загруженного трека с начала.
// Если трек уже играет, воспроизведение перезапускается: сначала стоп, затем старт.
func (p *Player) Play() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.buffer == nil || p.state == StateIdle {
		return ErrNothingLoaded
	}

	if p.state == StatePlaying {
		p.mixer.Clear()
	}

	p.generation++
	gen := p.generation

	streamer := p.buffer.Streamer(0, p.buffer.Len())
	volumeCtrl := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   volumeToGain(p.volume),
		Silent:   p.volume <= 0,
	}

	p.streamer = streamer
	p.volumeCtrl = volumeCtrl
	p.state = StatePlaying

	p.mixer.Play(volumeCtrl, func() {
		p.onFinished(gen)
	})

	// Мониторинг прогресса в отдельной горутине
	go p.monitorProgress(gen)

	return nil
}

// Stop останавливает воспроизведение. Загруженный трек остается загруженным;
// из состояний Idle и Loaded вызов ничего не делает.
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.state != StatePlaying {
		return
	}

	p.generation++
	p.mixer.Clear()
	p.state = StateLoaded
	p.streamer = nil
	p.volumeCtrl = nil
}

// Seek перематывает воспроизведение на указанную позицию от начала трека.
// Позиция приводится к границам трека; без активного воспроизведения
// вызов ничего не делает.
func (p *Player) Seek(position time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.state != StatePlaying || p.streamer == nil || p.buffer == nil {
		return nil
	}

	if position < 0 {
		position = 0
	}

	sample := p.buffer.Format().SampleRate.N(position)
	if total := p.buffer.Len(); sample > total {
		sample = total
	}

	p.mixer.Lock()
	err := p.streamer.Seek(sample)
	p.mixer.Unlock()

	if err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// IsPlaying возвращает true, если трек воспроизводится.
// Состояние сверяется с микшером: естественно завершившийся клип
// переводит плеер обратно в состояние Loaded.
func (p *Player) IsPlaying() bool {
	return p.State() == StatePlaying
}

// State возвращает текущее состояние плеера, согласованное с микшером
func (p *Player) State() State {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.state == StatePlaying && !p.mixer.Active() {
		p.state = StateLoaded
		p.streamer = nil
		p.volumeCtrl = nil
	}

	return p.state
}

// Current возвращает загруженный трек или nil
func (p *Player) Current() *library.Track {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.track
}

// Duration возвращает длительность загруженного трека
func (p *Player) Duration() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.buffer == nil {
		return 0
	}
	return p.buffer.Format().SampleRate.D(p.buffer.Len())
}

// Position возвращает текущую позицию воспроизведения
func (p *Player) Position() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.buffer == nil || p.streamer == nil {
		return 0
	}

	p.mixer.Lock()
	pos := p.streamer.Position()
	p.mixer.Unlock()

	return p.buffer.Format().SampleRate.D(pos)
}

// SetVolume устанавливает громкость от 0.0 до 1.0,
// применяя её и к уже играющему потоку
func (p *Player) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.volume = volume
	if p.volumeCtrl != nil {
		p.mixer.Lock()
		p.volumeCtrl.Volume = volumeToGain(volume)
		p.volumeCtrl.Silent = volume <= 0
		p.mixer.Unlock()
	}
}

// Volume возвращает текущую громкость
func (p *Player) Volume() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.volume
}

// Close закрывает плеер и освобождает ресурсы. Повторный вызов безопасен.
func (p *Player) Close() error {
	p.cancel()
	p.Stop()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	p.buffer = nil
	p.track = nil
	p.state = StateIdle

	// Каналы закрываются под мьютексом: отправители держат его же,
	// поэтому отправка в закрытый канал исключена
	close(p.progressChan)
	close(p.doneChan)
	return nil
}

// onFinished обрабатывает естественное завершение клипа
func (p *Player) onFinished(gen int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if gen != p.generation || p.state != StatePlaying {
		return
	}
	p.state = StateLoaded
	p.streamer = nil
	p.volumeCtrl = nil

	if p.closed {
		return
	}
	select {
	case p.doneChan <- true:
	default:
	}
}

// monitorProgress отправляет обновления прогресса, пока идет воспроизведение
func (p *Player) monitorProgress(gen int) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()

			if gen != p.generation || p.streamer == nil || p.buffer == nil {
				p.mutex.RUnlock()
				return
			}

			p.mixer.Lock()
			pos := p.streamer.Position()
			p.mixer.Unlock()

			format := p.buffer.Format()
			status := Status{
				Current:   format.SampleRate.D(pos),
				Total:     format.SampleRate.D(p.buffer.Len()),
				IsPlaying: p.state == StatePlaying,
			}

			if !p.closed {
				select {
				case p.progressChan <- status:
				default:
					// Если канал занят, пропускаем обновление
				}
			}

			p.mutex.RUnlock()
		}
	}
}

// decodeIntoBuffer декодирует аудио файл целиком в память
func decodeIntoBuffer(path string) (*beep.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		file.Close()
		return nil, fmt.Errorf("неподдерживаемый формат файла: %s", filepath.Ext(path))
	}
	if err != nil {
		file.Close()
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	streamer.Close()
	_ = file.Close()

	return buffer, nil
}

// volumeToGain переводит громкость 0..1 в показатель степени для effects.Volume
func volumeToGain(volume float64) float64 {
	return (volume - 1) * 4
}
