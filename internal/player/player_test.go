package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/hazadus/go-ttsplayer/internal/library"
)

// fakeMixer записывает последовательность операций микшера
// и позволяет имитировать естественное завершение клипа
type fakeMixer struct {
	mu       sync.Mutex
	ops      []string
	active   bool
	initErr  error
	onFinish func()
}

func (m *fakeMixer) Init(_ beep.SampleRate, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return m.initErr
	}
	m.ops = append(m.ops, "init")
	m.active = false
	return nil
}

func (m *fakeMixer) Play(_ beep.Streamer, onFinish func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "play")
	m.active = true
	m.onFinish = onFinish
}

func (m *fakeMixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "clear")
	m.active = false
}

func (m *fakeMixer) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *fakeMixer) Lock()   {}
func (m *fakeMixer) Unlock() {}

// finishPlayback имитирует естественное завершение клипа
func (m *fakeMixer) finishPlayback() {
	m.mu.Lock()
	m.active = false
	onFinish := m.onFinish
	m.mu.Unlock()
	if onFinish != nil {
		onFinish()
	}
}

// operations возвращает копию записанной последовательности операций
func (m *fakeMixer) operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// writeTestWAV записывает в файл минимальный корректный PCM WAV
// (моно, 16 бит, 8000 Гц) заданной длительности
func writeTestWAV(t *testing.T, path string, duration time.Duration) {
	t.Helper()

	const sampleRate = 8000
	numSamples := int(float64(sampleRate) * duration.Seconds())
	dataLen := numSamples * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // моно
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Ошибка записи тестового WAV файла: %v", err)
	}
}

// makeTrack создает трек с тестовым WAV файлом указанной длительности
func makeTrack(t *testing.T, dir, name string, duration time.Duration) *library.Track {
	t.Helper()
	path := filepath.Join(dir, name+".wav")
	writeTestWAV(t, path, duration)
	return &library.Track{
		ID:   name + ".wav",
		Name: name,
		Path: path,
	}
}

func TestPlayWithoutLoad(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	// Воспроизведение без загруженного трека — нарушение предусловия
	err := p.Play()
	if !errors.Is(err, ErrNothingLoaded) {
		t.Errorf("Ожидалась ошибка ErrNothingLoaded, получено: %v", err)
	}

	// Состояние должно остаться Idle
	if p.State() != StateIdle {
		t.Errorf("Ожидалось состояние StateIdle, получено: %v", p.State())
	}
	if len(mixer.operations()) != 0 {
		t.Errorf("Микшер не должен был вызываться, операции: %v", mixer.operations())
	}
}

func TestLoadAndPlay(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	track := makeTrack(t, t.TempDir(), "greeting", 500*time.Millisecond)

	// Загружаем трек
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}

	if p.State() != StateLoaded {
		t.Errorf("Ожидалось состояние StateLoaded, получено: %v", p.State())
	}
	if p.IsPlaying() {
		t.Error("Плеер не должен воспроизводить сразу после загрузки")
	}
	if p.Current() != track {
		t.Error("Текущим должен быть загруженный трек")
	}

	// Длительность буфера соответствует файлу
	duration := p.Duration()
	if duration < 400*time.Millisecond || duration > 600*time.Millisecond {
		t.Errorf("Ожидалась длительность около 500ms, получено: %v", duration)
	}

	// Запускаем воспроизведение
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	if !p.IsPlaying() {
		t.Error("Плеер должен воспроизводить после Play")
	}

	ops := mixer.operations()
	expected := []string{"init", "play"}
	if len(ops) != len(expected) || ops[0] != expected[0] || ops[1] != expected[1] {
		t.Errorf("Ожидались операции %v, получено: %v", expected, ops)
	}
}

func TestPlayTwiceRestartsFromBeginning(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	track := makeTrack(t, t.TempDir(), "chapter", 500*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}

	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка первого запуска: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка повторного запуска: %v", err)
	}

	// Повторный Play — это стоп, затем старт, а не одиночный старт
	ops := mixer.operations()
	expected := []string{"init", "play", "clear", "play"}
	if len(ops) != len(expected) {
		t.Fatalf("Ожидались операции %v, получено: %v", expected, ops)
	}
	for i := range expected {
		if ops[i] != expected[i] {
			t.Fatalf("Ожидались операции %v, получено: %v", expected, ops)
		}
	}

	if !p.IsPlaying() {
		t.Error("Плеер должен воспроизводить после перезапуска")
	}
}

func TestLoadReplacesPreviousTrack(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	tempDir := t.TempDir()
	trackA := makeTrack(t, tempDir, "first", time.Second)
	trackB := makeTrack(t, tempDir, "second", 250*time.Millisecond)

	if err := p.Load(trackA); err != nil {
		t.Fatalf("Ошибка загрузки первого трека: %v", err)
	}
	if err := p.Load(trackB); err != nil {
		t.Fatalf("Ошибка загрузки второго трека: %v", err)
	}

	// В памяти должны остаться данные только второго трека
	if p.Current() != trackB {
		t.Error("Текущим должен быть второй трек")
	}
	duration := p.Duration()
	if duration > 500*time.Millisecond {
		t.Errorf("Буфер должен содержать короткий второй трек, длительность: %v", duration)
	}

	// Каждая загрузка заново инициализирует канал микшера
	ops := mixer.operations()
	if len(ops) != 2 || ops[0] != "init" || ops[1] != "init" {
		t.Errorf("Ожидались операции [init init], получено: %v", ops)
	}
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	tempDir := t.TempDir()
	track := makeTrack(t, tempDir, "stable", 500*time.Millisecond)

	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	// Загрузка отсутствующего файла должна вернуть ошибку
	missing := &library.Track{Name: "missing", Path: filepath.Join(tempDir, "missing.wav")}
	if err := p.Load(missing); err == nil {
		t.Fatal("Ожидалась ошибка загрузки отсутствующего файла")
	}

	// Плеер остается в прежнем состоянии с прежним треком
	if p.Current() != track {
		t.Error("После неудачной загрузки текущий трек не должен меняться")
	}
	if !p.IsPlaying() {
		t.Error("После неудачной загрузки воспроизведение должно продолжаться")
	}

	// Неподдерживаемый формат — тоже ошибка загрузки без смены состояния
	badPath := filepath.Join(tempDir, "notes.flac")
	if err := os.WriteFile(badPath, []byte("not audio"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}
	unsupported := &library.Track{Name: "notes", Path: badPath}
	if err := p.Load(unsupported); err == nil {
		t.Fatal("Ожидалась ошибка загрузки неподдерживаемого формата")
	}
	if p.Current() != track {
		t.Error("После неудачной загрузки текущий трек не должен меняться")
	}
}

func TestMixerInitFailure(t *testing.T) {
	mixer := &fakeMixer{initErr: errors.New("устройство занято")}
	p := NewPlayer(mixer)
	defer p.Close()

	track := makeTrack(t, t.TempDir(), "clip", 250*time.Millisecond)

	// Ошибка инициализации устройства не должна менять состояние
	if err := p.Load(track); err == nil {
		t.Fatal("Ожидалась ошибка инициализации микшера")
	}
	if p.State() != StateIdle {
		t.Errorf("Ожидалось состояние StateIdle, получено: %v", p.State())
	}
	if p.Current() != nil {
		t.Error("Трек не должен быть загружен при ошибке инициализации")
	}
}

func TestStopTransitions(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	// Stop из Idle — no-op
	p.Stop()
	if p.State() != StateIdle {
		t.Errorf("Ожидалось состояние StateIdle, получено: %v", p.State())
	}
	if len(mixer.operations()) != 0 {
		t.Errorf("Микшер не должен был вызываться, операции: %v", mixer.operations())
	}

	track := makeTrack(t, t.TempDir(), "pausable", 500*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}

	// Stop из Loaded — no-op
	p.Stop()
	if p.State() != StateLoaded {
		t.Errorf("Ожидалось состояние StateLoaded, получено: %v", p.State())
	}

	// Stop из Playing останавливает канал, трек остается загруженным
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}
	p.Stop()

	if p.State() != StateLoaded {
		t.Errorf("Ожидалось состояние StateLoaded, получено: %v", p.State())
	}
	if p.Current() != track {
		t.Error("После остановки трек должен оставаться загруженным")
	}

	ops := mixer.operations()
	if ops[len(ops)-1] != "clear" {
		t.Errorf("Последней операцией должна быть clear, операции: %v", ops)
	}

	// Повторный запуск после остановки работает
	if err := p.Play(); err != nil {
		t.Errorf("Ошибка повторного запуска после остановки: %v", err)
	}
}

func TestNaturalFinishReconciliation(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	track := makeTrack(t, t.TempDir(), "short", 250*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	// Имитируем естественное завершение клипа
	mixer.finishPlayback()

	// Внутреннее состояние сверяется с микшером
	if p.IsPlaying() {
		t.Error("Плеер не должен воспроизводить после завершения клипа")
	}
	if p.State() != StateLoaded {
		t.Errorf("Ожидалось состояние StateLoaded, получено: %v", p.State())
	}
	if p.Current() != track {
		t.Error("Трек должен оставаться загруженным после завершения")
	}

	// Сигнал о завершении приходит в канал Done
	select {
	case <-p.Done():
		// Ожидаемое поведение
	case <-time.After(time.Second):
		t.Error("Сигнал о завершении воспроизведения не получен")
	}
}

func TestSetVolume(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	// Громкость приводится к диапазону 0..1
	p.SetVolume(1.5)
	if p.Volume() != 1.0 {
		t.Errorf("Ожидалась громкость 1.0, получено: %v", p.Volume())
	}

	p.SetVolume(-0.5)
	if p.Volume() != 0 {
		t.Errorf("Ожидалась громкость 0, получено: %v", p.Volume())
	}

	// Громкость применяется к играющему потоку
	track := makeTrack(t, t.TempDir(), "loud", 250*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	p.SetVolume(0.5)
	if p.Volume() != 0.5 {
		t.Errorf("Ожидалась громкость 0.5, получено: %v", p.Volume())
	}
}

func TestPlayerChannels(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	// Каналы созданы и изначально пусты
	select {
	case <-p.Progress():
		t.Error("Канал прогресса должен быть пуст изначально")
	default:
	}

	select {
	case <-p.Done():
		t.Error("Канал завершения должен быть пуст изначально")
	default:
	}
}

func TestSeekMovesPosition(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	track := makeTrack(t, t.TempDir(), "story", 500*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	// Перемотка вперед сдвигает позицию
	if err := p.Seek(200 * time.Millisecond); err != nil {
		t.Fatalf("Ошибка перемотки: %v", err)
	}
	pos := p.Position()
	if pos < 150*time.Millisecond || pos > 250*time.Millisecond {
		t.Errorf("Ожидалась позиция около 200ms, получено: %v", pos)
	}

	// Отрицательная позиция приводится к началу трека
	if err := p.Seek(-time.Second); err != nil {
		t.Fatalf("Ошибка перемотки: %v", err)
	}
	if pos := p.Position(); pos != 0 {
		t.Errorf("Ожидалась позиция 0, получено: %v", pos)
	}

	// Позиция за концом трека приводится к его длительности
	if err := p.Seek(10 * time.Second); err != nil {
		t.Fatalf("Ошибка перемотки: %v", err)
	}
	if pos := p.Position(); pos != p.Duration() {
		t.Errorf("Ожидалась позиция %v, получено: %v", p.Duration(), pos)
	}

	// Перемотка не трогает канал микшера
	ops := mixer.operations()
	expected := []string{"init", "play"}
	if len(ops) != len(expected) || ops[0] != expected[0] || ops[1] != expected[1] {
		t.Errorf("Ожидались операции %v, получено: %v", expected, ops)
	}
}

func TestSeekWithoutPlayback(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)
	defer p.Close()

	// Без загруженного трека перемотка ничего не делает
	if err := p.Seek(time.Second); err != nil {
		t.Errorf("Перемотка без трека не должна возвращать ошибку: %v", err)
	}

	track := makeTrack(t, t.TempDir(), "silent", 500*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}

	// Без активного воспроизведения перемотка тоже ничего не делает
	if err := p.Seek(time.Second); err != nil {
		t.Errorf("Перемотка без воспроизведения не должна возвращать ошибку: %v", err)
	}
	if p.State() != StateLoaded {
		t.Errorf("Ожидалось состояние StateLoaded, получено: %v", p.State())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)

	if err := p.Close(); err != nil {
		t.Fatalf("Ошибка закрытия плеера: %v", err)
	}

	// Повторное закрытие не должно приводить к панике на закрытых каналах
	if err := p.Close(); err != nil {
		t.Errorf("Повторное закрытие вернуло ошибку: %v", err)
	}
}

func TestCloseDuringPlayback(t *testing.T) {
	mixer := &fakeMixer{}
	p := NewPlayer(mixer)

	track := makeTrack(t, t.TempDir(), "closing", 500*time.Millisecond)
	if err := p.Load(track); err != nil {
		t.Fatalf("Ошибка загрузки трека: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	// Закрытие во время воспроизведения не должно конфликтовать
	// с уведомлением о завершении клипа
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.Close()
	}()
	go func() {
		defer wg.Done()
		mixer.finishPlayback()
	}()
	wg.Wait()

	if p.State() != StateIdle {
		t.Errorf("Ожидалось состояние StateIdle, получено: %v", p.State())
	}
}
