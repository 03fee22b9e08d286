// Package sound plays the notification cues through the system speaker.
package sound

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"pomobell/internal/core/schedule"
	"pomobell/internal/notify"
)

// Cue identifies a sound.
type Cue int

const (
	CueInterval Cue = iota
	CueWorkComplete
	CueLongBreak
	CueBreakComplete
)

var cueFiles = map[Cue]string{
	CueInterval:      "interval.wav",
	CueWorkComplete:  "work_complete.wav",
	CueLongBreak:     "long_break.wav",
	CueBreakComplete: "break_complete.wav",
}

// CueFor picks the cue matching a notification.
func CueFor(msg notify.Message) Cue {
	switch msg.Kind {
	case schedule.NotifyWorkComplete:
		if msg.LongBreak {
			return CueLongBreak
		}
		return CueWorkComplete
	case schedule.NotifyBreakComplete:
		return CueBreakComplete
	default:
		return CueInterval
	}
}

// Player implements notify.Notifier by playing a cue for messages that
// ask for sound. The speaker is opened on first use.
type Player struct {
	sounds fs.FS
	volume float64
	logger *slog.Logger

	once    sync.Once
	initErr error
	buffers map[Cue]*beep.Buffer

	// play is replaced in tests to avoid opening an audio device.
	play func(beep.Streamer)
}

// NewPlayer creates a player reading WAV files from sounds. Volume is in
// the beep exponential scale where 0 is unchanged.
func NewPlayer(sounds fs.FS, volume float64, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		sounds: sounds,
		volume: volume,
		logger: logger,
		play:   func(s beep.Streamer) { speaker.Play(s) },
	}
}

// Notify plays the cue for msg. Messages without PlaySound are ignored.
func (p *Player) Notify(_ context.Context, msg notify.Message) error {
	if !msg.PlaySound {
		return nil
	}
	return p.Play(CueFor(msg))
}

// Play starts the cue and returns without waiting for it to finish.
func (p *Player) Play(cue Cue) error {
	p.once.Do(func() {
		p.initErr = p.init()
	})
	if p.initErr != nil {
		return p.initErr
	}

	buffer, ok := p.buffers[cue]
	if !ok {
		return fmt.Errorf("play sound: unknown cue %d", cue)
	}
	p.play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   p.volume,
		Silent:   false,
	})
	return nil
}

func (p *Player) init() error {
	buffers, format, err := decodeCues(p.sounds)
	if err != nil {
		return err
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.buffers = buffers
	p.logger.Debug("speaker initialized", "sample_rate", format.SampleRate)
	return nil
}

// decodeCues loads every cue into memory. All files must share the first
// file's sample rate since the speaker is opened once.
func decodeCues(sounds fs.FS) (map[Cue]*beep.Buffer, beep.Format, error) {
	buffers := make(map[Cue]*beep.Buffer, len(cueFiles))
	var format beep.Format

	for cue := CueInterval; cue <= CueBreakComplete; cue++ {
		name := cueFiles[cue]
		buffer, fileFormat, err := decodeFile(sounds, name)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if format.SampleRate == 0 {
			format = fileFormat
		} else if fileFormat.SampleRate != format.SampleRate {
			return nil, beep.Format{}, fmt.Errorf("sound %s: sample rate %d differs from %d", name, fileFormat.SampleRate, format.SampleRate)
		}
		buffers[cue] = buffer
	}
	return buffers, format, nil
}

func decodeFile(sounds fs.FS, name string) (*beep.Buffer, beep.Format, error) {
	f, err := sounds.Open(name)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open sound %s: %w", name, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode sound %s: %w", name, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, format, nil
}
