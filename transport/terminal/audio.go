package terminal

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a sound played after a turn
type Cue int

const (
	CueAlert Cue = iota
	CueHit
	CueWin
	CueLoss
)

// note is one tone of a cue
type note struct {
	freq     float64
	duration time.Duration
}

var cueNotes = map[Cue][]note{
	CueAlert: {{660, 60 * time.Millisecond}, {0, 40 * time.Millisecond}, {660, 60 * time.Millisecond}},
	CueHit:   {{180, 200 * time.Millisecond}},
	CueWin:   {{523.25, 120 * time.Millisecond}, {659.25, 120 * time.Millisecond}, {783.99, 240 * time.Millisecond}},
	CueLoss:  {{392, 180 * time.Millisecond}, {311.13, 180 * time.Millisecond}, {220, 360 * time.Millisecond}},
}

// Sounds plays turn cues
type Sounds interface {
	Play(cues ...Cue)
	Close()
}

// CuesFor picks the sounds for a turn. A finished game plays only its ending.
func CuesFor(turn engine.TurnResult) []Cue {
	if !turn.Applied {
		return nil
	}
	switch turn.Outcome {
	case engine.Win:
		return []Cue{CueWin}
	case engine.Loss:
		return []Cue{CueLoss}
	}

	var cues []Cue
	if turn.HealthLost > 0 {
		cues = append(cues, CueHit)
	}
	if len(turn.Alerted) > 0 {
		cues = append(cues, CueAlert)
	}
	return cues
}

// cueStreamer renders the notes of cue at rate. A zero frequency is a rest.
func cueStreamer(rate beep.SampleRate, cue Cue) (beep.Streamer, error) {
	notes := cueNotes[cue]
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		if n.freq == 0 {
			parts = append(parts, beep.Silence(rate.N(n.duration)))
			continue
		}
		tone, err := generators.SineTone(rate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(rate.N(n.duration), tone))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: math.Log2(0.3)}, nil
}

type speakerSounds struct {
	mu sync.Mutex
}

// NewSounds opens the speaker. Audio is optional: on failure the error is
// logged and a silent player is returned.
func NewSounds() Sounds {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		return Silent{}
	}
	return &speakerSounds{}
}

// Play queues the cues one after the other
func (s *speakerSounds) Play(cues ...Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queue []beep.Streamer
	for _, cue := range cues {
		streamer, err := cueStreamer(sampleRate, cue)
		if err != nil {
			log.Printf("Audio cue %d failed: %v", cue, err)
			continue
		}
		queue = append(queue, streamer)
	}
	if len(queue) > 0 {
		speaker.Play(beep.Seq(queue...))
	}
}

func (s *speakerSounds) Close() {
	speaker.Clear()
	speaker.Close()
}

// Silent is a Sounds that plays nothing
type Silent struct{}

func (Silent) Play(...Cue) {}
func (Silent) Close()      {}
