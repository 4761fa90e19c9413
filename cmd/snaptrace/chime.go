package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// chime plays short tones on the default audio device. A nil chime, or one
// whose speaker failed to initialize, is silent.
type chime struct {
	rate beep.SampleRate
	ok   bool
}

func newChime(logger *log.Logger) *chime {
	c := &chime{rate: beep.SampleRate(44100)}
	if err := speaker.Init(c.rate, c.rate.N(time.Second/10)); err != nil {
		// Non-fatal, the view works without sound
		logger.Printf("audio disabled: %v", err)
		return c
	}
	c.ok = true
	return c
}

func (c *chime) play(freq float64, d time.Duration) {
	if c == nil || !c.ok {
		return
	}
	tone, err := generators.SineTone(c.rate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(c.rate.N(d), tone))
}
