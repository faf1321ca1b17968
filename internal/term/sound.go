package term

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate  = beep.SampleRate(44100)
	pickupTone  = 660
	releaseTone = 440
	toneLength  = 40 * time.Millisecond
)

// Chime plays short tones when objects are picked up and dropped. A chime
// whose speaker failed to open stays silent.
type Chime struct {
	mu     sync.Mutex
	ready  bool
	logger *log.Logger
}

func NewChime(logger *log.Logger) *Chime {
	c := &Chime{logger: logger}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logger.Warn("audio unavailable", "err", err)
		return c
	}
	c.ready = true
	return c
}

func (c *Chime) Pickup()  { c.play(pickupTone) }
func (c *Chime) Release() { c.play(releaseTone) }

func (c *Chime) play(freq float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		c.logger.Debug("tone", "freq", freq, "err", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(toneLength), sine))
}

func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		speaker.Close()
		c.ready = false
	}
}
