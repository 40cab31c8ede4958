package srv

import (
	"time"

	"github.com/wayfinder-ai/wayfinder/pkg/ai/agents/research"
	"github.com/wayfinder-ai/wayfinder/pkg/screenshot"
)

type Srv struct {
	ai       *AI
	tower    *Tower
	research research.Delegate
	capturer screenshot.Capturer
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (s *Srv) AI() *AI {
	return s.ai
}

func (s *Srv) Tower() *Tower {
	return s.tower
}

func (s *Srv) Research() research.Delegate {
	return s.research
}

func (s *Srv) Capturer() screenshot.Capturer {
	return s.capturer
}

func ApplyResearch(endpoint, token string, timeout time.Duration) ApplyFunc {
	return func(s *Srv) {
		s.research = research.New(endpoint, token, timeout)
	}
}

func ApplyCapturer(capturer screenshot.Capturer) ApplyFunc {
	return func(s *Srv) {
		s.capturer = capturer
	}
}
