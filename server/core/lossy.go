package core

import "math/rand/v2"

// LossyLink simulates an unreliable channel for one client: messages may be
// dropped, or held back and delivered after the following message.
type LossyLink struct {
	dropRate    float64
	reorderRate float64
	rng         *rand.Rand
	held        []byte

	Dropped   int
	Reordered int
}

func NewLossyLink(dropRate, reorderRate float64, rng *rand.Rand) *LossyLink {
	return &LossyLink{
		dropRate:    dropRate,
		reorderRate: reorderRate,
		rng:         rng,
	}
}

// Route returns the messages to deliver, in order, after msg was offered.
func (l *LossyLink) Route(msg []byte) [][]byte {
	if l.dropRate > 0 && l.rng.Float64() < l.dropRate {
		l.Dropped++
		return nil
	}
	if l.held == nil && l.reorderRate > 0 && l.rng.Float64() < l.reorderRate {
		l.held = msg
		return nil
	}

	out := [][]byte{msg}
	if l.held != nil {
		out = append(out, l.held)
		l.held = nil
		l.Reordered++
	}
	return out
}
