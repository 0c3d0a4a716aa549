package game

import (
	"math/rand"
	"sync"
	"time"
)

// Source produces one pair of die values per call, each uniform on [1,6]
// and independent of prior calls.
type Source interface {
	Roll() (die1, die2 int)
}

// RandSource draws from a seeded math/rand generator.
type RandSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandSource() *RandSource {
	return &RandSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *RandSource) Roll() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(6) + 1, s.r.Intn(6) + 1
}

// FixedSource replays a scripted sequence of rolls. Test helper.
type FixedSource struct {
	Rolls [][2]int
	next  int
}

func (s *FixedSource) Roll() (int, int) {
	if s.next >= len(s.Rolls) {
		return 1, 1
	}
	r := s.Rolls[s.next]
	s.next++
	return r[0], r[1]
}
