package gattpad

import (
	"sort"
	"sync"
)

// Subscriber is a central that enabled notifications or indications.
type Subscriber struct {
	Central  CentralID
	Indicate bool
}

// subscribers tracks which centrals enabled notifications or indications
// of which characteristic.
type subscribers struct {
	sub   map[charKey]map[CentralID]bool
	mutex *sync.Mutex
}

func newSubscribers() *subscribers {
	return &subscribers{
		sub:   make(map[charKey]map[CentralID]bool),
		mutex: &sync.Mutex{},
	}
}

func (s *subscribers) subscribe(k charKey, c CentralID, indicate bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m := s.sub[k]
	if m == nil {
		m = make(map[CentralID]bool)
		s.sub[k] = m
	}
	m[c] = indicate
}

func (s *subscribers) unsubscribe(k charKey, c CentralID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sub[k], c)
	if len(s.sub[k]) == 0 {
		delete(s.sub, k)
	}
}

// drop removes every subscription of c and returns how many there were.
func (s *subscribers) drop(c CentralID) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for k, m := range s.sub {
		if _, ok := m[c]; !ok {
			continue
		}
		delete(m, c)
		n++
		if len(m) == 0 {
			delete(s.sub, k)
		}
	}
	return n
}

func (s *subscribers) list(k charKey) []Subscriber {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r := make([]Subscriber, 0, len(s.sub[k]))
	for c, indicate := range s.sub[k] {
		r = append(r, Subscriber{Central: c, Indicate: indicate})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Central < r[j].Central })
	return r
}

func (s *subscribers) count(k charKey) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sub[k])
}
