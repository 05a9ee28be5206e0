// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"sync"

	"github.com/telekom/wirefish/internal/monitor"
)

// DefaultSampleLimit is the number of samples kept when no limit is given.
const DefaultSampleLimit = 600

// SampleStore keeps the latest samples of a monitor run.
// It is safe for concurrent use.
type SampleStore struct {
	mu      sync.RWMutex
	iface   string
	limit   int
	samples []monitor.Sample
}

// NewSampleStore returns a store holding at most limit samples.
func NewSampleStore(limit int) *SampleStore {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	return &SampleStore{limit: limit, samples: make([]monitor.Sample, 0, limit)}
}

// Add stores a sample and drops the oldest one once the store is full.
// Its signature matches [monitor.Options.OnSample].
func (s *SampleStore) Add(sample monitor.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iface = sample.Iface
	if len(s.samples) == s.limit {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:len(s.samples)-1]
	}
	s.samples = append(s.samples, sample)
}

// Series returns a copy of the stored samples.
func (s *SampleStore) Series() *monitor.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return monitor.NewSeries(s.iface, s.samples...)
}
