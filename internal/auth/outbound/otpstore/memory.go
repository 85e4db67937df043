package otpstore

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// Memory keeps pending OTP challenges in process memory, for local
// development and tests.
//
// A janitor goroutine sweeps expired records and cooldowns so abandoned
// challenges do not accumulate.
type Memory struct {
	clock clock.Clocker

	mu        sync.Mutex
	records   map[string]entity.OTPRecord
	cooldowns map[string]time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemory(clk clock.Clocker, sweepInterval time.Duration) *Memory {
	m := &Memory{
		clock:     clk,
		records:   map[string]entity.OTPRecord{},
		cooldowns: map[string]time.Time{},
		stop:      make(chan struct{}),
	}

	if sweepInterval > 0 {
		go m.janitor(sweepInterval)
	}

	return m
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for phone, rec := range m.records {
		if now.After(rec.ExpiresAt) {
			delete(m.records, phone)
		}
	}
	for phone, until := range m.cooldowns {
		if now.After(until) {
			delete(m.cooldowns, phone)
		}
	}
}

func (m *Memory) Put(_ context.Context, phone string, rec entity.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[phone] = rec
	return nil
}

func (m *Memory) Take(_ context.Context, phone string) (*entity.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	delete(m.records, phone)

	return &rec, nil
}

func (m *Memory) AcquireCooldown(_ context.Context, phone string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if until, ok := m.cooldowns[phone]; ok && now.Before(until) {
		return false, nil
	}
	m.cooldowns[phone] = now.Add(ttl)

	return true, nil
}

// Close stops the janitor goroutine.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}
