// generator.go — ограниченный пул генерации ключей.
// Генерация RSA занимает десятки миллисекунд CPU, поэтому число
// одновременных генераций ограничено семафором.
package sshkey

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

var (
	keygenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "um_keygen_duration_seconds",
		Help:    "Длительность генерации RSA-ключа",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
	keygenInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "um_keygen_in_flight",
		Help: "Количество выполняющихся генераций ключей",
	})
)

// KeyGenerator — источник новых ключевых пар.
// Реализуется Generator; в тестах сервисов подменяется фейком.
type KeyGenerator interface {
	Generate(ctx context.Context) (*KeyPair, error)
}

// Generator генерирует ключи не более чем в workers горутинах одновременно.
type Generator struct {
	sem    *semaphore.Weighted
	random io.Reader
}

// NewGenerator создаёт пул на workers слотов (минимум 1).
func NewGenerator(workers int) *Generator {
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		sem:    semaphore.NewWeighted(int64(workers)),
		random: rand.Reader,
	}
}

// Generate ждёт свободный слот и генерирует пару.
// Если контекст отменён во время ожидания или генерации, ключ отбрасывается
// и возвращается ошибка контекста.
func (g *Generator) Generate(ctx context.Context) (*KeyPair, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("ожидание слота генерации: %w", err)
	}
	defer g.sem.Release(1)

	keygenInFlight.Inc()
	start := time.Now()
	pair, err := GenerateFrom(g.random)
	keygenDuration.Observe(time.Since(start).Seconds())
	keygenInFlight.Dec()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pair, nil
}
