package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that batches ERROR+ records into the
// system_logs table.
type DBHandler struct {
	sink  *sink
	attrs []slog.Attr
}

type sink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	s := &sink{
		db:     db,
		buffer: make([]models.SystemLog, 0, batchSize),
		ticker: time.NewTicker(flushInterval),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return &DBHandler{sink: s}
}

func (s *sink) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *sink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	// Warn stays below this handler's level so a failed flush cannot re-enter it.
	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

func (s *sink) add(entry models.SystemLog) {
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	full := len(s.buffer) >= batchSize
	s.mu.Unlock()
	if full {
		go s.flush()
	}
}

// Stop flushes pending records and waits for the writer to exit. It is safe
// to call more than once.
func (h *DBHandler) Stop() {
	h.sink.once.Do(func() {
		h.sink.ticker.Stop()
		close(h.sink.done)
	})
	h.sink.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "component":
			entry.Component = a.Value.String()
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			entry.LatencyMs = latencyMs(a.Value)
		default:
			extra[a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.add(entry)
	return nil
}

func latencyMs(v slog.Value) int {
	switch v.Kind() {
	case slog.KindInt64:
		return int(v.Int64())
	case slog.KindFloat64:
		return int(math.Round(v.Float64()))
	case slog.KindDuration:
		return int(v.Duration().Milliseconds())
	}
	return 0
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; groups are flattened into Extra.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
