package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/storage"
	"github.com/Aashish23092/ocr-phone-extractor/utils"
)

// Keys used in the key-value store.
const (
	KeyExportHistory    = "export_history"
	KeyExportCounter    = "export_counter"
	KeyExtractedNumbers = "extracted_numbers"
)

const DefaultHistoryCapacity = 10

// Session owns the state that outlives a batch: the unique numbers found so far,
// the export history and the export counter. It is loaded once and written back
// on every change.
type Session struct {
	mu              sync.RWMutex
	kv              storage.KVStore
	historyCapacity int

	numbers []dto.ExtractedNumber
	known   map[string]struct{}
	history []dto.ExportRecord
	counter int
}

func NewSession(kv storage.KVStore, historyCapacity int) *Session {
	if historyCapacity <= 0 {
		historyCapacity = DefaultHistoryCapacity
	}
	return &Session{
		kv:              kv,
		historyCapacity: historyCapacity,
		known:           make(map[string]struct{}),
		counter:         1,
	}
}

// Load reads the persisted session. Missing keys keep their defaults; unreadable
// values are logged and replaced by defaults.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok, err := s.kv.Get(ctx, KeyExportHistory); err != nil {
		return fmt.Errorf("failed to load export history: %w", err)
	} else if ok {
		var history []dto.ExportRecord
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			slog.Warn("discarding unreadable export history", "error", err)
		} else {
			if len(history) > s.historyCapacity {
				history = history[:s.historyCapacity]
			}
			s.history = history
		}
	}

	if raw, ok, err := s.kv.Get(ctx, KeyExportCounter); err != nil {
		return fmt.Errorf("failed to load export counter: %w", err)
	} else if ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			slog.Warn("discarding unreadable export counter", "value", raw)
		} else {
			s.counter = n
		}
	}

	if raw, ok, err := s.kv.Get(ctx, KeyExtractedNumbers); err != nil {
		return fmt.Errorf("failed to load extracted numbers: %w", err)
	} else if ok {
		var numbers []dto.ExtractedNumber
		if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
			slog.Warn("discarding unreadable extracted numbers", "error", err)
		} else {
			for _, n := range numbers {
				if !utils.IsCanonical(n.Canonical) {
					continue
				}
				if _, dup := s.known[n.Canonical]; dup {
					continue
				}
				s.known[n.Canonical] = struct{}{}
				s.numbers = append(s.numbers, n)
			}
		}
	}

	slog.Info("session loaded",
		"numbers", len(s.numbers),
		"exports", len(s.history),
		"next_counter", s.counter,
	)
	return nil
}

// Numbers returns the result set in discovery order.
func (s *Session) Numbers() []dto.ExtractedNumber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.ExtractedNumber(nil), s.numbers...)
}

// Canonicals returns the canonical strings of the result set in discovery order.
func (s *Session) Canonicals() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.numbers))
	for _, n := range s.numbers {
		out = append(out, n.Canonical)
	}
	return out
}

// Known returns a copy of the set of canonical numbers already in the session.
func (s *Session) Known() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := make(map[string]struct{}, len(s.known))
	for k := range s.known {
		known[k] = struct{}{}
	}
	return known
}

// MergeNumbers appends numbers not already known, keeping their order, and
// persists the result set. It returns how many were added. Nothing changes in
// memory when the write fails.
func (s *Session) MergeNumbers(ctx context.Context, numbers []dto.ExtractedNumber) (int, error) {
	if len(numbers) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]string, 0, len(numbers))
	for _, n := range numbers {
		candidates = append(candidates, n.Canonical)
	}
	fresh, _ := Partition(candidates, s.known)
	if len(fresh) == 0 {
		return 0, nil
	}

	wanted := make(map[string]struct{}, len(fresh))
	for _, c := range fresh {
		wanted[c] = struct{}{}
	}
	merged := append(make([]dto.ExtractedNumber, 0, len(s.numbers)+len(fresh)), s.numbers...)
	for _, n := range numbers {
		if _, ok := wanted[n.Canonical]; !ok {
			continue
		}
		delete(wanted, n.Canonical)
		merged = append(merged, n)
	}

	if err := s.persistNumbers(ctx, merged); err != nil {
		return 0, err
	}

	s.numbers = merged
	for _, c := range fresh {
		s.known[c] = struct{}{}
	}
	return len(fresh), nil
}

// Reset forgets every extracted number. History and counter are kept.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistNumbers(ctx, nil); err != nil {
		return err
	}
	s.numbers = nil
	s.known = make(map[string]struct{})
	return nil
}

// ResetAll forgets the numbers, the export history and the counter, so the next
// export is named 1.csv again. Each part is cleared in memory only once its
// write has succeeded.
func (s *Session) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistNumbers(ctx, nil); err != nil {
		return err
	}
	s.numbers = nil
	s.known = make(map[string]struct{})

	if err := s.persistHistory(ctx, nil); err != nil {
		return err
	}
	s.history = nil

	if err := s.persistCounter(ctx, 1); err != nil {
		return err
	}
	s.counter = 1
	return nil
}

// History returns export records, most recent first.
func (s *Session) History() []dto.ExportRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.ExportRecord(nil), s.history...)
}

// FindExport looks up a record by id.
func (s *Session) FindExport(id string) (dto.ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.history {
		if r.ID == id {
			return r, nil
		}
	}
	return dto.ExportRecord{}, dto.ErrExportNotFound
}

// NextCounter is the index the next export file will be named after.
func (s *Session) NextCounter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter
}

// RecordExport builds a record for the current counter value, puts it at the head
// of the bounded history, advances the counter and persists both. The session is
// only updated once both writes succeed; if the counter cannot be written the
// stored history is put back.
func (s *Session) RecordExport(ctx context.Context, build func(counter int) (dto.ExportRecord, error)) (dto.ExportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := build(s.counter)
	if err != nil {
		return dto.ExportRecord{}, err
	}

	history := make([]dto.ExportRecord, 0, len(s.history)+1)
	history = append(history, record)
	history = append(history, s.history...)
	if len(history) > s.historyCapacity {
		history = history[:s.historyCapacity]
	}
	next := s.counter + 1

	if err := s.persistHistory(ctx, history); err != nil {
		return dto.ExportRecord{}, err
	}
	if err := s.persistCounter(ctx, next); err != nil {
		if restoreErr := s.persistHistory(ctx, s.history); restoreErr != nil {
			slog.Error("failed to restore export history", "error", restoreErr)
		}
		return dto.ExportRecord{}, err
	}

	s.history = history
	s.counter = next
	return record, nil
}

// ClearHistory removes all export records. The counter keeps counting.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistHistory(ctx, nil); err != nil {
		return err
	}
	s.history = nil
	return nil
}

func (s *Session) persistHistory(ctx context.Context, history []dto.ExportRecord) error {
	if history == nil {
		history = []dto.ExportRecord{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal export history: %w", err)
	}
	if err := s.kv.Set(ctx, KeyExportHistory, string(data)); err != nil {
		return fmt.Errorf("failed to persist export history: %w", err)
	}
	return nil
}

func (s *Session) persistCounter(ctx context.Context, counter int) error {
	if err := s.kv.Set(ctx, KeyExportCounter, strconv.Itoa(counter)); err != nil {
		return fmt.Errorf("failed to persist export counter: %w", err)
	}
	return nil
}

func (s *Session) persistNumbers(ctx context.Context, numbers []dto.ExtractedNumber) error {
	if numbers == nil {
		numbers = []dto.ExtractedNumber{}
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return fmt.Errorf("failed to marshal extracted numbers: %w", err)
	}
	if err := s.kv.Set(ctx, KeyExtractedNumbers, string(data)); err != nil {
		return fmt.Errorf("failed to persist extracted numbers: %w", err)
	}
	return nil
}
