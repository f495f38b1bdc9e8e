package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
	"github.com/Aashish23092/ocr-phone-extractor/utils"
)

// Advisory progress checkpoints for an item moving through the pipeline.
const (
	ProgressStarted   = 10
	ProgressEncoded   = 40
	ProgressExtracted = 70
	ProgressMatched   = 90
	ProgressDone      = 100
)

// ProgressFunc receives a snapshot of an item after each pipeline stage.
type ProgressFunc func(item dto.QueueItem)

// BatchService drives queued images through encode, OCR, match and dedup, one at a
// time in ingestion order.
type BatchService struct {
	queue     *Queue
	session   *Session
	encoder   *ImageEncoder
	extractor TextExtractor
	qr        *QRScanner

	// one pass at a time; a second caller waits and then skips completed items
	running sync.Mutex
}

// NewBatchService wires the pipeline. qr may be nil to skip QR scanning.
func NewBatchService(queue *Queue, session *Session, encoder *ImageEncoder, extractor TextExtractor, qr *QRScanner) *BatchService {
	return &BatchService{
		queue:     queue,
		session:   session,
		encoder:   encoder,
		extractor: extractor,
		qr:        qr,
	}
}

func (s *BatchService) Queue() *Queue { return s.queue }

func (s *BatchService) Session() *Session { return s.session }

// ClearQueue drops every queued item. The result set is kept.
func (s *BatchService) ClearQueue() error {
	if !s.running.TryLock() {
		return dto.ErrBatchRunning
	}
	defer s.running.Unlock()

	s.queue.Clear()
	return nil
}

// Reset clears the queue and forgets every extracted number. With full set the
// export history and counter are cleared too; otherwise they are kept.
func (s *BatchService) Reset(ctx context.Context, full bool) error {
	if !s.running.TryLock() {
		return dto.ErrBatchRunning
	}
	defer s.running.Unlock()

	s.queue.Clear()

	reset := s.session.Reset
	if full {
		reset = s.session.ResetAll
	}
	if err := reset(ctx); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	logger.Info(ctx, "session reset", "full", full)
	return nil
}

// Run processes every pending or failed item once. Item failures are recorded on
// the item and never stop the pass. Cancelling ctx does not interrupt a pass that
// has started. New unique numbers are merged into the session when the pass ends.
func (s *BatchService) Run(ctx context.Context, onProgress ProgressFunc) (*dto.BatchSummary, error) {
	s.running.Lock()
	defer s.running.Unlock()

	ctx = context.WithoutCancel(ctx)
	ctx = context.WithValue(ctx, logger.BatchIDKey, uuid.New().String())

	ids, skipped := s.queue.eligible()
	summary := &dto.BatchSummary{Skipped: skipped, NewNumbers: []dto.ExtractedNumber{}}

	logger.Info(ctx, "batch started", "items", len(ids), "skipped", skipped, "backend", s.extractor.Name())

	acc := NewAccumulator(s.session.Known())
	for _, id := range ids {
		fresh, duplicates, err := s.processItem(ctx, id, acc, onProgress)
		summary.Processed++
		if err != nil {
			summary.Failed++
			continue
		}
		summary.Completed++
		summary.Duplicates += duplicates
		summary.NewNumbers = append(summary.NewNumbers, fresh...)
	}

	added, err := s.session.MergeNumbers(ctx, summary.NewNumbers)
	summary.TotalKnown = len(s.session.Canonicals())

	logger.Info(ctx, "batch finished",
		"completed", summary.Completed,
		"failed", summary.Failed,
		"new_numbers", added,
		"duplicates", summary.Duplicates,
	)
	if err != nil {
		return summary, fmt.Errorf("failed to save numbers: %w", err)
	}
	return summary, nil
}

func (s *BatchService) processItem(ctx context.Context, id string, acc *Accumulator, onProgress ProgressFunc) ([]dto.ExtractedNumber, int, error) {
	report := func(item dto.QueueItem) {
		if onProgress != nil && item.ID != "" {
			onProgress(item)
		}
	}

	name, data, ok := s.queue.payload(id)
	if !ok {
		return nil, 0, fmt.Errorf("queue item %s not found", id)
	}

	item, err := s.queue.transition(id, dto.StatusProcessing, func(it *dto.QueueItem) {
		it.Progress = ProgressStarted
		it.Error = ""
	})
	if err != nil {
		return nil, 0, err
	}
	report(item)

	payload, err := s.encoder.Encode(name, data)
	if err != nil {
		return nil, 0, s.fail(ctx, id, err, report)
	}
	report(s.progress(id, ProgressEncoded))

	text, err := extractText(ctx, s.extractor, payload)
	if err != nil {
		return nil, 0, s.fail(ctx, id, err, report)
	}
	if s.qr != nil {
		if qrText := s.qr.Scan(data); qrText != "" {
			logger.Debug(ctx, "QR code found", "file", name)
			text += "\n" + qrText
		}
	}
	item, _ = s.queue.transition(id, dto.StatusProcessing, func(it *dto.QueueItem) {
		if it.RawText == "" {
			it.RawText = text
		}
		it.Progress = ProgressExtracted
	})
	report(item)

	matches := utils.ExtractPhoneNumbers(text)
	report(s.progress(id, ProgressMatched))

	fresh, duplicates := acc.Add(matches, name)

	item, err = s.queue.transition(id, dto.StatusCompleted, func(it *dto.QueueItem) {
		it.Progress = ProgressDone
		it.NewNumbers = len(fresh)
		it.Numbers = make([]string, 0, len(matches))
		for _, m := range matches {
			it.Numbers = append(it.Numbers, m.Canonical)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	report(item)

	logger.Info(ctx, "item completed", "file", name, "found", len(matches), "new", len(fresh))
	return fresh, duplicates, nil
}

func (s *BatchService) progress(id string, pct int) dto.QueueItem {
	item, _ := s.queue.transition(id, dto.StatusProcessing, func(it *dto.QueueItem) {
		it.Progress = pct
	})
	return item
}

func (s *BatchService) fail(ctx context.Context, id string, cause error, report func(dto.QueueItem)) error {
	reason := cause.Error()

	var encErr *dto.EncodingError
	var extErr *dto.ExtractionError
	switch {
	case errors.As(cause, &encErr):
		logger.Warn(ctx, "image could not be encoded", "file", encErr.FileName, "error", encErr.Err)
	case errors.As(cause, &extErr):
		logger.Warn(ctx, "text extraction failed", "backend", extErr.Backend, "error", extErr.Err)
	default:
		logger.Warn(ctx, "item failed", "error", cause)
	}

	item, err := s.queue.transition(id, dto.StatusError, func(it *dto.QueueItem) {
		it.Error = reason
	})
	if err == nil {
		report(item)
	}
	return cause
}
