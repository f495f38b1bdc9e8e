package service

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

// DefaultMaxPerUpload caps how many items one upload action may add.
const DefaultMaxPerUpload = 20

// Upload is one file selected by the operator.
type Upload struct {
	FileName string
	Data     []byte
}

type queueEntry struct {
	item dto.QueueItem
	data []byte
}

// Queue holds uploaded images in ingestion order together with their bytes.
type Queue struct {
	mu           sync.RWMutex
	entries      []*queueEntry
	byID         map[string]*queueEntry
	maxPerUpload int
	pdf          PDFProcessor
	now          func() time.Time
}

func NewQueue(maxPerUpload int, pdf PDFProcessor) *Queue {
	if maxPerUpload <= 0 {
		maxPerUpload = DefaultMaxPerUpload
	}
	return &Queue{
		byID:         make(map[string]*queueEntry),
		maxPerUpload: maxPerUpload,
		pdf:          pdf,
		now:          time.Now,
	}
}

// Enqueue adds one upload action's files. Items beyond the cap are dropped, not
// deferred. Files with unsupported extensions are rejected and do not count.
// PDF files contribute one item per embedded page image.
func (q *Queue) Enqueue(uploads []Upload) (accepted []dto.QueueItem, dropped int, rejected []string) {
	var entries []*queueEntry

	for _, up := range uploads {
		if err := dto.ValidateFileName(up.FileName); err != nil {
			rejected = append(rejected, up.FileName)
			continue
		}

		if len(entries) >= q.maxPerUpload {
			dropped++
			continue
		}
		for _, e := range q.expand(up) {
			if len(entries) >= q.maxPerUpload {
				dropped++
				continue
			}
			entries = append(entries, e)
		}
	}

	q.mu.Lock()
	for _, e := range entries {
		q.entries = append(q.entries, e)
		q.byID[e.item.ID] = e
		accepted = append(accepted, e.item)
	}
	q.mu.Unlock()

	if dropped > 0 {
		slog.Info("upload exceeded queue cap", "accepted", len(accepted), "dropped", dropped, "cap", q.maxPerUpload)
	}
	return accepted, dropped, rejected
}

func (q *Queue) expand(up Upload) []*queueEntry {
	if !strings.HasSuffix(strings.ToLower(up.FileName), ".pdf") || q.pdf == nil {
		return []*queueEntry{q.newEntry(up.FileName, up.Data)}
	}

	pages, err := q.pdf.ExtractPages(up.Data)
	if err != nil || len(pages) == 0 {
		// Queue the PDF as is; the pass marks it failed with the decode error.
		slog.Warn("failed to extract images from PDF", "file", up.FileName, "error", err)
		return []*queueEntry{q.newEntry(up.FileName, up.Data)}
	}

	perPage := make(map[int]int)
	for _, p := range pages {
		perPage[p.Page]++
	}

	entries := make([]*queueEntry, 0, len(pages))
	seen := make(map[int]int)
	for i, p := range pages {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, p.Image); err != nil {
			slog.Warn("failed to encode PDF page", "file", up.FileName, "page", p.Page, "error", err)
			continue
		}
		entries = append(entries, q.newEntry(pageLabel(up.FileName, p.Page, i+1, perPage[p.Page], seen), buf.Bytes()))
	}
	return entries
}

// pageLabel names a PDF image after its page. A page holding several images
// gets an -imgN suffix; an unknown page falls back to the image position.
func pageLabel(fileName string, page, position, onPage int, seen map[int]int) string {
	if page <= 0 {
		return fmt.Sprintf("%s#image%d", fileName, position)
	}
	if onPage <= 1 {
		return fmt.Sprintf("%s#page%d", fileName, page)
	}
	seen[page]++
	return fmt.Sprintf("%s#page%d-img%d", fileName, page, seen[page])
}

func (q *Queue) newEntry(name string, data []byte) *queueEntry {
	now := q.now()
	return &queueEntry{
		item: dto.QueueItem{
			ID:        uuid.New().String(),
			FileName:  name,
			MimeType:  mimetype.Detect(data).String(),
			Size:      len(data),
			Status:    dto.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		data: data,
	}
}

// Items returns a copy of every queued item in ingestion order.
func (q *Queue) Items() []dto.QueueItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	items := make([]dto.QueueItem, 0, len(q.entries))
	for _, e := range q.entries {
		items = append(items, copyItem(e.item))
	}
	return items
}

// Get returns a copy of one item.
func (q *Queue) Get(id string) (dto.QueueItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	e, ok := q.byID[id]
	if !ok {
		return dto.QueueItem{}, false
	}
	return copyItem(e.item), true
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

// Clear drops every item and its image bytes.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	q.byID = make(map[string]*queueEntry)
}

// eligible returns the ids of items a pass should process and how many were
// skipped because they already completed.
func (q *Queue) eligible() (ids []string, skipped int) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, e := range q.entries {
		if e.item.Status.Eligible() {
			ids = append(ids, e.item.ID)
		} else {
			skipped++
		}
	}
	return ids, skipped
}

func (q *Queue) payload(id string) (name string, data []byte, ok bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	e, ok := q.byID[id]
	if !ok {
		return "", nil, false
	}
	return e.item.FileName, e.data, true
}

// transition moves an item to next, applying mutate under the lock.
func (q *Queue) transition(id string, next dto.ItemStatus, mutate func(*dto.QueueItem)) (dto.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byID[id]
	if !ok {
		return dto.QueueItem{}, fmt.Errorf("queue item %s not found", id)
	}
	if e.item.Status != next && !e.item.Status.CanTransition(next) {
		return dto.QueueItem{}, fmt.Errorf("%w: %s -> %s", dto.ErrInvalidTransition, e.item.Status, next)
	}

	e.item.Status = next
	if mutate != nil {
		mutate(&e.item)
	}
	e.item.UpdatedAt = q.now()
	return copyItem(e.item), nil
}

func copyItem(item dto.QueueItem) dto.QueueItem {
	if item.Numbers != nil {
		item.Numbers = append([]string(nil), item.Numbers...)
	}
	return item
}
