package service

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

type stubPDF struct {
	pages []PDFPage
	err   error
	calls int
}

func (s *stubPDF) ExtractPages([]byte) ([]PDFPage, error) {
	s.calls++
	return s.pages, s.err
}

func grayPage(page int) PDFPage {
	return PDFPage{Page: page, Image: image.NewGray(image.Rect(0, 0, 2, 2))}
}

func uploads(t *testing.T, n int) []Upload {
	data := pngBytes(t, color.White)
	out := make([]Upload, n)
	for i := range out {
		out[i] = Upload{FileName: fmt.Sprintf("img-%02d.png", i+1), Data: data}
	}
	return out
}

func TestQueueCapDropsExcess(t *testing.T) {
	q := NewQueue(20, nil)

	accepted, dropped, rejected := q.Enqueue(uploads(t, 25))

	assert.Len(t, accepted, 20)
	assert.Equal(t, 5, dropped)
	assert.Empty(t, rejected)
	assert.Equal(t, 20, q.Len())
	assert.Equal(t, "img-01.png", accepted[0].FileName)
	assert.Equal(t, "img-20.png", accepted[19].FileName)

	// a later upload action gets its own allowance
	accepted, dropped, _ = q.Enqueue(uploads(t, 3))
	assert.Len(t, accepted, 3)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 23, q.Len())
}

func TestQueueRejectsUnsupportedFiles(t *testing.T) {
	q := NewQueue(0, nil)

	accepted, dropped, rejected := q.Enqueue([]Upload{
		{FileName: "notes.txt", Data: []byte("hello")},
		{FileName: "card.JPG", Data: []byte("whatever")},
	})

	assert.Len(t, accepted, 1)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, []string{"notes.txt"}, rejected)
}

func TestQueueNewItemsArePending(t *testing.T) {
	q := NewQueue(5, nil)
	accepted, _, _ := q.Enqueue(uploads(t, 1))

	item := accepted[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, dto.StatusPending, item.Status)
	assert.Equal(t, 0, item.Progress)
	assert.Equal(t, "image/png", item.MimeType)
}

func TestQueueExpandsPDFPages(t *testing.T) {
	q := NewQueue(5, &stubPDF{pages: []PDFPage{grayPage(1), grayPage(2)}})

	accepted, _, _ := q.Enqueue([]Upload{{FileName: "scan.pdf", Data: []byte("%PDF-1.4")}})

	require.Len(t, accepted, 2)
	assert.Equal(t, "scan.pdf#page1", accepted[0].FileName)
	assert.Equal(t, "scan.pdf#page2", accepted[1].FileName)
	assert.Equal(t, "image/png", accepted[1].MimeType)
}

func TestQueueLabelsPDFImagesByPage(t *testing.T) {
	// page 2 has no image, page 3 has two
	pages := []PDFPage{grayPage(1), grayPage(3), grayPage(3), grayPage(0)}
	q := NewQueue(10, &stubPDF{pages: pages})

	accepted, _, _ := q.Enqueue([]Upload{{FileName: "scan.pdf", Data: []byte("%PDF-1.4")}})

	require.Len(t, accepted, 4)
	assert.Equal(t, "scan.pdf#page1", accepted[0].FileName)
	assert.Equal(t, "scan.pdf#page3-img1", accepted[1].FileName)
	assert.Equal(t, "scan.pdf#page3-img2", accepted[2].FileName)
	assert.Equal(t, "scan.pdf#image4", accepted[3].FileName)
}

func TestQueueSkipsPDFExtractionWhenCapReached(t *testing.T) {
	pdf := &stubPDF{pages: []PDFPage{grayPage(1)}}
	q := NewQueue(2, pdf)

	ups := append(uploads(t, 2), Upload{FileName: "scan.pdf", Data: []byte("%PDF-1.4")})
	accepted, dropped, _ := q.Enqueue(ups)

	assert.Len(t, accepted, 2)
	assert.Equal(t, 1, dropped)
	assert.Zero(t, pdf.calls)
}

func TestOrderPageFiles(t *testing.T) {
	names := []string{
		"upload-42_10_Im0.png",
		"upload-42_2_Im3.jpg",
		"upload-42_2_Im1.png",
		"stray.png",
		"upload-42_1_Im_a.png",
		"upload-42_03_Im2.png",
	}

	files := orderPageFiles(names, "upload-42")

	var got []string
	var pages []int
	for _, f := range files {
		got = append(got, f.name)
		pages = append(pages, f.page)
	}
	assert.Equal(t, []string{
		"upload-42_1_Im_a.png",
		"upload-42_2_Im1.png",
		"upload-42_2_Im3.jpg",
		"upload-42_03_Im2.png",
		"upload-42_10_Im0.png",
		"stray.png",
	}, got)
	assert.Equal(t, []int{1, 2, 2, 3, 10, 0}, pages)
}

func TestQueueKeepsUnreadablePDFAsSingleItem(t *testing.T) {
	q := NewQueue(5, &stubPDF{err: errors.New("corrupt")})

	accepted, _, _ := q.Enqueue([]Upload{{FileName: "scan.pdf", Data: []byte("junk")}})

	require.Len(t, accepted, 1)
	assert.Equal(t, "scan.pdf", accepted[0].FileName)
}

func TestQueueTransitions(t *testing.T) {
	q := NewQueue(5, nil)
	accepted, _, _ := q.Enqueue(uploads(t, 1))
	id := accepted[0].ID

	_, err := q.transition(id, dto.StatusCompleted, nil)
	assert.ErrorIs(t, err, dto.ErrInvalidTransition)

	_, err = q.transition(id, dto.StatusProcessing, nil)
	require.NoError(t, err)
	_, err = q.transition(id, dto.StatusError, func(it *dto.QueueItem) { it.Error = "boom" })
	require.NoError(t, err)
	_, err = q.transition(id, dto.StatusPending, nil)
	assert.ErrorIs(t, err, dto.ErrInvalidTransition)

	_, err = q.transition(id, dto.StatusProcessing, nil)
	require.NoError(t, err)
	item, err := q.transition(id, dto.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusCompleted, item.Status)

	_, err = q.transition(id, dto.StatusProcessing, nil)
	assert.ErrorIs(t, err, dto.ErrInvalidTransition)
}

func TestQueueClear(t *testing.T) {
	q := NewQueue(5, nil)
	accepted, _, _ := q.Enqueue(uploads(t, 2))
	q.Clear()

	assert.Equal(t, 0, q.Len())
	_, ok := q.Get(accepted[0].ID)
	assert.False(t, ok)
}

func TestItemStatusRules(t *testing.T) {
	assert.True(t, dto.StatusPending.Eligible())
	assert.True(t, dto.StatusError.Eligible())
	assert.False(t, dto.StatusCompleted.Eligible())
	assert.False(t, dto.StatusProcessing.Eligible())
	assert.False(t, dto.ItemStatus("done").Valid())
}
