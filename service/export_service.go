package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/storage"
)

// ExportService turns the session result set into contact-import CSV files and
// keeps the exact bytes of each export in the session history.
type ExportService struct {
	session     *Session
	saver       storage.FileSaver
	defaultMode dto.ExportMode
	now         func() time.Time
}

func NewExportService(session *Session, saver storage.FileSaver, defaultMode dto.ExportMode) *ExportService {
	if defaultMode == "" {
		defaultMode = dto.ExportModeStandard
	}
	return &ExportService{
		session:     session,
		saver:       saver,
		defaultMode: defaultMode,
		now:         time.Now,
	}
}

// FormatCSV renders canonical numbers as CSV. Output depends only on its inputs.
//
//	standard: Number,Phone Number / 1,919656501307
//	google:   Name,Phone 1 - Value / Contact 1,+919656501307
func FormatCSV(numbers []string, mode dto.ExportMode) ([]byte, error) {
	var header []string
	var row func(i int, n string) []string

	switch mode {
	case dto.ExportModeStandard:
		header = []string{"Number", "Phone Number"}
		row = func(i int, n string) []string { return []string{strconv.Itoa(i), n} }
	case dto.ExportModeGoogle:
		header = []string{"Name", "Phone 1 - Value"}
		row = func(i int, n string) []string { return []string{"Contact " + strconv.Itoa(i), "+" + n} }
	default:
		return nil, fmt.Errorf("unknown export mode %q", mode)
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, n := range numbers {
		if err := w.Write(row(i+1, n)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Export serializes the current result set, records it in history and hands the
// file to the saver. An empty mode uses the configured default.
func (s *ExportService) Export(ctx context.Context, mode dto.ExportMode) (dto.ExportRecord, error) {
	if mode == "" {
		mode = s.defaultMode
	}

	numbers := s.session.Canonicals()
	if len(numbers) == 0 {
		return dto.ExportRecord{}, dto.ErrNothingToExport
	}

	content, err := FormatCSV(numbers, mode)
	if err != nil {
		return dto.ExportRecord{}, err
	}

	record, err := s.session.RecordExport(ctx, func(counter int) (dto.ExportRecord, error) {
		return dto.ExportRecord{
			ID:        uuid.New().String(),
			FileName:  fmt.Sprintf("%d.csv", counter),
			CreatedAt: s.now(),
			Count:     len(numbers),
			Mode:      mode,
			Content:   string(content),
		}, nil
	})
	if err != nil {
		return record, err
	}

	slog.Info("export created", "file", record.FileName, "count", record.Count, "mode", record.Mode)
	s.save(ctx, []byte(record.Content), record.FileName)
	return record, nil
}

// save hands a file to the saver; failures are logged, never returned.
func (s *ExportService) save(ctx context.Context, content []byte, fileName string) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, content, fileName); err != nil {
		slog.Error("failed to save export", "file", fileName, "error", err)
	}
}

// History returns past exports, most recent first.
func (s *ExportService) History() []dto.ExportRecord {
	return s.session.History()
}

// NextCounter is the number the next export file will carry.
func (s *ExportService) NextCounter() int {
	return s.session.NextCounter()
}

// Download returns the stored record, whose content is the exact bytes exported.
func (s *ExportService) Download(id string) (dto.ExportRecord, error) {
	return s.session.FindExport(id)
}

// ClearHistory drops all stored records.
func (s *ExportService) ClearHistory(ctx context.Context) error {
	return s.session.ClearHistory(ctx)
}

// RenderXLSX converts a stored export into a one-sheet workbook.
func (s *ExportService) RenderXLSX(id string) (string, []byte, error) {
	record, err := s.session.FindExport(id)
	if err != nil {
		return "", nil, err
	}

	rows, err := csv.NewReader(strings.NewReader(record.Content)).ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read stored csv: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Contacts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", nil, err
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return "", nil, err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return "", nil, err
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 20); err != nil {
		return "", nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	name := strings.TrimSuffix(record.FileName, ".csv") + ".xlsx"
	return name, buf.Bytes(), nil
}
