package service

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFPage is one image pulled out of a PDF together with the page it sits on.
// Page is 0 when the page could not be determined.
type PDFPage struct {
	Page  int
	Image image.Image
}

// PDFProcessor pulls page images out of an uploaded PDF so each can be queued.
type PDFProcessor interface {
	ExtractPages(pdfData []byte) ([]PDFPage, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractPages(pdfData []byte) ([]PDFPage, error) {
	// Create a temporary directory for extraction
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()

	// nil selectedPages extracts from all pages
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	base := strings.TrimSuffix(filepath.Base(tempFile.Name()), ".pdf")

	var pages []PDFPage
	for _, f := range orderPageFiles(names, base) {
		imgFile, err := os.Open(filepath.Join(tempDir, f.name))
		if err != nil {
			continue
		}

		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		pages = append(pages, PDFPage{Page: f.page, Image: img})
	}

	return pages, nil
}

type pageFile struct {
	name string
	page int
}

// orderPageFiles sorts extracted image files by page number. pdfcpu names them
// <base>_<page>_<resource>.<ext>; names that do not follow that layout keep
// page 0 and sort after the numbered ones.
func orderPageFiles(names []string, base string) []pageFile {
	files := make([]pageFile, 0, len(names))
	for _, name := range names {
		files = append(files, pageFile{name: name, page: pageFromFileName(name, base)})
	}
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if (a.page == 0) != (b.page == 0) {
			return b.page == 0
		}
		if a.page != b.page {
			return a.page < b.page
		}
		return a.name < b.name
	})
	return files
}

func pageFromFileName(name, base string) int {
	rest, ok := strings.CutPrefix(name, base+"_")
	if !ok {
		return 0
	}
	digits, _, ok := strings.Cut(rest, "_")
	if !ok {
		return 0
	}
	page, err := strconv.Atoi(digits)
	if err != nil || page < 1 {
		return 0
	}
	return page
}
