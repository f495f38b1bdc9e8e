package cmd

import (
	"context"
	"fmt"

	"github.com/Aashish23092/ocr-phone-extractor/config"
	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
	"github.com/Aashish23092/ocr-phone-extractor/service"
	"github.com/Aashish23092/ocr-phone-extractor/storage"
)

// app holds the wired services shared by every command.
type app struct {
	cfg     *config.Config
	kv      storage.KVStore
	session *service.Session
	batch   *service.BatchService
	exports *service.ExportService
}

// newApp loads configuration and wires storage, session and services. The OCR
// backend is only built when withOCR is set, so commands that never run a pass
// work without OCR credentials.
func newApp(ctx context.Context, cfgPath string, withOCR bool) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	kv, err := storage.NewKVStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}

	session := service.NewSession(kv, cfg.Export.HistoryCapacity)
	if err := session.Load(ctx); err != nil {
		kv.Close()
		return nil, err
	}

	saver, err := storage.NewFileSaver(ctx, cfg.Files)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to set up %s file saver: %w", cfg.Files.Backend, err)
	}

	mode, err := dto.ParseExportMode(cfg.Export.Mode)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("export.mode: %w", err)
	}

	var extractor service.TextExtractor
	if withOCR {
		extractor, err = service.NewTextExtractor(cfg.OCR)
		if err != nil {
			kv.Close()
			return nil, err
		}
	}

	var qr *service.QRScanner
	if cfg.Pipeline.ScanQR {
		qr = service.NewQRScanner()
	}

	queue := service.NewQueue(cfg.Pipeline.MaxPerUpload, service.NewPDFProcessor())
	batch := service.NewBatchService(queue, session, service.NewImageEncoder(cfg.Pipeline.Enhance), extractor, qr)

	return &app{
		cfg:     cfg,
		kv:      kv,
		session: session,
		batch:   batch,
		exports: service.NewExportService(session, saver, mode),
	}, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}
