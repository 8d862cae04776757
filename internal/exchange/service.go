package exchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/store"
)

// streamSource names the source of ImportFrom in results and logs.
const streamSource = "stream"

// Service imports and exports contacts.
type Service struct {
	store   store.Store
	files   FileSystem
	metrics *metrics.Set
	imports *Gate
}

// Option configures a Service.
type Option func(*Service)

// WithImportWait sets how long an import waits while another one runs.
func WithImportWait(d time.Duration) Option {
	return func(s *Service) {
		s.imports = NewGate(1, d)
	}
}

// NewService returns a Service over st. files resolves paths for Import
// and Export; set receives the import and export counters and may be nil.
func NewService(st store.Store, files FileSystem, set *metrics.Set, opts ...Option) *Service {
	if set == nil {
		set = metrics.NewSet()
	}
	s := &Service{
		store:   st,
		files:   files,
		metrics: set,
		imports: NewGate(1, DefaultImportWait),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportStatus reports running imports.
func (s *Service) ImportStatus() GateStatus {
	return s.imports.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// Import reads the exchange file at path and adds every row whose email
// is not yet in the store. A missing or unreadable file fails with
// ErrFileNotFound before the store is used.
func (s *Service) Import(ctx context.Context, path string) (*core.ImportResult, error) {
	data, err := s.files.ReadFile(ctx, path)
	if err != nil {
		s.metrics.GetOrCreateCounter(`contacts_import_failures_total{reason="read"}`).Inc()
		return nil, err
	}
	return s.importData(ctx, data, path)
}

// ImportFrom is Import for an already opened stream.
func (s *Service) ImportFrom(ctx context.Context, r io.Reader) (*core.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		s.metrics.GetOrCreateCounter(`contacts_import_failures_total{reason="read"}`).Inc()
		return nil, fmt.Errorf("read %s: %w: %w", streamSource, ErrFileNotFound, err)
	}
	return s.importData(ctx, data, streamSource)
}

func (s *Service) importData(ctx context.Context, data []byte, source string) (*core.ImportResult, error) {
	start := time.Now()
	result := &core.ImportResult{
		BatchID: uuid.NewString(),
		Source:  source,
	}
	log := logging.WithFields(ctx, "batch_id", result.BatchID, "source", source)
	log.Info("import started", "bytes", len(data))

	records := parseRecords(data)

	if err := s.imports.Acquire(ctx); err != nil {
		s.metrics.GetOrCreateCounter(`contacts_import_failures_total{reason="busy"}`).Inc()
		log.Warn("import not started", "error", err)
		return nil, fmt.Errorf("import %s: %w", source, err)
	}
	defer s.imports.Release()

	// The first record is the header.
	if len(records) > 0 {
		records = records[1:]
	}

	for i, rec := range records {
		row := i + 2

		if len(rec) < FieldCount {
			result.Discarded++
			log.Debug("row discarded", "row", row, "fields", len(rec))
			continue
		}

		existing, err := s.store.List(ctx)
		if err != nil {
			return s.failImport(result, start, log, row, err)
		}
		if containsEmail(existing, rec[colEmail]) {
			result.Skipped++
			log.Debug("row skipped, email exists", "row", row)
			continue
		}

		if _, err := s.store.Create(ctx, contactFromRecord(rec)); err != nil {
			return s.failImport(result, start, log, row, err)
		}
		result.Imported++
	}

	result.Duration = time.Since(start)
	s.countImport(result)
	log.Info("import completed",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"discarded", result.Discarded,
		"duration", result.Duration,
	)
	return result, nil
}

// failImport finishes an import stopped by a storage failure. The partial
// result is returned with the error.
func (s *Service) failImport(result *core.ImportResult, start time.Time, log *slog.Logger, row int, err error) (*core.ImportResult, error) {
	result.Duration = time.Since(start)
	s.countImport(result)
	s.metrics.GetOrCreateCounter(`contacts_import_failures_total{reason="storage"}`).Inc()
	log.Error("import aborted",
		"row", row,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"error", err,
	)
	return result, fmt.Errorf("import %s: row %d: %w", result.Source, row, err)
}

func (s *Service) countImport(result *core.ImportResult) {
	s.metrics.GetOrCreateCounter(`contacts_import_rows_total{result="imported"}`).Add(result.Imported)
	s.metrics.GetOrCreateCounter(`contacts_import_rows_total{result="skipped"}`).Add(result.Skipped)
	s.metrics.GetOrCreateCounter(`contacts_import_rows_total{result="discarded"}`).Add(result.Discarded)
}

// containsEmail reports whether any contact shares email's dedup key.
func containsEmail(contacts []*core.Contact, email string) bool {
	key := core.NormalizeEmail(email)
	for _, c := range contacts {
		if c.EmailKey() == key {
			return true
		}
	}
	return false
}

// Export writes every contact to path, replacing its content. An
// unwritable destination fails with ErrWriteFailure.
func (s *Service) Export(ctx context.Context, path string) (*core.ExportResult, error) {
	var buf bytes.Buffer
	result, err := s.exportTo(ctx, &buf, path)
	if err != nil {
		return nil, err
	}

	if err := s.files.WriteFile(ctx, path, buf.Bytes()); err != nil {
		s.metrics.GetOrCreateCounter(`contacts_export_failures_total{reason="write"}`).Inc()
		logging.WithFields(ctx, "batch_id", result.BatchID).Error("export write failed", "error", err)
		return nil, err
	}
	return result, nil
}

// ExportTo writes every contact to w.
func (s *Service) ExportTo(ctx context.Context, w io.Writer) (*core.ExportResult, error) {
	return s.exportTo(ctx, w, streamSource)
}

func (s *Service) exportTo(ctx context.Context, w io.Writer, destination string) (*core.ExportResult, error) {
	start := time.Now()
	result := &core.ExportResult{
		BatchID:     uuid.NewString(),
		Destination: destination,
	}
	log := logging.WithFields(ctx, "batch_id", result.BatchID, "destination", destination)

	contacts, err := s.store.List(ctx)
	if err != nil {
		s.metrics.GetOrCreateCounter(`contacts_export_failures_total{reason="storage"}`).Inc()
		log.Error("export aborted", "error", err)
		return nil, fmt.Errorf("export %s: %w", destination, err)
	}

	cw := &countingWriter{w: w}
	if err := writeRecords(cw, contacts); err != nil {
		s.metrics.GetOrCreateCounter(`contacts_export_failures_total{reason="write"}`).Inc()
		return nil, fmt.Errorf("export %s: %w: %w", destination, ErrWriteFailure, err)
	}

	result.Rows = len(contacts)
	result.Bytes = cw.n
	result.Duration = time.Since(start)
	s.metrics.GetOrCreateCounter(`contacts_export_rows_total`).Add(result.Rows)
	log.Info("export completed", "rows", result.Rows, "bytes", result.Bytes, "duration", result.Duration)
	return result, nil
}

// countingWriter counts bytes passed to w.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
