package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const filePrefix = "interactions-"

// numberedFile extracts the NN suffix of a size-rotated file.
var numberedFile = regexp.MustCompile(`_(\d{2})\.log$`)

// RotatingWriter is an io.Writer that rotates by ISO week and by size. The
// base file for a week is interactions-YYYY-Www.log; when it outgrows
// maxFileSize, writing continues in _01, _02 and so on. Files older than the
// retention window are swept once a day.
type RotatingWriter struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu       sync.Mutex
	file     *os.File
	week     string
	size     int64
	sequence int

	cancel    context.CancelFunc
	sweepDone chan struct{}
}

// NewRotatingWriter starts the writer and its retention sweeper. A
// maxFileSize of 0 disables size rotation.
func NewRotatingWriter(dir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	ctx, cancel := context.WithCancel(context.Background())
	w := &RotatingWriter{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		cancel:      cancel,
		sweepDone:   make(chan struct{}),
	}
	go w.sweepLoop(ctx)
	return w
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	week := weekKey(time.Now())
	switch {
	case w.file == nil || w.week != week:
		if err := w.openWeek(week); err != nil {
			return 0, err
		}
	case w.maxFileSize > 0 && w.size+int64(len(p)) > w.maxFileSize:
		if err := w.openNext(week); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// openWeek resumes the newest file of the given week, so restarts append
// instead of truncating the sequence.
func (w *RotatingWriter) openWeek(week string) error {
	seq, size := w.newestSequence(week)
	if w.maxFileSize > 0 && size >= w.maxFileSize {
		seq++
		size = 0
	}
	return w.open(week, seq, size)
}

// openNext moves to the following sequence number after a size overflow.
func (w *RotatingWriter) openNext(week string) error {
	return w.open(week, w.sequence+1, 0)
}

func (w *RotatingWriter) open(week string, seq int, size int64) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			slog.Warn("closing rotated log file", "error", err)
		}
		w.file = nil
	}
	path := filepath.Join(w.dir, w.fileName(week, seq))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	w.file = file
	w.week = week
	w.sequence = seq
	w.size = size
	return nil
}

func (w *RotatingWriter) fileName(week string, seq int) string {
	if seq == 0 {
		return fmt.Sprintf("%s%s.log", filePrefix, week)
	}
	return fmt.Sprintf("%s%s_%02d.log", filePrefix, week, seq)
}

// newestSequence finds the highest existing sequence for a week and its size.
func (w *RotatingWriter) newestSequence(week string) (int, int64) {
	matches, _ := filepath.Glob(filepath.Join(w.dir, filePrefix+week+"*.log"))
	seq := 0
	var size int64
	for _, match := range matches {
		n := 0
		if m := numberedFile.FindStringSubmatch(filepath.Base(match)); m != nil {
			n, _ = strconv.Atoi(m[1])
		}
		if n < seq {
			continue
		}
		seq = n
		size = 0
		if info, err := os.Stat(match); err == nil {
			size = info.Size()
		}
	}
	return seq, size
}

// sweepLoop deletes expired log files once a day until Close.
func (w *RotatingWriter) sweepLoop(ctx context.Context) {
	defer close(w.sweepDone)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *RotatingWriter) sweep() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		slog.Warn("reading log directory for retention sweep", "error", err)
		return
	}
	cutoff := time.Now().Add(-w.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err == nil {
			removed++
		}
	}
	if removed > 0 {
		slog.Info("removed expired log files", "count", removed)
	}
}

// Close stops the sweeper and closes the current file.
func (w *RotatingWriter) Close() error {
	w.cancel()
	select {
	case <-w.sweepDone:
	case <-time.After(2 * time.Second):
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// multiHandler fans one slog record out to every underlying handler.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
