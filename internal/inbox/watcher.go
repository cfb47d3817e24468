package inbox

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marchant/folium/internal/bookservice"
)

// EventCallback is called after the watcher processes an inbox file.
// kind is one of "imported", "skipped".
type EventCallback func(kind string, detail string)

// settleDelay debounces file events so a manuscript is read only after
// the writer has finished dropping it.
const settleDelay = 500 * time.Millisecond

// Watch drains the inbox, then starts an fsnotify watcher on it and
// imports dropped manuscripts until ctx is cancelled. Each file becomes
// a book titled after the file name, imported as version "1" (or the
// next free name when the book already has one). Files whose content
// was imported before are archived without a new import. Files that
// fail to import stay in the inbox for the next attempt.
func Watch(ctx context.Context, svc *bookservice.Service, dir *Dir, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir.Root()); err != nil {
		return err
	}

	logger.Info("inbox: started", slog.String("root", dir.Root()))

	Drain(ctx, svc, dir, logger, cb)

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleDrain := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case <-settleCh:
			Drain(ctx, svc, dir, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !IsManuscript(ev.Name) {
				continue
			}
			scheduleDrain()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

// Drain processes every pending file in the inbox once.
func Drain(ctx context.Context, svc *bookservice.Service, dir *Dir, logger *slog.Logger, cb EventCallback) {
	names, err := dir.Scan()
	if err != nil {
		logger.Warn("inbox: scan failed", slog.String("error", err.Error()))
		return
	}
	for _, name := range names {
		processFile(ctx, svc, dir, logger, cb, name)
	}
}

func processFile(ctx context.Context, svc *bookservice.Service, dir *Dir, logger *slog.Logger, cb EventCallback, name string) {
	text, err := dir.Read(name)
	if err != nil {
		logger.Warn("inbox: read failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	if strings.TrimSpace(text) == "" {
		// Likely still being written; the settle timer will retry.
		return
	}

	seen, err := svc.AlreadyImported(text)
	if err != nil {
		logger.Warn("inbox: dedup check failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	if seen {
		if err := dir.Archive(name); err != nil {
			logger.Warn("inbox: archive failed", slog.String("file", name), slog.String("error", err.Error()))
			return
		}
		logger.Info("inbox: skipped duplicate", slog.String("file", name))
		if cb != nil {
			cb("skipped", name)
		}
		return
	}

	title := TitleFor(name)
	res, err := svc.ImportFullManuscript(ctx, title, "", "1", text)
	if err != nil {
		logger.Warn("inbox: import failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	if err := dir.Archive(name); err != nil {
		logger.Warn("inbox: archive failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	logger.Info("inbox: imported",
		slog.String("file", name),
		slog.String("book", title),
		slog.String("version", res.VersionName),
		slog.Int("chapters", res.ChaptersImported))
	if cb != nil {
		cb("imported", name)
	}
}
