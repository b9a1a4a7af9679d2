package scan

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dupenorris/pkg/fingerprint"
	"github.com/sdejongh/dupenorris/pkg/logging"
	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/notes"
	"github.com/sdejongh/dupenorris/pkg/ratelimit"
	"github.com/sdejongh/dupenorris/pkg/suffix"
)

const taskQueueSize = 256

// Scanner orchestrates duplicate detection: it walks a directory tree,
// fingerprints items through a bounded worker pool, and funnels results
// into a single-writer grouper.
type Scanner struct {
	cfg     Config
	fp      *fingerprint.Fingerprinter
	matcher *suffix.Matcher
	logger  logging.Logger
}

// NewScanner creates a scanner for the given configuration.
func NewScanner(cfg Config, logger logging.Logger) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	if logger == nil {
		logger = logging.NewNull()
	}

	fp := fingerprint.New(cfg.ChunkSize)
	if cfg.BandwidthLimit > 0 {
		limiter := ratelimit.NewLimiter(cfg.BandwidthLimit)
		fp.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.Wrap(rc, limiter)
		})
	}

	return &Scanner{
		cfg:     cfg,
		fp:      fp,
		matcher: cfg.matcher(),
		logger:  logger,
	}, nil
}

// Scan starts scanning root and returns the event stream. Fatal
// traversal errors (root missing, root not a directory) are returned
// immediately, before any event is emitted. The stream ends with
// EventCompleted carrying the frozen ScanResult; a cancelled scan
// freezes the partial result with Completed=false. Callers must drain
// the channel.
func (s *Scanner) Scan(ctx context.Context, root string) (<-chan Event, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &models.TraversalError{Root: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &models.TraversalError{Root: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &models.TraversalError{Root: absRoot, Err: fs.ErrInvalid}
	}

	events := make(chan Event, taskQueueSize)
	go s.run(ctx, absRoot, events)
	return events, nil
}

// ScanAll runs a scan to completion and returns the frozen result,
// draining all events. Convenience for callers that do not render
// progress.
func (s *Scanner) ScanAll(ctx context.Context, root string) (*models.ScanResult, error) {
	events, err := s.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	var result *models.ScanResult
	for ev := range events {
		if ev.Type == EventCompleted {
			result = ev.Result
		}
	}
	return result, nil
}

// outcome carries one fingerprinting result from a worker to the collector.
type outcome struct {
	item  *models.Item
	bytes int64
	err   error
}

// run drives the walk, the worker pool and the collector, then freezes
// and publishes the result.
func (s *Scanner) run(ctx context.Context, root string, events chan<- Event) {
	defer close(events)

	result := models.NewScanResult(root)
	grouper := NewGrouper(s.matcher)

	s.logger.Info(ctx, "scan started", logging.Fields{
		"scan_id": result.ID,
		"root":    root,
		"workers": s.cfg.Workers,
		"notes":   s.cfg.Notes,
	})

	tasks := make(chan *models.Item, taskQueueSize)
	results := make(chan outcome, taskQueueSize)

	var discovered, skipped atomic.Int64
	var walkErr error

	// Producer: walk the tree and queue items.
	go func() {
		walkErr = s.walk(ctx, root, tasks, results, events, &discovered, &skipped)
		close(tasks)
	}()

	// Bounded worker pool for fingerprinting. Each queued item is
	// fingerprinted exactly once.
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Workers)
		for item := range tasks {
			if gctx.Err() != nil {
				break
			}
			item := item
			g.Go(func() error {
				_, n, err := s.fingerprintItem(gctx, item)
				results <- outcome{item: item, bytes: n, err: err}
				return nil
			})
		}
		g.Wait() //nolint:errcheck // workers never return errors
		close(results)
	}()

	// Collector: single writer for the result and the grouper.
	for out := range results {
		if out.err != nil {
			if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
				continue
			}
			result.RecordError(out.item.Path, out.err)
			s.logger.Warn(ctx, "item unreadable", logging.Fields{
				"path":  out.item.Path,
				"error": out.err.Error(),
			})
			events <- Event{Type: EventItemError, Item: out.item, Err: out.err}
			continue
		}

		result.Items = append(result.Items, out.item)
		result.Stats.ItemsFingerprinted++
		result.Stats.BytesHashed += out.bytes
		events <- Event{Type: EventItemFingerprinted, Item: out.item}

		if paths, ok := grouper.Add(out.item); ok {
			events <- Event{Type: EventGroupUpdated, Item: out.item, GroupPaths: paths}
		}
	}

	result.Stats.ItemsDiscovered = int(discovered.Load())
	result.Stats.ItemsSkipped = int(skipped.Load())
	result.Groups = grouper.Finalize()

	completed := ctx.Err() == nil && walkErr == nil
	result.Freeze(completed)

	s.logger.Info(ctx, "scan finished", logging.Fields{
		"scan_id":      result.ID,
		"completed":    completed,
		"items":        result.Stats.ItemsFingerprinted,
		"groups":       len(result.Groups),
		"unreadable":   result.Stats.ItemsUnreadable,
		"bytes_hashed": result.Stats.BytesHashed,
		"duration":     result.Stats.Duration.String(),
	})

	events <- Event{Type: EventCompleted, Result: result}
}

// walk traverses the tree, applying filters and queuing accepted items.
// Per-entry errors are routed to the collector as outcomes; only a
// failure of the traversal itself is returned.
func (s *Scanner) walk(
	ctx context.Context,
	root string,
	tasks chan<- *models.Item,
	results chan<- outcome,
	events chan<- Event,
	discovered, skipped *atomic.Int64,
) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			if path == root {
				return err
			}
			results <- outcome{
				item: &models.Item{Path: path},
				err:  &models.UnreadableItemError{Path: path, Err: err},
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.cfg.MaxDepth > 0 && depthOf(relPath) >= s.cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !s.cfg.FollowSymlinks {
				skipped.Add(1)
				return nil
			}
			// Follow file symlinks only; symlinked directories are
			// not descended, to avoid walk loops.
			target, statErr := os.Stat(path)
			if statErr != nil {
				results <- outcome{
					item: &models.Item{Path: path},
					err:  &models.UnreadableItemError{Path: path, Err: statErr},
				}
				return nil
			}
			if target.IsDir() {
				skipped.Add(1)
				return nil
			}
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			// Symlink targets were already stat'ed above.
			if target, statErr := os.Stat(path); statErr == nil {
				info = target
			} else {
				results <- outcome{
					item: &models.Item{Path: path},
					err:  &models.UnreadableItemError{Path: path, Err: infoErr},
				}
				return nil
			}
		}

		if ok, _ := s.cfg.accepts(relPath, info.Size()); !ok {
			skipped.Add(1)
			return nil
		}

		item := &models.Item{
			Path:         path,
			RelativePath: relPath,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
		}
		discovered.Add(1)
		// Workers write Fingerprint and Note after discovery, so the
		// event carries a snapshot rather than the queued pointer.
		snapshot := *item
		events <- Event{Type: EventItemDiscovered, Item: &snapshot}

		select {
		case <-ctx.Done():
			return fs.SkipAll
		case tasks <- item:
		}
		return nil
	})
}

// fingerprintItem computes an item's signature: raw bytes for files,
// the normalized document for notes.
func (s *Scanner) fingerprintItem(ctx context.Context, item *models.Item) (string, int64, error) {
	if s.cfg.Notes && s.cfg.isNote(item.Path) {
		note, err := notes.Load(item.Path)
		if err != nil {
			return "", 0, err
		}
		item.Note = note
		item.Fingerprint = s.fp.Note(note)
		return item.Fingerprint, item.Size, nil
	}

	sig, n, err := s.fp.File(ctx, item.Path)
	if err != nil {
		return "", n, err
	}
	item.Fingerprint = sig
	return sig, n, nil
}
