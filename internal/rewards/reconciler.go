package rewards

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReconcilerConfig tunes the reconciliation loop. The zero value selects
// production defaults; tests inject millisecond windows.
type ReconcilerConfig struct {
	// BurstDelays are the re-read delays issued right after Start, to catch
	// writes racing the initial read.
	BurstDelays []time.Duration
	// DebounceWindow collapses a burst of bus events into one re-read.
	DebounceWindow time.Duration
	// PollInterval is the low-frequency authoritative fallback poll, so
	// convergence never depends solely on event delivery.
	PollInterval time.Duration
	// WatchPath, when set, is a file watched for cross-process writes that
	// cannot reach this process's ChangeBus.
	WatchPath string
}

func (c *ReconcilerConfig) applyDefaults() {
	if c.BurstDelays == nil {
		c.BurstDelays = []time.Duration{
			200 * time.Millisecond,
			500 * time.Millisecond,
			time.Second,
			2 * time.Second,
		}
	}
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = 150 * time.Millisecond
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
}

// reconciler drives a refresh function until the displayed state converges
// with the ledger: an immediate read on start, a short burst of re-reads
// with increasing delays, then steady state combining debounced bus-event
// re-reads, a fallback poll, and an optional file watch. The ledger has no
// cross-process transaction, so this loop is what turns a last-writer-wins
// register into something that eventually shows the truth everywhere.
type reconciler struct {
	cfg     ReconcilerConfig
	bus     *ChangeBus
	logger  *slog.Logger
	refresh func()

	mu       sync.Mutex
	stopped  bool
	unsub    func()
	burst    []*time.Timer
	debounce *time.Timer
	stopCh   chan struct{}
	wg       sync.WaitGroup
	watcher  *fsnotify.Watcher
}

func newReconciler(cfg ReconcilerConfig, bus *ChangeBus, logger *slog.Logger, refresh func()) *reconciler {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &reconciler{cfg: cfg, bus: bus, logger: logger, refresh: refresh, stopCh: make(chan struct{})}
}

func (r *reconciler) start() {
	r.refresh()

	r.mu.Lock()
	for _, d := range r.cfg.BurstDelays {
		r.burst = append(r.burst, time.AfterFunc(d, r.refreshIfRunning))
	}
	r.mu.Unlock()

	// Every event is a hint, regardless of kind or payload.
	r.unsub = r.bus.Subscribe(func(Event) { r.scheduleRefresh() })

	r.wg.Add(1)
	go r.poll()

	if r.cfg.WatchPath != "" {
		r.startWatch()
	}
}

// scheduleRefresh arms the debounce timer unless one is already pending, so
// a burst of events inside the window costs a single re-read.
func (r *reconciler) scheduleRefresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || r.debounce != nil {
		return
	}
	r.debounce = time.AfterFunc(r.cfg.DebounceWindow, func() {
		r.mu.Lock()
		r.debounce = nil
		stopped := r.stopped
		r.mu.Unlock()
		if !stopped {
			r.refresh()
		}
	})
}

func (r *reconciler) refreshIfRunning() {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if !stopped {
		r.refresh()
	}
}

func (r *reconciler) poll() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.refreshIfRunning()
		case <-r.stopCh:
			return
		}
	}
}

func (r *reconciler) startWatch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		r.logger.Warn("rewards: file watch unavailable, relying on poll", "err", err)
		return
	}
	if err := w.Add(r.cfg.WatchPath); err != nil {
		// The file may not exist until the first write; the poll covers it.
		r.logger.Warn("rewards: cannot watch ledger file", "path", r.cfg.WatchPath, "err", err)
		_ = w.Close()
		return
	}
	r.watcher = w
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					r.scheduleRefresh()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.logger.Warn("rewards: ledger watch error", "err", err)
			case <-r.stopCh:
				return
			}
		}
	}()
}

// stop cancels every timer, the poll, the watch, and the bus subscription.
// Safe to call more than once.
func (r *reconciler) stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	for _, t := range r.burst {
		t.Stop()
	}
	r.burst = nil
	if r.debounce != nil {
		r.debounce.Stop()
		r.debounce = nil
	}
	r.mu.Unlock()

	close(r.stopCh)
	if r.unsub != nil {
		r.unsub()
	}
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
	r.wg.Wait()
}
