package tracking

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Geolocation failure taxonomy, mapped from the device capability's
// native error codes.
var (
	// ErrUnsupported means the device has no geolocation capability at
	// all. Blocks the feature entirely.
	ErrUnsupported = errors.New("location tracking is not supported on this device")

	// ErrPermissionDenied means the user declined location access. Not
	// retryable until access is granted again.
	ErrPermissionDenied = errors.New("location access denied")

	// ErrUnavailable means no fix could be obtained right now. Transient.
	ErrUnavailable = errors.New("location information unavailable")

	// ErrTimeout means the device did not produce a fix in time. Transient.
	ErrTimeout = errors.New("location request timed out")
)

// Fatal reports whether err cannot be recovered without user action.
func Fatal(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnsupported)
}

// Position is one device fix in decimal degrees.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"` // meters
	Heading   *float64  `json:"heading,omitempty"`  // degrees
	Speed     *float64  `json:"speed,omitempty"`    // m/s
	Timestamp time.Time `json:"timestamp"`
}

// Options mirror the geolocation request knobs: a hardware-read timeout
// and the maximum acceptable age of a cached fix.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Update is one element of a watch stream: either a position or a
// classified error. Errors do not end the stream unless they are fatal.
type Update struct {
	Position Position
	Err      error
}

// PositionSource abstracts the device position capability: a one-shot
// fetch and a continuous watch.
type PositionSource interface {
	// Current returns a single fix. A cached fix younger than
	// opts.MaximumAge may be returned without a new hardware read;
	// otherwise the call waits up to opts.Timeout for one.
	Current(ctx context.Context, opts Options) (Position, error)

	// Watch starts a continuous stream of updates. Callers own the
	// returned handle and must Stop it; at most one live watch per
	// logical session is the caller's obligation, enforced by Session.
	Watch(opts Options) (*Watch, error)
}

// Watch is a running position stream. Stop is idempotent and safe on a
// nil handle.
type Watch struct {
	updates chan Update
	stop    func()
	once    sync.Once
}

// Updates returns the stream channel. It is closed when the watch stops.
func (w *Watch) Updates() <-chan Update {
	return w.updates
}

func (w *Watch) Stop() {
	if w == nil {
		return
	}
	w.once.Do(w.stop)
}

// ReportSource is the production PositionSource: the device pushes fixes
// into it over the API (Report/Fail) and the session consumes them as a
// stream. Tests drive it with synthetic sequences the same way.
type ReportSource struct {
	mu       sync.Mutex
	last     *Position
	watchers map[int]chan Update
	waiters  []chan Update
	nextID   int
}

func NewReportSource() *ReportSource {
	return &ReportSource{watchers: make(map[int]chan Update)}
}

// Report feeds a device fix into the source: it becomes the cached fix
// and is delivered to the live watch and any pending one-shot calls.
func (s *ReportSource) Report(pos Position) {
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}
	s.dispatch(Update{Position: pos})
}

// Fail feeds a device error into the source, classified per the error
// taxonomy above.
func (s *ReportSource) Fail(err error) {
	s.dispatch(Update{Err: err})
}

// dispatch delivers under the lock so a concurrent Stop cannot close a
// channel mid-send. Waiter channels are buffered and watcher sends are
// non-blocking, so nothing here can stall the device report path.
func (s *ReportSource) dispatch(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Err == nil {
		pos := u.Position
		s.last = &pos
	}
	for _, ch := range s.waiters {
		ch <- u
	}
	s.waiters = nil
	for _, ch := range s.watchers {
		// Best effort: a viewer that cannot keep up loses updates.
		select {
		case ch <- u:
		default:
		}
	}
}

// CachedFix returns the last reported fix when it is younger than
// maxAge, without waiting for a new report.
func (s *ReportSource) CachedFix(maxAge time.Duration) (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && maxAge > 0 && time.Since(s.last.Timestamp) <= maxAge {
		return *s.last, true
	}
	return Position{}, false
}

func (s *ReportSource) Current(ctx context.Context, opts Options) (Position, error) {
	s.mu.Lock()
	if s.last != nil && opts.MaximumAge > 0 && time.Since(s.last.Timestamp) <= opts.MaximumAge {
		pos := *s.last
		s.mu.Unlock()
		return pos, nil
	}
	wait := make(chan Update, 1)
	s.waiters = append(s.waiters, wait)
	s.mu.Unlock()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case u := <-wait:
		if u.Err != nil {
			return Position{}, u.Err
		}
		return u.Position, nil
	case <-timer.C:
		s.removeWaiter(wait)
		return Position{}, ErrTimeout
	case <-ctx.Done():
		s.removeWaiter(wait)
		return Position{}, ctx.Err()
	}
}

func (s *ReportSource) removeWaiter(wait chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ch := range s.waiters {
		if ch == wait {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

func (s *ReportSource) Watch(opts Options) (*Watch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Update, 16)
	s.watchers[id] = ch

	return &Watch{
		updates: ch,
		stop: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.watchers, id)
			close(ch)
		},
	}, nil
}
