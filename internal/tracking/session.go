package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fixo-backend/internal/logger"
)

// State of a sharing session. There is no separate error state: a fatal
// geolocation error forces the session back to Idle.
type State string

const (
	StateIdle    State = "idle"
	StateSharing State = "sharing"
)

// ErrAlreadySharing is returned by Start while a watch is live. Starting
// is rejected, not queued; callers must Stop first.
var ErrAlreadySharing = errors.New("location sharing is already active")

// LocationStore is the persistence adapter the session writes through.
// Implemented by the location service; failures are reported, never
// propagated as panics past the session boundary.
type LocationStore interface {
	Upsert(ctx context.Context, providerID, bookingID string, pos Position) error
	Deactivate(ctx context.Context, providerID, bookingID string) error
}

// NotificationSink receives the user-facing messages the session emits
// instead of raising errors at the caller.
type NotificationSink interface {
	Notify(ctx context.Context, userID, title, message string)
}

// cachedSource is implemented by sources that can answer for an initial
// fix without a blocking read. ReportSource is one.
type cachedSource interface {
	CachedFix(maxAge time.Duration) (Position, bool)
}

// Session is the single source of truth for whether one provider is
// sharing its position for one booking. It owns at most one live watch.
type Session struct {
	providerID string
	bookingID  string
	source     PositionSource
	store      LocationStore
	notify     NotificationSink
	opts       Options
	log        *slog.Logger

	mu         sync.Mutex
	state      State
	watch      *Watch
	lastUpdate time.Time
	accuracy   *float64
}

func NewSession(providerID, bookingID string, source PositionSource, store LocationStore, notify NotificationSink, opts Options) *Session {
	return &Session{
		providerID: providerID,
		bookingID:  bookingID,
		source:     source,
		store:      store,
		notify:     notify,
		opts:       opts,
		state:      StateIdle,
		log: logger.WithComponent("tracking").With(
			"provider_id", providerID, "booking_id", bookingID),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastUpdate returns the time of the last successful persistence write,
// or false when none happened yet.
func (s *Session) LastUpdate() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate, !s.lastUpdate.IsZero()
}

// Accuracy returns the accuracy of the last persisted fix, in meters.
func (s *Session) Accuracy() *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accuracy
}

// Start begins sharing: one initial fix is persisted immediately, then a
// watch keeps the stored position fresh until Stop. Starting while
// already Sharing is rejected.
func (s *Session) Start(ctx context.Context) error {
	if s.source == nil {
		s.notify.Notify(ctx, s.providerID, "Location not supported", "This device doesn't support location tracking")
		return ErrUnsupported
	}

	s.mu.Lock()
	if s.state == StateSharing {
		s.mu.Unlock()
		return ErrAlreadySharing
	}
	s.mu.Unlock()

	// Initial fix before the watch. Push-fed sources hold nothing until
	// the device reports, so an empty cache must not block the start;
	// the watch delivers the first fix. Sources that read hardware do a
	// one-shot fetch: a transient failure only notifies, a fatal one
	// aborts.
	if cs, ok := s.source.(cachedSource); ok {
		if pos, ok := cs.CachedFix(s.opts.MaximumAge); ok {
			s.persist(ctx, pos)
		}
	} else if pos, err := s.source.Current(ctx, s.opts); err != nil {
		s.reportSourceError(ctx, err)
		if Fatal(err) {
			return err
		}
	} else {
		s.persist(ctx, pos)
	}

	w, err := s.source.Watch(s.opts)
	if err != nil {
		s.reportSourceError(ctx, err)
		return err
	}

	s.mu.Lock()
	if s.state == StateSharing {
		// Lost the race with a concurrent Start.
		s.mu.Unlock()
		w.Stop()
		return ErrAlreadySharing
	}
	s.state = StateSharing
	s.watch = w
	s.mu.Unlock()

	go s.run(w)

	s.log.Info("Location sharing started")
	s.notify.Notify(ctx, s.providerID, "Location sharing started", "Your location is now being shared with the customer")
	return nil
}

// run consumes the watch stream until it is stopped or a fatal source
// error forces the session back to Idle.
func (s *Session) run(w *Watch) {
	ctx := context.Background()
	for u := range w.Updates() {
		if u.Err != nil {
			s.reportSourceError(ctx, u.Err)
			if Fatal(u.Err) {
				s.mu.Lock()
				if s.watch == w {
					s.watch = nil
					s.state = StateIdle
				}
				s.mu.Unlock()
				w.Stop()
				return
			}
			continue
		}
		// Storage failures do not stop the watch; the next callback
		// retries implicitly.
		s.persist(ctx, u.Position)
	}
}

func (s *Session) persist(ctx context.Context, pos Position) {
	if err := s.store.Upsert(ctx, s.providerID, s.bookingID, pos); err != nil {
		s.log.Error("Failed to persist location", "error", err)
		s.notify.Notify(ctx, s.providerID, "Location update failed", "Failed to share your location. Please try again.")
		return
	}
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.accuracy = pos.Accuracy
	s.mu.Unlock()
	s.log.Debug("Location updated", "latitude", pos.Latitude, "longitude", pos.Longitude)
}

// Stop clears the watch and deactivates the stored row. Both steps run
// even if one fails; calling Stop on an idle session is a no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	w := s.watch
	wasSharing := s.state == StateSharing
	s.watch = nil
	s.state = StateIdle
	s.mu.Unlock()

	w.Stop() // nil-safe, idempotent

	if err := s.store.Deactivate(ctx, s.providerID, s.bookingID); err != nil {
		s.log.Error("Failed to deactivate location", "error", err)
		return err
	}

	if wasSharing {
		s.log.Info("Location sharing stopped")
		s.notify.Notify(ctx, s.providerID, "Location sharing stopped", "Your location is no longer being shared")
	}
	return nil
}

// ForceUpdate persists a single fresh fix regardless of sharing state.
// No state transition happens.
func (s *Session) ForceUpdate(ctx context.Context) error {
	if s.source == nil {
		return ErrUnsupported
	}
	pos, err := s.source.Current(ctx, s.opts)
	if err != nil {
		s.notify.Notify(ctx, s.providerID, "Location error", "Failed to get your current location")
		return err
	}
	if err := s.store.Upsert(ctx, s.providerID, s.bookingID, pos); err != nil {
		s.notify.Notify(ctx, s.providerID, "Update failed", "Failed to update your location")
		return err
	}
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.accuracy = pos.Accuracy
	s.mu.Unlock()
	s.notify.Notify(ctx, s.providerID, "Location updated", "Your current location has been sent to the customer")
	return nil
}

func (s *Session) reportSourceError(ctx context.Context, err error) {
	var message string
	switch {
	case errors.Is(err, ErrPermissionDenied):
		message = "Location access denied. Please enable location permissions."
	case errors.Is(err, ErrUnavailable):
		message = "Location information unavailable."
	case errors.Is(err, ErrTimeout):
		message = "Location request timed out."
	default:
		message = "Failed to get your location"
	}
	s.log.Warn("Geolocation error", "error", err)
	s.notify.Notify(ctx, s.providerID, "Location error", message)
}
