package jobs

import (
	"context"

	"fixo-backend/internal/logger"
)

// DeactivateStaleLocations flips off active location rows that stopped
// receiving updates, so viewers don't track a phone that went dark. The
// affected providers get an in-app notification.
func (jr *JobRunner) DeactivateStaleLocations() {
	jr.runWithRecovery("DeactivateStaleLocations", func() {
		ctx := context.Background()
		cutoff := jr.config.Tracking.StaleAfterMinutes

		stale, err := jr.store.LocationRepository.DeactivateStale(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to deactivate stale locations", "error", err)
			return
		}
		if len(stale) == 0 {
			return
		}

		for _, loc := range stale {
			jr.services.Notifier.Notify(ctx, loc.ProviderID,
				"Location sharing stopped",
				"Your location sharing was stopped because no updates were received",
				map[string]string{"type": "LOCATION_STALE", "booking_id": loc.BookingID})
		}
		logger.Info("Deactivated stale locations", "count", len(stale), "cutoff_minutes", cutoff)
	})
}
