package jobs

import (
	"context"
	"time"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/logger"
)

// SendBookingReminders emails customers and providers about bookings
// happening tomorrow.
func (jr *JobRunner) SendBookingReminders() {
	jr.runWithRecovery("SendBookingReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

		bookings, err := jr.store.BookingRepository.ListByDate(ctx, tomorrow)
		if err != nil {
			logger.Error("Failed to list bookings for reminders", "error", err)
			return
		}

		count := 0
		for _, b := range bookings {
			if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusPending {
				continue
			}

			svc, err := jr.store.ServiceRepository.GetByID(ctx, b.ServiceID)
			if err != nil {
				logger.Error("Failed to load service for reminder", "booking_id", b.ID, "error", err)
				continue
			}

			customer, err := jr.store.UserRepository.GetByID(ctx, b.CustomerID)
			if err == nil {
				if err := jr.services.Email.SendBookingReminder(ctx, customer.Email, customer.FullName, svc.Name, b.BookingDate); err != nil {
					logger.Error("Failed to send customer reminder", "booking_id", b.ID, "error", err)
				}
				jr.services.Notifier.Notify(ctx, customer.ID, "Booking Tomorrow",
					"Your "+svc.Name+" booking is scheduled for tomorrow",
					map[string]string{"type": "BOOKING_REMINDER", "booking_id": b.ID})
			}

			if b.ProviderID != nil {
				provider, err := jr.store.UserRepository.GetByID(ctx, *b.ProviderID)
				if err == nil {
					if err := jr.services.Email.SendBookingReminder(ctx, provider.Email, provider.FullName, svc.Name, b.BookingDate); err != nil {
						logger.Error("Failed to send provider reminder", "booking_id", b.ID, "error", err)
					}
				}
			}
			count++
		}
		logger.Info("Booking reminders sent", "date", tomorrow, "count", count)
	})
}
