package postgres

import (
	"database/sql"

	"fixo-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ServiceRepository
	repository.BookingRepository
	repository.PropertyRepository
	repository.PropertyBookingRepository
	repository.LocationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                        db,
		UserRepository:            NewUserRepository(db),
		ServiceRepository:         NewServiceRepository(db),
		BookingRepository:         NewBookingRepository(db),
		PropertyRepository:        NewPropertyRepository(db),
		PropertyBookingRepository: NewPropertyBookingRepository(db),
		LocationRepository:        NewLocationRepository(db),
		NotificationRepository:    NewNotificationRepository(db),
	}
}
