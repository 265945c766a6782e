package travel

import "errors"

var (
	ErrTravelNotFound   = errors.New("travel record not found")
	ErrNoTravelers      = errors.New("at least one traveler is required")
	ErrInvalidDateRange = errors.New("end_date must be on or after start_date")
)
