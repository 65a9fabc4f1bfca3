package domain

// BookingStatus represents the status of the booking behind an occupied interval
type BookingStatus string

const (
	StatusPending            BookingStatus = "pending"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusInProgress         BookingStatus = "in_progress"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByCompany BookingStatus = "cancelled_by_company"
	StatusCancelled          BookingStatus = "cancelled"
	StatusNoShow             BookingStatus = "no_show"
)

// OccupiedInterval is one already-booked span for a barber on a date.
// Times come from the remote API as "HH:MM" or "HH:MM:SS".
type OccupiedInterval struct {
	BookingID string        `json:"bookingId,omitempty"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Status    BookingStatus `json:"status,omitempty"`
}

// IsActive returns true if the interval still blocks its time.
// An empty status is treated as active.
func (o *OccupiedInterval) IsActive() bool {
	for _, status := range InactiveStatuses {
		if o.Status == status {
			return false
		}
	}
	return true
}
