package domain

// Default configuration values
const (
	DefaultSlotIntervalMinutes = 30
	DefaultAdvanceHours        = 2.0
	DefaultBookingWindowDays   = 0 // 0 = unlimited
	DefaultOpenTime            = "09:00"
	DefaultCloseTime           = "18:00"
)

// DateFormat YYYY-MM-DD
const DateFormat = "2006-01-02"

// InactiveStatuses statuses of bookings that no longer hold their interval
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByCompany,
	StatusCancelled,
	StatusNoShow,
}
