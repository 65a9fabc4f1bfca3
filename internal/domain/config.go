package domain

import (
	"fmt"
	"time"
)

// SlotPolicy governs slot granularity and the minimum lead time for same-day bookings
type SlotPolicy struct {
	IntervalMinutes int     `json:"intervalMinutes"`
	AdvanceHours    float64 `json:"advanceHours"`
}

// DefaultSlotPolicy returns 30-minute slots with 2 hours of advance notice
func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{
		IntervalMinutes: DefaultSlotIntervalMinutes,
		AdvanceHours:    DefaultAdvanceHours,
	}
}

// AdvanceNotice returns the advance hours as a duration
func (p SlotPolicy) AdvanceNotice() time.Duration {
	return time.Duration(p.AdvanceHours * float64(time.Hour))
}

// Validate checks that the policy can drive slot generation
func (p SlotPolicy) Validate() error {
	if p.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive, got %d", ErrConfiguration, p.IntervalMinutes)
	}
	if p.AdvanceHours < 0 {
		return fmt.Errorf("%w: advance hours must not be negative, got %v", ErrConfiguration, p.AdvanceHours)
	}
	return nil
}

// CompanyConfig represents the business configuration published by the booking API.
// WorkingHours and Policy are nil when the business did not provide them.
type CompanyConfig struct {
	CompanyName        string        `json:"companyName"`
	Description        string        `json:"description,omitempty"`
	Phone              string        `json:"phone,omitempty"`
	Email              string        `json:"email,omitempty"`
	Address            string        `json:"address,omitempty"`
	Currency           string        `json:"currency,omitempty"`
	WorkingHours       *WorkingHours `json:"workingHours,omitempty"`
	Policy             *SlotPolicy   `json:"policy,omitempty"`
	BookingWindowDays  int           `json:"bookingWindowDays"` // 0 = unlimited
	MaintenanceMode    bool          `json:"maintenanceMode"`
	MaintenanceMessage string        `json:"maintenanceMessage,omitempty"`
}

// HasBookingWindow returns true if there's a limit on how far in advance bookings can be made
func (c *CompanyConfig) HasBookingWindow() bool {
	return c != nil && c.BookingWindowDays > 0
}

// EffectivePolicy returns the configured policy or the default one
func (c *CompanyConfig) EffectivePolicy() SlotPolicy {
	if c == nil || c.Policy == nil {
		return DefaultSlotPolicy()
	}
	return *c.Policy
}
