package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	BarberID        string   `json:"barberId"`
	Slots           []string `json:"slots"`
	ConfigSource    string   `json:"configSource"`
	OccupancySource string   `json:"occupancySource"`
	Degraded        bool     `json:"degraded"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BarberID:        resp.BarberID,
		Slots:           slots,
		ConfigSource:    resp.ConfigSource,
		OccupancySource: resp.OccupancySource,
		Degraded:        resp.Degraded,
	}
}

// ToUseCaseRequest создает запрос use case из параметров URL
func ToUseCaseRequest(barberID string, dateStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BarberID: barberID,
		Date:     date,
	}, nil
}
