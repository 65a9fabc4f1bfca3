package get_company_config

import (
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// CompanyConfigResponse конфигурация компании с примененными значениями по умолчанию
type CompanyConfigResponse struct {
	*domain.CompanyConfig
	WorkingHours domain.WorkingHours `json:"workingHours"`
	Policy       domain.SlotPolicy   `json:"policy"`
}

// FromDomain дополняет конфигурацию расписанием и политикой слотов по умолчанию
func FromDomain(config *domain.CompanyConfig) *CompanyConfigResponse {
	if config == nil {
		config = &domain.CompanyConfig{}
	}

	hours := domain.DefaultWorkingHours()
	if config.WorkingHours != nil {
		hours = *config.WorkingHours
	}

	return &CompanyConfigResponse{
		CompanyConfig: config,
		WorkingHours:  hours,
		Policy:        config.EffectivePolicy(),
	}
}
