package get_services

import (
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// FilterByCategory возвращает каталог, ограниченный одной категорией.
// Пустая категория возвращает каталог без изменений.
func FilterByCategory(catalog *domain.ServiceCatalog, category string) *domain.ServiceCatalog {
	if catalog == nil {
		return &domain.ServiceCatalog{
			Services:           []domain.Service{},
			ServicesByCategory: map[string][]domain.Service{},
			Categories:         []string{},
		}
	}
	if category == "" {
		return catalog
	}

	services, ok := catalog.ServicesByCategory[category]
	if !ok {
		services = []domain.Service{}
	}

	return &domain.ServiceCatalog{
		Services:           services,
		ServicesByCategory: map[string][]domain.Service{category: services},
		Categories:         []string{category},
	}
}
