package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// Виды ресурсов, они же имена кэшей
const (
	ResourceCompanyConfig = "company_config"
	ResourceBarbers       = "barbers"
	ResourceServices      = "services"
)

// Каждый кэш каталога хранит одно значение
const singletonKey = "current"

// Resources перечисляет ресурсы каталога в порядке загрузки
var Resources = []string{ResourceCompanyConfig, ResourceBarbers, ResourceServices}

// Caches кэши ресурсов каталога
type Caches struct {
	CompanyConfig *ttlcache.Cache[*domain.CompanyConfig]
	Barbers       *ttlcache.Cache[domain.Roster]
	Services      *ttlcache.Cache[*domain.ServiceCatalog]
}

// Service сервис долгоживущих данных барбершопа: конфигурация, барберы, услуги
type Service struct {
	apiClient APIClient
	caches    Caches
	logger    Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(apiClient APIClient, caches Caches, logger Logger) *Service {
	return &Service{
		apiClient: apiClient,
		caches:    caches,
		logger:    logger,
	}
}

// GetCompanyConfig возвращает конфигурацию компании (из кэша или API)
func (s *Service) GetCompanyConfig(ctx context.Context) ttlcache.Result[*domain.CompanyConfig] {
	return s.caches.CompanyConfig.GetOrFetch(ctx, singletonKey, s.apiClient.GetCompanyConfig)
}

// GetBarbers возвращает список барберов (из кэша или API)
func (s *Service) GetBarbers(ctx context.Context) ttlcache.Result[domain.Roster] {
	return s.caches.Barbers.GetOrFetch(ctx, singletonKey, s.apiClient.GetBarbers)
}

// GetServices возвращает каталог услуг (из кэша или API)
func (s *Service) GetServices(ctx context.Context) ttlcache.Result[*domain.ServiceCatalog] {
	return s.caches.Services.GetOrFetch(ctx, singletonKey, s.apiClient.GetServices)
}

// Preload прогревает кэши параллельно. Свежие записи не перезапрашиваются.
// Ошибки загрузки попадают в отчет и не прерывают запуск сервиса.
func (s *Service) Preload(ctx context.Context) *models.LoadReport {
	s.logger.Info("Preload: warming catalog caches")

	report := s.load(ctx,
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceCompanyConfig, s.GetCompanyConfig(ctx))
		},
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceBarbers, s.GetBarbers(ctx))
		},
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceServices, s.GetServices(ctx))
		},
	)

	s.logReport("Preload", report)
	return report
}

// Refresh принудительно перезапрашивает все ресурсы.
// При недоступности API в кэше остаются прежние данные.
func (s *Service) Refresh(ctx context.Context) *models.LoadReport {
	s.logger.Info("Refresh: refetching all catalog resources")

	report := s.load(ctx,
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceCompanyConfig,
				s.caches.CompanyConfig.FetchAndStore(ctx, singletonKey, s.apiClient.GetCompanyConfig))
		},
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceBarbers,
				s.caches.Barbers.FetchAndStore(ctx, singletonKey, s.apiClient.GetBarbers))
		},
		func(ctx context.Context) models.ResourceStatus {
			return models.FromResult(ResourceServices,
				s.caches.Services.FetchAndStore(ctx, singletonKey, s.apiClient.GetServices))
		},
	)

	s.logReport("Refresh", report)
	return report
}

// Invalidate очищает кэш одного ресурса
func (s *Service) Invalidate(ctx context.Context, resource string) error {
	var err error
	switch resource {
	case ResourceCompanyConfig:
		err = s.caches.CompanyConfig.Clear(ctx)
	case ResourceBarbers:
		err = s.caches.Barbers.Clear(ctx)
	case ResourceServices:
		err = s.caches.Services.Clear(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}

	if err != nil {
		s.logger.Error("Invalidate: failed to clear %s: %v", resource, err)
		return fmt.Errorf("%w: Invalidate %s: %v", ErrInternal, resource, err)
	}

	s.logger.Info("Invalidate: cleared %s", resource)
	return nil
}

// Clear очищает кэши всех ресурсов каталога
func (s *Service) Clear(ctx context.Context) error {
	for _, resource := range Resources {
		if err := s.Invalidate(ctx, resource); err != nil {
			return err
		}
	}
	return nil
}

// load выполняет загрузчики параллельно; порядок отчета совпадает с порядком загрузчиков
func (s *Service) load(ctx context.Context, loaders ...func(ctx context.Context) models.ResourceStatus) *models.LoadReport {
	report := &models.LoadReport{Resources: make([]models.ResourceStatus, len(loaders))}

	var g errgroup.Group
	for i, loader := range loaders {
		g.Go(func() error {
			report.Resources[i] = loader(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (s *Service) logReport(op string, report *models.LoadReport) {
	for _, res := range report.Resources {
		switch res.Status {
		case string(ttlcache.StatusFresh):
			s.logger.Info("%s: %s loaded from %s", op, res.Resource, res.Source)
		case string(ttlcache.StatusStale):
			s.logger.Warn("%s: %s served stale: %s", op, res.Resource, res.Error)
		default:
			s.logger.Error("%s: %s unavailable: %s", op, res.Resource, res.Error)
		}
	}
}
