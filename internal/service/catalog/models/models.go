package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// ResourceStatus итог загрузки одного ресурса
type ResourceStatus struct {
	Resource  string     `json:"resource"`
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// LoadReport итог загрузки всех ресурсов
type LoadReport struct {
	Resources []ResourceStatus `json:"resources"`
}

// AllFresh возвращает true, если все ресурсы получены из API или свежего кэша
func (r *LoadReport) AllFresh() bool {
	for _, res := range r.Resources {
		if res.Status != string(ttlcache.StatusFresh) {
			return false
		}
	}
	return true
}

// FromResult строит статус ресурса по результату чтения из кэша
func FromResult[V any](resource string, res ttlcache.Result[V]) ResourceStatus {
	status := ResourceStatus{
		Resource: resource,
		Status:   string(res.Status),
		Source:   string(res.Source),
	}
	if !res.FetchedAt.IsZero() {
		fetchedAt := res.FetchedAt
		status.FetchedAt = &fetchedAt
	}
	if res.Err != nil {
		status.Error = res.Err.Error()
	}
	return status
}
