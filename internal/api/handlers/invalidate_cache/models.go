package invalidate_cache

// ResourceAll очищает все кэши, включая занятость
const ResourceAll = "all"

// InvalidateResponse HTTP response model
type InvalidateResponse struct {
	Cleared []string `json:"cleared"`
}
