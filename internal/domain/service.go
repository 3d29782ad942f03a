package domain

// Service is a bookable catalog entry (plumbing, cleaning, ...).
type Service struct {
	ID              string `json:"id"`
	CategoryID      string `json:"category_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	BasePrice       int64  `json:"base_price"`
	DurationMinutes int32  `json:"duration_minutes"`
	ImageURL        string `json:"image_url"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at"`
}

// ProviderService links a provider to a service they offer. Active links
// are the candidate set the assignment resolver picks from.
type ProviderService struct {
	ID         string `json:"id"`
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}
