package domain

// ProviderStatus represents the current availability of a prestador.
type ProviderStatus string

const (
	ProviderStatusOnline  ProviderStatus = "ONLINE"
	ProviderStatusOffline ProviderStatus = "OFFLINE"
	ProviderStatusBusy    ProviderStatus = "OCUPADO"
)

// Provider represents a prestador's working profile. The User record
// holds identity; this holds what a requester sees once matched.
type Provider struct {
	ID      string
	UserID  string
	Name    string
	Phone   string
	Vehicle string
	Plate   string
	Rating  float64
	Status  ProviderStatus
}
