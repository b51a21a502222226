package domain

import "time"

type IntegrationStatus string

const (
	IntegrationConnected    IntegrationStatus = "CONNECTED"
	IntegrationDisconnected IntegrationStatus = "DISCONNECTED"
)

// Integration é a conexão do tenant com a API de anúncios. O token é mantido
// cifrado em repouso e só é decifrado no momento do uso.
type Integration struct {
	UserID         int               `json:"user_id"`
	Status         IntegrationStatus `json:"status"`
	EncryptedToken string            `json:"-"`
	LastSyncAt     *time.Time        `json:"last_sync_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (i *Integration) IsConnected() bool {
	return i != nil && i.Status == IntegrationConnected
}
