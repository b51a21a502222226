package domain

import "time"

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

type AdAccount struct {
	ID             string          `json:"id"`
	ExternalID     string          `json:"external_id"`
	UserID         int             `json:"user_id"`
	Name           string          `json:"name"`
	Status         AdAccountStatus `json:"status"`
	Currency       string          `json:"currency"`
	BudgetCapCents *int64          `json:"budget_cap_cents,omitempty"` // teto de gasto acordado com o cliente
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Client struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientAdAccount vincula uma conta de anúncios a um cliente. Uma conta pode
// estar vinculada a vários clientes, mas no máximo um vínculo é primário.
type ClientAdAccount struct {
	ClientID  string `json:"client_id"`
	AccountID string `json:"account_id"`
	IsPrimary bool   `json:"is_primary"`
}

// AdAccountWithClient é o resultado do join de contas com seu cliente primário.
// PrimaryClient é nil quando a conta não possui vínculo primário.
type AdAccountWithClient struct {
	AdAccount
	PrimaryClient *Client `json:"primary_client,omitempty"`
}
