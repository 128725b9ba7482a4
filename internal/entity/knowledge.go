package entity

import "time"

// PageRecord maps an intent label to the page that answers it. The order of
// a tenant's records is significant for tie-breaking.
type PageRecord struct {
	Intent   string   `json:"intent"`
	URL      string   `json:"url"`
	Keywords []string `json:"keywords"`
}

// Tenant is a site owner. The owner logs in to the dashboard with Email and
// the bcrypt PasswordHash.
type Tenant struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Pages        []PageRecord `db:"-"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// WidgetSession is a widget design or embed id registered by a tenant.
type WidgetSession struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	CreatedAt time.Time `db:"created_at"`
}

type TenantLoginData struct {
	TenantID string
	Email    string
}
