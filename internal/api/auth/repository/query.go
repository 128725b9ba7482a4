package authRepository

const (
	queryCreateTenant = `
		INSERT INTO tenants (
			id, name, email, password_hash, pages, created_at, updated_at
		) VALUES (
			:id, :name, :email, :password_hash, '[]'::jsonb, :created_at, :updated_at
		)
	`

	queryGetTenantByEmail = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM tenants
		WHERE email = :email
	`
)
