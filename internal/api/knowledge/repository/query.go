package knowledgeRepository

const (
	queryGetTenantPages = `
		SELECT pages
		FROM tenants
		WHERE id = :id
	`

	queryReplaceTenantPages = `
		UPDATE tenants
		SET
			pages = :pages,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryGetTenantIDBySession = `
		SELECT tenant_id
		FROM widget_sessions
		WHERE id = :id
	`

	queryCreateSession = `
		INSERT INTO widget_sessions (
			id, tenant_id, created_at
		) VALUES (
			:id, :tenant_id, :created_at
		)
		ON CONFLICT (id) DO NOTHING
	`
)
