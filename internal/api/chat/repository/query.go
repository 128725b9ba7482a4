package chatRepository

const (
	queryCreateChatLog = `
		INSERT INTO chat_logs (
			id, tenant_id, session_id, message, matched_intent,
			matched_url, weak_keyword_hint, strategy, reply, created_at
		) VALUES (
			:id, :tenant_id, :session_id, :message, :matched_intent,
			:matched_url, :weak_keyword_hint, :strategy, :reply, :created_at
		)
	`

	queryGetChatLogsByTenant = `
		SELECT
			id, tenant_id, session_id, message, matched_intent,
			matched_url, weak_keyword_hint, strategy, reply, created_at
		FROM chat_logs
		WHERE tenant_id = :tenant_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountChatLogsByTenant = `
		SELECT COUNT(*)
		FROM chat_logs
		WHERE tenant_id = :tenant_id
	`
)
