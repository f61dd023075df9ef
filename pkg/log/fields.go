package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware/auth.go keys)
	FieldUserID = "user_id"

	// Domain entities
	FieldPostID    = "post_id"
	FieldCommentID = "comment_id"
	FieldTargetID  = "target_id"

	// Service
	FieldService = "service"
)
