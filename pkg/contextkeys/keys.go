package contextkeys

type contextKey string

const (
	ClaimsKey    contextKey = "Claims"
	RequestIDKey contextKey = "RequestID"
)
