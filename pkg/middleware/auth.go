package middleware

import (
	"context"
	"net/http"

	"tripledger/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// MemberIDKey is the context key for the calling member's id
const MemberIDKey ContextKey = "member_id"

// Identity resolves the calling member from the X-Member-Id header and puts
// the id on the request context. Real authentication lives outside this
// service; whatever sits in front of it is expected to have verified the
// caller and forwarded a trusted id.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := r.Header.Get("X-Member-Id")
		if memberID == "" {
			response.Unauthorized(w, "X-Member-Id header required")
			return
		}

		ctx := context.WithValue(r.Context(), MemberIDKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetMemberID extracts the calling member's id from the request context
func GetMemberID(ctx context.Context) (string, bool) {
	memberID, ok := ctx.Value(MemberIDKey).(string)
	return memberID, ok && memberID != ""
}
