package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// WithIdentity stores the identity under KeyUserID / KeyUserRole.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, id.ID)
	return context.WithValue(ctx, KeyUserRole, string(id.Role))
}

// IdentityFromContext returns the identity stored by WithIdentity. Gin contexts
// work too since their Value method resolves string keys from c.Keys.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, _ := ctx.Value(KeyUserID).(string)
	if id == "" {
		if s, ok := ctx.Value(string(KeyUserID)).(string); ok {
			id = s
		}
	}
	if id == "" {
		return Identity{}, false
	}
	role, _ := ctx.Value(KeyUserRole).(string)
	if role == "" {
		role, _ = ctx.Value(string(KeyUserRole)).(string)
	}
	return Identity{ID: id, Role: Role(role)}, true
}
