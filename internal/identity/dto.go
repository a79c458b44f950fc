package identity

import "github.com/angelmondragon/servicehub-gateway/pkg/enums"

// User is the identity resolved from a session token.
type User struct {
	ID   string     `json:"id"`
	Role enums.Role `json:"role"`
}

type meResponse struct {
	User  *mePayload `json:"user"`
	Error string     `json:"error,omitempty"`
}

type mePayload struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role" validate:"required"`
}
