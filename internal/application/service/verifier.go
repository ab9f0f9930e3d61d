package service

import "context"

// UserInfo describes the caller as resolved by the identity provider.
// Requests without a valid token run as an anonymous caller; mutating use
// cases reject those.
type UserInfo struct {
	IsKnown     bool
	UserID      string
	DisplayName string
}

func Anonymous() UserInfo {
	return UserInfo{IsKnown: false, UserID: "anonymous", DisplayName: "anonymous"}
}

type TokenVerifier interface {
	VerifyCaller(ctx context.Context, token string) (UserInfo, error)
}
