package identity

import (
	"context"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/pkg/auth"
)

type jwtVerifier struct {
	svc *auth.JWTService
}

func NewJWTVerifier(svc *auth.JWTService) service.TokenVerifier {
	return &jwtVerifier{svc: svc}
}

func (v *jwtVerifier) VerifyCaller(ctx context.Context, token string) (service.UserInfo, error) {
	claims, err := v.svc.VerifyToken(token)
	if err != nil {
		return service.UserInfo{}, err
	}

	displayName := claims.DisplayName
	if displayName == "" {
		displayName = claims.Subject
	}
	return service.UserInfo{
		IsKnown:     true,
		UserID:      claims.Subject,
		DisplayName: displayName,
	}, nil
}
