package jwttoken

import (
	"paygate/internal/platform/middleware"
)

// ToMiddlewareClaims converts token claims into the middleware's view.
func ToMiddlewareClaims(claims *Claims) *middleware.JWTClaims {
	return &middleware.JWTClaims{
		CallerID: claims.CallerID,
		Scope:    claims.Scope,
	}
}

// JWTServiceAdapter satisfies middleware.JWTValidator without the middleware
// package importing jwt internals.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
