package auth

import "context"

// TokenValidator is the narrow surface the request filter needs. TokenService
// satisfies it; tests substitute a TokenValidatorFunc.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (*JWTClaims, error)
}

// TokenValidatorFunc adapts a function to the TokenValidator interface
type TokenValidatorFunc func(ctx context.Context, tokenString string) (*JWTClaims, error)

// Validate calls the wrapped function
func (f TokenValidatorFunc) Validate(ctx context.Context, tokenString string) (*JWTClaims, error) {
	return f(ctx, tokenString)
}
