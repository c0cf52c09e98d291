package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

var errMissingToken = errors.New("bearer token is required")

// MembershipSource provides the team memberships of an authenticated user.
type MembershipSource interface {
	MembershipsOfUser(ctx context.Context, userID kernel.UUID) ([]access.Membership, error)
}

// TokenClaims is the payload of an access token: the subject is the user id,
// Role is the wire name of an access.Role.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and builds the request actor.
// Tokens are issued elsewhere.
type Authenticator struct {
	secret      []byte
	memberships MembershipSource
}

func NewAuthenticator(secret string, memberships MembershipSource) Authenticator {
	return Authenticator{secret: []byte(secret), memberships: memberships}
}

// Middleware stores the resolved access.Principal on the echo context.
func (a Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := a.parse(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}

			principal, err := a.principal(c.Request().Context(), claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}

			c.Set(actorKey, principal)
			return next(c)
		}
	}
}

func (a Authenticator) parse(header string) (*TokenClaims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errMissingToken
	}

	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (a Authenticator) principal(ctx context.Context, claims *TokenClaims) (*access.Principal, error) {
	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}
	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid token role: %w", err)
	}

	memberships, err := a.memberships.MembershipsOfUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	return access.NewPrincipal(userID, role, memberships)
}

func actorFrom(c echo.Context) access.Actor {
	actor, _ := c.Get(actorKey).(access.Actor)
	return actor
}
