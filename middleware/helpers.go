package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims, которые выписывает auth handler при логине.
const (
	jwtClaimUserID      = "user_id"
	jwtClaimRole        = "role"
	jwtClaimPlayerID    = "player_id"
	jwtClaimOrganizerID = "organizer_id"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context or invalid type")
	}
	return claims, nil
}

// intClaim достает числовой claim; json кладет числа как float64.
func intClaim(claims jwt.MapClaims, name string) (int, error) {
	raw, ok := claims[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing '%s' claim in token", name)
	}
	value, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number, got %T", name, raw)
	}
	if value != float64(int(value)) || int(value) <= 0 {
		return 0, fmt.Errorf("invalid value in '%s' claim: %f", name, value)
	}
	return int(value), nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, jwtClaimUserID)
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim in token", jwtClaimRole)
	}
	role := models.UserRole(roleStr)
	switch role {
	case models.RolePlayer, models.RoleOrganizer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}

// GetPlayerIDFromContext — id профиля игрока из токена. Есть только у
// пользователей с ролью player.
func GetPlayerIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, jwtClaimPlayerID)
}

func GetOrganizerIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, jwtClaimOrganizerID)
}
