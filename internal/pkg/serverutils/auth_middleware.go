package serverutils

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ai-assistant-be/pkg/quota"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

var (
	errInvalidToken  = errors.New("invalid token")
	errInvalidClaims = errors.New("invalid claims")
)

var stubUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-]`)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Tier   quota.Tier
}

// TierResolver returns a locally granted tier that overrides the token's.
type TierResolver interface {
	Lookup(ctx context.Context, userID string) (quota.Tier, bool)
}

// AuthMiddleware resolves the caller from a Bearer token. With an empty
// secret every token is accepted as a free-tier stub identity. Requests
// without a token pass through with no principal; handlers reject them.
func AuthMiddleware(secret string, tiers TierResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := bearerToken(ctx.Get("Authorization"))
		if token == "" {
			return ctx.Next()
		}

		var principal Principal
		if secret == "" {
			principal = stubPrincipal(token)
		} else {
			p, err := verifyToken(token, secret)
			if err != nil {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
			}
			principal = p
		}

		if tiers != nil {
			if override, ok := tiers.Lookup(ctx.UserContext(), principal.UserID); ok {
				principal.Tier = override
			}
		}

		ctx.Locals(principalKey, principal)
		ctx.Locals("user_id", principal.UserID)
		return ctx.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware, if any.
func PrincipalFrom(ctx *fiber.Ctx) Principal {
	p, _ := ctx.Locals(principalKey).(Principal)
	return p
}

func bearerToken(header string) string {
	h := strings.TrimSpace(header)
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func verifyToken(tokenStr, secret string) (Principal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	if strings.TrimSpace(userID) == "" {
		return Principal{}, errInvalidClaims
	}
	tier, _ := claims["tier"].(string)
	return Principal{UserID: userID, Tier: quota.ParseTier(tier)}, nil
}

func stubPrincipal(token string) Principal {
	head := token
	if len(head) > 32 {
		head = head[:32]
	}
	safe := stubUnsafeChars.ReplaceAllString(head, "")
	if safe == "" {
		safe = "anon"
	}
	return Principal{UserID: "stub-" + safe, Tier: quota.TierFree}
}
