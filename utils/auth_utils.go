package utils

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const (
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type UserClaims struct {
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles"`
}

func (uc *UserClaims) HasRole(role string) bool {
	for _, r := range uc.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsModerator reports whether the claims carry the moderation capability.
// Admins hold it implicitly.
func (uc *UserClaims) IsModerator() bool {
	return uc.HasRole(RoleModerator) || uc.HasRole(RoleAdmin)
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// GenerateAccessToken mints a token carrying identity and role claims. The
// external auth service is the normal issuer; this exists for tooling and
// middleware tests.
func GenerateAccessToken(userID uint, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"roles":   roles,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
