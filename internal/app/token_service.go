package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ChainTokenService mints the short-lived bearer tokens the settlement
// gateway requires on every request.
type ChainTokenService struct {
	secret string
	issuer string
}

const (
	ChainTokenActionJoin   = "join"
	ChainTokenActionSettle = "settle"
)

// NewChainTokenService constructs a token service for the given HS256 secret
// and issuer.
func NewChainTokenService(secret, issuer string) *ChainTokenService {
	return &ChainTokenService{
		secret: secret,
		issuer: issuer,
	}
}

// GenerateToken signs a token authorizing one gateway action for one game.
func (s *ChainTokenService) GenerateToken(gameID, action string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("chain token service is nil")
	}
	if gameID == "" {
		return "", fmt.Errorf("gameID is required")
	}
	switch action {
	case ChainTokenActionJoin, ChainTokenActionSettle:
	default:
		return "", fmt.Errorf("unsupported chain action: %s", action)
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("chain token config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": gameID,
		"act": action,
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"jti": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
