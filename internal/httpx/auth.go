// path: internal/httpx/auth.go
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jcraver1021/flex-chess/internal/board"
)

var (
	ErrNoToken  = errors.New("missing bearer token")
	ErrBadToken = errors.New("invalid bearer token")
)

// matchClaims binds a bearer token to one player seat of one match.
type matchClaims struct {
	jwt.RegisteredClaims
	MatchID string `json:"match_id"`
	Player  string `json:"player"`
}

// mintTokens issues one HS256 token per player seat, or nil when the
// server has no signing secret.
func (s *Server) mintTokens(matchID string, players []board.Player) (map[string]string, error) {
	if len(s.secret) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	out := make(map[string]string, len(players))
	for _, p := range players {
		claims := matchClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:  string(p),
				IssuedAt: jwt.NewNumericDate(now),
			},
			MatchID: matchID,
			Player:  string(p),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
		if err != nil {
			return nil, fmt.Errorf("sign token for %s: %w", p, err)
		}
		out[string(p)] = tok
	}
	return out, nil
}

// authorize checks the request's bearer token against the match and
// returns the token's player seat, or "" when auth is disabled.
func (s *Server) authorize(r *http.Request, matchID string) (string, error) {
	if len(s.secret) == 0 {
		return "", nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrNoToken
	}
	var claims matchClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(header[len(prefix):]), &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if claims.MatchID != matchID {
		return "", fmt.Errorf("%w: token is for another match", ErrBadToken)
	}
	if strings.TrimSpace(claims.Player) == "" {
		return "", fmt.Errorf("%w: token has no player seat", ErrBadToken)
	}
	return claims.Player, nil
}
