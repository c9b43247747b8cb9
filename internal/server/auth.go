package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ryan24313/formWords/internal/game"
)

var errNoIdentity = errors.New("no valid identity")

// identityFromToken verifies the signed token minted by the external
// identity layer and unpacks the {id, username} pair. The server only ever
// consumes these tokens.
func identityFromToken(token string, secret []byte) (game.Identity, error) {
	if token == "" {
		return game.Identity{}, errNoIdentity
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return game.Identity{}, errNoIdentity
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return game.Identity{}, errNoIdentity
	}
	sub, _ := claims.GetSubject()
	username, _ := claims["username"].(string)
	if sub == "" || username == "" {
		return game.Identity{}, errNoIdentity
	}
	return game.Identity{ID: sub, Username: username}, nil
}

func identityFromRequest(r *http.Request, secret []byte) (game.Identity, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return game.Identity{}, errNoIdentity
	}
	return identityFromToken(token, secret)
}
