package telephony

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL bounds how long a minted API token stays valid. Tokens are minted
// per request, so this only needs to cover clock skew plus request time.
const tokenTTL = 10 * time.Minute

// videoGrant mirrors the provider's room-scoped permission claim.
type videoGrant struct {
	RoomCreate bool   `json:"roomCreate,omitempty"`
	RoomAdmin  bool   `json:"roomAdmin,omitempty"`
	RoomJoin   bool   `json:"roomJoin,omitempty"`
	Room       string `json:"room,omitempty"`
}

// apiClaims is the provider access-token claim set: registered claims plus
// the room grant.
type apiClaims struct {
	jwt.RegisteredClaims
	Video videoGrant `json:"video"`
}

// tokenMinter signs short-lived HS256 access tokens for the provider API.
type tokenMinter struct {
	apiKey    string
	apiSecret []byte
}

func newTokenMinter(apiKey, apiSecret string) (*tokenMinter, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("telephony: api key and secret are required")
	}
	return &tokenMinter{apiKey: apiKey, apiSecret: []byte(apiSecret)}, nil
}

// mint issues a token scoped to a room. An empty room name yields a
// server-wide admin token (room create/list operations).
func (m *tokenMinter) mint(now time.Time, room string) (string, error) {
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Video: videoGrant{
			RoomCreate: true,
			RoomAdmin:  true,
			RoomJoin:   room != "",
			Room:       room,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.apiSecret)
}
