package utils // package utils signs and verifies the links embedded in alert e-mails

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Unsubscribe scopes.
const (
	ScopeSeat    = "seat"    // drop one seat notification
	ScopeShowing = "showing" // drop every notification of the address for the showtime
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// signed with another key or carry unexpected claims.
var ErrInvalidToken = errors.New("invalid unsubscribe token")

// UnsubscribeClaims is what an unsubscribe link authorizes.
type UnsubscribeClaims struct {
	Email          string
	Scope          string
	NotificationID uint64 // set for ScopeSeat
	ShowtimeID     uint64
}

// NewUnsubscribeToken builds and signs an HS256 JWT for c that stays valid
// for ttl.
func NewUnsubscribeToken(secret string, c UnsubscribeClaims, ttl time.Duration) (string, error) {
	if c.Scope != ScopeSeat && c.Scope != ScopeShowing {
		return "", fmt.Errorf("unknown scope %q", c.Scope)
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   c.Email,
		"scope": c.Scope,
		"sid":   c.ShowtimeID,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if c.Scope == ScopeSeat {
		claims["nid"] = c.NotificationID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseUnsubscribeToken verifies raw and returns its claims.
func ParseUnsubscribeToken(secret, raw string) (UnsubscribeClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return UnsubscribeClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return UnsubscribeClaims{}, ErrInvalidToken
	}

	// JSON numbers decode as float64.
	email, _ := mc["sub"].(string)
	scope, _ := mc["scope"].(string)
	sid, _ := mc["sid"].(float64)
	out := UnsubscribeClaims{Email: email, Scope: scope, ShowtimeID: uint64(sid)}
	switch {
	case email == "" || out.ShowtimeID == 0:
		return UnsubscribeClaims{}, ErrInvalidToken
	case scope == ScopeSeat:
		nid, _ := mc["nid"].(float64)
		if nid <= 0 {
			return UnsubscribeClaims{}, ErrInvalidToken
		}
		out.NotificationID = uint64(nid)
	case scope != ScopeShowing:
		return UnsubscribeClaims{}, ErrInvalidToken
	}
	return out, nil
}
