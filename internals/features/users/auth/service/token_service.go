package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	helperAuth "churchku_backend/internals/helpers/auth"
)

const (
	typSession     = "session"
	typLoginTicket = "login_ticket"
)

// SessionClaims is the payload of the admin_token cookie.
type SessionClaims struct {
	Typ            string `json:"typ"`
	MemberID       string `json:"member_id"`
	MemberName     string `json:"member_name"`
	ChurchID       string `json:"church_id,omitempty"`
	ChurchName     string `json:"church_name,omitempty"`
	ChurchTimezone string `json:"church_timezone,omitempty"`
	Role           string `json:"role,omitempty"`
	SystemRole     string `json:"system_role"`
	jwt.RegisteredClaims
}

// TicketClaims proves step 1 of the login succeeded for MemberID.
type TicketClaims struct {
	Typ      string `json:"typ"`
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	sessionTTL time.Duration
	ticketTTL  time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, sessionTTL, ticketTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		ticketTTL:  ticketTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (t *TokenIssuer) SessionTTL() time.Duration { return t.sessionTTL }

func (t *TokenIssuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// IssueSession signs id and fills in its TokenID and ExpiresAt.
func (t *TokenIssuer) IssueSession(id *helperAuth.Identity) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("JWT_SECRET is not set")
	}
	claims := SessionClaims{
		Typ:              typSession,
		MemberID:         id.MemberID.String(),
		MemberName:       id.MemberName,
		ChurchName:       id.ChurchName,
		ChurchTimezone:   id.ChurchTimezone,
		Role:             string(id.Role),
		SystemRole:       string(id.SystemRole),
		RegisteredClaims: t.registered(id.MemberID.String(), t.sessionTTL),
	}
	if id.ChurchID != uuid.Nil {
		claims.ChurchID = id.ChurchID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", err
	}
	id.TokenID = claims.ID
	id.ExpiresAt = claims.ExpiresAt.Time
	return signed, nil
}

func (t *TokenIssuer) parse(raw string, claims jwt.Claims) error {
	if raw == "" || len(t.secret) == 0 {
		return ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ParseSession verifies signature and expiry. It returns nil for anything unusable.
func (t *TokenIssuer) ParseSession(raw string) *helperAuth.Identity {
	var c SessionClaims
	if err := t.parse(raw, &c); err != nil || c.Typ != typSession || c.ID == "" {
		return nil
	}
	memberID, err := uuid.Parse(c.MemberID)
	if err != nil {
		return nil
	}
	id := &helperAuth.Identity{
		MemberID:       memberID,
		MemberName:     c.MemberName,
		ChurchName:     c.ChurchName,
		ChurchTimezone: c.ChurchTimezone,
		Role:           constants.ChurchRole(c.Role),
		SystemRole:     constants.SystemRole(c.SystemRole),
		TokenID:        c.ID,
	}
	if c.ChurchID != "" {
		churchID, err := uuid.Parse(c.ChurchID)
		if err != nil {
			return nil
		}
		id.ChurchID = churchID
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

func (t *TokenIssuer) IssueTicket(memberID uuid.UUID) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, errors.New("JWT_SECRET is not set")
	}
	claims := TicketClaims{
		Typ:              typLoginTicket,
		MemberID:         memberID.String(),
		RegisteredClaims: t.registered(memberID.String(), t.ticketTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (t *TokenIssuer) ParseTicket(raw string) (uuid.UUID, error) {
	var c TicketClaims
	if err := t.parse(raw, &c); err != nil || c.Typ != typLoginTicket {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(c.MemberID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
