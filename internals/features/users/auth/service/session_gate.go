package service

import (
	"context"

	"go.uber.org/zap"

	helperAuth "churchku_backend/internals/helpers/auth"
)

// SessionGate turns a raw token into an identity, or nil.
type SessionGate struct {
	Tokens      *TokenIssuer
	Revocations RevocationStore
	Log         *zap.Logger
}

func NewSessionGate(tokens *TokenIssuer, revocations RevocationStore, log *zap.Logger) *SessionGate {
	return &SessionGate{Tokens: tokens, Revocations: revocations, Log: log}
}

// ParseSession is nil for a missing, forged, expired or logged-out token.
// A failing revocation store also yields nil.
func (g *SessionGate) ParseSession(ctx context.Context, raw string) *helperAuth.Identity {
	id := g.Tokens.ParseSession(raw)
	if id == nil {
		return nil
	}
	if g.Revocations != nil {
		revoked, err := g.Revocations.IsRevoked(ctx, id.TokenID)
		if err != nil {
			g.Log.Warn("revocation lookup failed", zap.String("jti", id.TokenID), zap.Error(err))
			return nil
		}
		if revoked {
			return nil
		}
	}
	return id
}
