package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"churchku_backend/internals/constants"
	helperAuth "churchku_backend/internals/helpers/auth"
)

func newIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, 5*time.Minute)
}

func sampleIdentity() *helperAuth.Identity {
	return &helperAuth.Identity{
		MemberID:       uuid.New(),
		MemberName:     "김철수",
		ChurchID:       uuid.New(),
		ChurchName:     "새빛교회",
		ChurchTimezone: "Asia/Seoul",
		Role:           constants.RoleAdmin,
		SystemRole:     constants.SystemRoleNone,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	iss := newIssuer()
	id := sampleIdentity()

	raw, err := iss.IssueSession(id)
	require.NoError(t, err)
	require.NotEmpty(t, id.TokenID)

	got := iss.ParseSession(raw)
	require.NotNil(t, got)
	assert.Equal(t, id.MemberID, got.MemberID)
	assert.Equal(t, id.ChurchID, got.ChurchID)
	assert.Equal(t, "새빛교회", got.ChurchName)
	assert.Equal(t, constants.RoleAdmin, got.Role)
	assert.Equal(t, id.TokenID, got.TokenID)
	assert.False(t, got.IsSystemAdmin())
}

func TestParseSessionRejectsBadTokens(t *testing.T) {
	iss := newIssuer()
	raw, err := iss.IssueSession(sampleIdentity())
	require.NoError(t, err)

	assert.Nil(t, iss.ParseSession(""))
	assert.Nil(t, iss.ParseSession("not-a-jwt"))
	assert.Nil(t, iss.ParseSession(raw+"x"))

	other := NewTokenIssuer("other-secret", time.Hour, time.Minute)
	assert.Nil(t, other.ParseSession(raw))

	expired := newIssuer()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.IssueSession(sampleIdentity())
	require.NoError(t, err)
	assert.Nil(t, iss.ParseSession(old))
}

func TestTicketIsNotASession(t *testing.T) {
	iss := newIssuer()
	memberID := uuid.New()

	ticket, exp, err := iss.IssueTicket(memberID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	assert.Nil(t, iss.ParseSession(ticket))

	got, err := iss.ParseTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, memberID, got)

	session, err := iss.IssueSession(sampleIdentity())
	require.NoError(t, err)
	_, err = iss.ParseTicket(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSystemOnlySessionHasNoChurch(t *testing.T) {
	iss := newIssuer()
	id := &helperAuth.Identity{MemberID: uuid.New(), MemberName: "root", SystemRole: constants.SystemRoleAdmin}

	raw, err := iss.IssueSession(id)
	require.NoError(t, err)

	got := iss.ParseSession(raw)
	require.NotNil(t, got)
	assert.Equal(t, uuid.Nil, got.ChurchID)
	assert.True(t, got.IsSystemAdmin())
	assert.False(t, got.HasRole(constants.RoleMember))
}

func TestGateHonoursRedisRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	iss := newIssuer()
	store := NewRevocationStore(nil, rdb)
	gate := NewSessionGate(iss, store, zap.NewNop())
	ctx := context.Background()

	id := sampleIdentity()
	raw, err := iss.IssueSession(id)
	require.NoError(t, err)
	require.NotNil(t, gate.ParseSession(ctx, raw))

	require.NoError(t, store.Revoke(ctx, id.TokenID, id.ExpiresAt))
	assert.Nil(t, gate.ParseSession(ctx, raw))

	ttl := mr.TTL("churchku:revoked:" + id.TokenID)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestGateFailsClosedWhenStoreIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	iss := newIssuer()
	gate := NewSessionGate(iss, NewRevocationStore(nil, rdb), zap.NewNop())
	raw, err := iss.IssueSession(sampleIdentity())
	require.NoError(t, err)

	mr.Close()
	assert.Nil(t, gate.ParseSession(context.Background(), raw))
}

func TestRevokeIgnoresExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := &RedisRevocations{Client: rdb, Prefix: "p:"}
	require.NoError(t, store.Revoke(context.Background(), "gone", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("p:gone"))
}
