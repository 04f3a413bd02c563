package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
)

func newTestStore(t *testing.T) (*OneTimeTokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewOneTimeTokenStore(NewFromRedis(rdb)), mr
}

func TestOTT_SaveAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, account.PurposeConfirmEmail, "tok-1", "u-1", time.Minute))

	uid, err := store.Consume(ctx, account.PurposeConfirmEmail, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
}

func TestOTT_ConsumeIsSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, account.PurposePasswordReset, "tok-1", "u-1", time.Minute))

	_, err := store.Consume(ctx, account.PurposePasswordReset, "tok-1")
	require.NoError(t, err)

	_, err = store.Consume(ctx, account.PurposePasswordReset, "tok-1")
	require.Error(t, err)
	assert.True(t, domain.Is(err, "token_invalid"))
}

func TestOTT_PurposeBound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, account.PurposeConfirmEmail, "tok-1", "u-1", time.Minute))

	// A confirm token must not work as a reset token.
	_, err := store.Consume(ctx, account.PurposePasswordReset, "tok-1")
	require.Error(t, err)

	// And the original purpose is still intact.
	uid, err := store.Consume(ctx, account.PurposeConfirmEmail, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
}

func TestOTT_PeekDoesNotConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, account.PurposePasswordReset, "tok-1", "u-1", time.Minute))

	uid, err := store.Peek(ctx, account.PurposePasswordReset, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	uid, err = store.Consume(ctx, account.PurposePasswordReset, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
}

func TestOTT_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, account.PurposeConfirmEmail, "tok-1", "u-1", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, account.PurposeConfirmEmail, "tok-1")
	require.Error(t, err)
	assert.True(t, domain.Is(err, "token_invalid"))
}

func TestOTT_SaveRejectsBadInput(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, account.PurposeConfirmEmail, "", "u-1", time.Minute))
	assert.Error(t, store.Save(ctx, account.PurposeConfirmEmail, "tok", "", time.Minute))
	assert.Error(t, store.Save(ctx, account.PurposeConfirmEmail, "tok", "u-1", 0))
}
