package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tg-moderator/lib/executor/mocks"
	"github.com/umputun/tg-moderator/lib/spamcheck"
)

func removeVerdict() spamcheck.Verdict {
	return spamcheck.Verdict{
		Action:      spamcheck.ActionRemove,
		Probability: 0.95,
		Message:     spamcheck.Message{ChatID: 10, ID: 42, From: spamcheck.User{ID: 7, UserName: "spammer"}, Text: "купите дешево!!!"},
		Restriction: spamcheck.Restriction{Permanent: true},
	}
}

func okPlatform() *mocks.PlatformMock {
	return &mocks.PlatformMock{
		DeleteMessageFunc:  func(ctx context.Context, chatID int64, msgID int) error { return nil },
		RestrictSenderFunc: func(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error { return nil },
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, Config{Retries: 1})
	assert.EqualError(t, err, "invalid platform: not set")
	_, err = New(okPlatform(), Config{Retries: 0})
	assert.EqualError(t, err, "invalid moderation retries: must be at least 1")
	_, err = New(okPlatform(), Config{Retries: 1, Backoff: -time.Second})
	assert.EqualError(t, err, "invalid moderation backoff: must not be negative")
	_, err = New(okPlatform(), Config{Retries: 1, CallTimeout: -time.Second})
	assert.EqualError(t, err, "invalid moderation timeout: must not be negative")

	e, err := New(nil, Config{Retries: 1, Dry: true})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, e.MaxWait)
}

func TestExecutor_AllowAndFlag(t *testing.T) {
	p := okPlatform()
	e, err := New(p, Config{Retries: 3})
	require.NoError(t, err)

	for _, act := range []spamcheck.Action{spamcheck.ActionAllow, spamcheck.ActionFlag, spamcheck.Action(99)} {
		v := removeVerdict()
		v.Action = act
		res := e.Execute(context.Background(), v)
		assert.Equal(t, act, res.Action)
		assert.Equal(t, spamcheck.EffectSkipped, res.Delete.Status)
		assert.Equal(t, spamcheck.EffectSkipped, res.Restrict.Status)
		assert.True(t, res.OK())
	}
	assert.Empty(t, p.DeleteMessageCalls())
	assert.Empty(t, p.RestrictSenderCalls())
}

func TestExecutor_Remove(t *testing.T) {
	p := okPlatform()
	e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond, CallTimeout: time.Second})
	require.NoError(t, err)

	res := e.Execute(context.Background(), removeVerdict())
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1}, res.Delete)
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1}, res.Restrict)

	require.Len(t, p.DeleteMessageCalls(), 1)
	assert.Equal(t, int64(10), p.DeleteMessageCalls()[0].ChatID)
	assert.Equal(t, 42, p.DeleteMessageCalls()[0].MsgID)
	require.Len(t, p.RestrictSenderCalls(), 1)
	assert.Equal(t, int64(10), p.RestrictSenderCalls()[0].ChatID)
	assert.Equal(t, int64(7), p.RestrictSenderCalls()[0].UserID)
	assert.Equal(t, spamcheck.Restriction{Permanent: true}, p.RestrictSenderCalls()[0].R)
}

func TestExecutor_DryRun(t *testing.T) {
	p := okPlatform()
	e, err := New(p, Config{Retries: 3, Dry: true})
	require.NoError(t, err)
	res := e.Execute(context.Background(), removeVerdict())
	assert.True(t, res.OK())
	assert.Equal(t, spamcheck.EffectSkipped, res.Delete.Status)
	assert.Empty(t, p.DeleteMessageCalls())
	assert.Empty(t, p.RestrictSenderCalls())
}

func TestExecutor_PartialFailure(t *testing.T) {
	t.Run("delete rejected, restrict done", func(t *testing.T) {
		p := okPlatform()
		p.DeleteMessageFunc = func(ctx context.Context, chatID int64, msgID int) error {
			return &PlatformError{Kind: KindRejected, Err: errors.New("not enough rights")}
		}
		e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond})
		require.NoError(t, err)

		res := e.Execute(context.Background(), removeVerdict())
		assert.False(t, res.OK())
		assert.Equal(t, spamcheck.EffectFailed, res.Delete.Status)
		assert.Equal(t, 1, res.Delete.Attempts, "rejected is not retried")
		assert.EqualError(t, res.Delete.Err, "rejected platform error: not enough rights")
		assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1}, res.Restrict)
		assert.Len(t, p.DeleteMessageCalls(), 1)
		assert.Len(t, p.RestrictSenderCalls(), 1, "succeeded effect not retried")
		assert.Contains(t, res.Err().Error(), "delete failed after 1 attempt(s)")
	})

	t.Run("restrict exhausted, delete done", func(t *testing.T) {
		p := okPlatform()
		p.RestrictSenderFunc = func(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error {
			return &PlatformError{Kind: KindTransient, Err: errors.New("too many requests")}
		}
		e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond})
		require.NoError(t, err)

		res := e.Execute(context.Background(), removeVerdict())
		assert.False(t, res.OK())
		assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1}, res.Delete)
		assert.Equal(t, spamcheck.EffectExhausted, res.Restrict.Status)
		assert.Greater(t, res.Restrict.Attempts, 1)
		assert.LessOrEqual(t, res.Restrict.Attempts, 3)
		assert.Len(t, p.RestrictSenderCalls(), res.Restrict.Attempts)
		assert.Len(t, p.DeleteMessageCalls(), 1, "succeeded effect not retried")
		assert.ErrorContains(t, res.Restrict.Err, "too many requests")
	})

	t.Run("restrict call blocks, delete still done", func(t *testing.T) {
		p := okPlatform()
		p.RestrictSenderFunc = func(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error {
			<-ctx.Done()
			return ctx.Err()
		}
		e, err := New(p, Config{Retries: 2, Backoff: time.Millisecond, CallTimeout: 20 * time.Millisecond})
		require.NoError(t, err)

		res := e.Execute(context.Background(), removeVerdict())
		assert.Equal(t, spamcheck.EffectDone, res.Delete.Status)
		assert.Equal(t, spamcheck.EffectExhausted, res.Restrict.Status)
		assert.ErrorContains(t, res.Restrict.Err, "call timeout")
		var pe *PlatformError
		require.ErrorAs(t, res.Restrict.Err, &pe)
		assert.Equal(t, KindTransient, pe.Kind)
	})
}

func TestExecutor_AlreadyDone(t *testing.T) {
	p := okPlatform()
	p.DeleteMessageFunc = func(ctx context.Context, chatID int64, msgID int) error {
		return &PlatformError{Kind: KindAlreadyDone, Err: errors.New("message to delete not found")}
	}
	p.RestrictSenderFunc = func(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error {
		return &PlatformError{Kind: KindAlreadyDone, Err: errors.New("user is already banned")}
	}
	e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond})
	require.NoError(t, err)

	res := e.Execute(context.Background(), removeVerdict())
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectAlreadyDone, Attempts: 1}, res.Delete)
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectAlreadyDone, Attempts: 1}, res.Restrict)
}

func TestExecutor_TransientRecovered(t *testing.T) {
	var deletes int32
	p := okPlatform()
	p.DeleteMessageFunc = func(ctx context.Context, chatID int64, msgID int) error {
		if atomic.AddInt32(&deletes, 1) == 1 {
			return errors.New("connection reset") // unclassified errors are transient
		}
		return nil
	}
	e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond})
	require.NoError(t, err)

	res := e.Execute(context.Background(), removeVerdict())
	assert.True(t, res.OK())
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 2}, res.Delete)
	assert.Equal(t, spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1}, res.Restrict)
}

func TestExecutor_RetryAfter(t *testing.T) {
	var calls int32
	p := okPlatform()
	p.RestrictSenderFunc = func(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return &PlatformError{Kind: KindTransient, Err: errors.New("too many requests"), RetryAfter: 50 * time.Millisecond}
		}
		return nil
	}
	e, err := New(p, Config{Retries: 3, Backoff: time.Millisecond})
	require.NoError(t, err)

	st := time.Now()
	res := e.Execute(context.Background(), removeVerdict())
	assert.True(t, res.OK())
	assert.Equal(t, 2, res.Restrict.Attempts)
	assert.GreaterOrEqual(t, time.Since(st), 50*time.Millisecond)
}

func TestExecutor_ContextCanceled(t *testing.T) {
	p := okPlatform()
	p.DeleteMessageFunc = func(ctx context.Context, chatID int64, msgID int) error {
		return &PlatformError{Kind: KindTransient, Err: errors.New("timeout")}
	}
	e, err := New(p, Config{Retries: 100, Backoff: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	res := e.Execute(ctx, removeVerdict())
	assert.Equal(t, spamcheck.EffectExhausted, res.Delete.Status)
	assert.Less(t, res.Delete.Attempts, 100)
	assert.Error(t, res.Delete.Err)
}

func TestPlatformError(t *testing.T) {
	err := &PlatformError{Kind: KindTransient, Err: errors.New("flood"), RetryAfter: 3 * time.Second}
	assert.EqualError(t, err, "transient platform error (retry after 3s): flood")
	assert.Equal(t, "already done", KindAlreadyDone.String())
	assert.Equal(t, "kind(9)", ErrorKind(9).String())
	wrapped := errors.Join(errors.New("ctx"), err)
	var pe *PlatformError
	require.ErrorAs(t, wrapped, &pe)
	assert.Equal(t, KindTransient, pe.Kind)
}
