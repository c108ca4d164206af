package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct {
	MemoryBackend
	saveErr   error
	deleteErr error
	loadErr   error
}

func (f *failingBackend) Load(ctx context.Context) (Token, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	return f.MemoryBackend.Load(ctx)
}

func (f *failingBackend) Save(ctx context.Context, tok Token) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryBackend.Save(ctx, tok)
}

func (f *failingBackend) Delete(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryBackend.Delete(ctx)
}

func TestStore_SetGet(t *testing.T) {
	s := New(NewMemoryBackend(), nil)

	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), "tok-1"))
	tok, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, Token("tok-1"), tok)

	require.NoError(t, s.Set(context.Background(), "tok-2"))
	tok, _ = s.Get()
	assert.Equal(t, Token("tok-2"), tok, "set overwrites")
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := New(b, nil)
	require.NoError(t, s.Set(ctx, "tok"))

	require.NoError(t, s.Clear(ctx))
	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	_, ok = s.Get()
	assert.False(t, ok)

	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetEmpty(t *testing.T) {
	s := New(NewMemoryBackend(), nil)
	require.ErrorIs(t, s.Set(context.Background(), ""), ErrEmptyToken)
	assert.Equal(t, uint64(0), s.Epoch())
}

func TestStore_BearerToken(t *testing.T) {
	s := New(NewMemoryBackend(), nil)
	_, ok := s.BearerToken()
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), "abc"))
	v, ok := s.BearerToken()
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestStore_EpochGuards(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), nil)

	// A login starts, then the user logs out before it completes.
	started := s.Epoch()
	require.NoError(t, s.Clear(ctx))

	stored, err := s.SetIfEpoch(ctx, started, "late")
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok := s.Get()
	assert.False(t, ok, "stale login must not resurrect the session")

	// A verification starts, then the user logs in again.
	require.NoError(t, s.Set(ctx, "old"))
	checked := s.Epoch()
	require.NoError(t, s.Set(ctx, "new"))

	cleared, err := s.ClearIfEpoch(ctx, checked)
	require.NoError(t, err)
	assert.False(t, cleared)
	tok, _ := s.Get()
	assert.Equal(t, Token("new"), tok, "stale rejection must not wipe the newer session")

	cleared, err = s.ClearIfEpoch(ctx, s.Epoch())
	require.NoError(t, err)
	assert.True(t, cleared)
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestStore_SetBackendError(t *testing.T) {
	boom := errors.New("disk full")
	s := New(&failingBackend{saveErr: boom}, nil)

	err := s.Set(context.Background(), "tok")
	require.ErrorIs(t, err, boom)
	_, ok := s.Get()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), s.Epoch())
}

func TestStore_ClearBackendErrorStillForgets(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("locked")
	b := &failingBackend{}
	s := New(b, nil)
	require.NoError(t, s.Set(ctx, "tok"))

	b.deleteErr = boom
	require.ErrorIs(t, s.Clear(ctx), boom)
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestOpen_RestoresToken(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Save(ctx, "persisted"))

	s, err := Open(ctx, b, nil)
	require.NoError(t, err)
	tok, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, Token("persisted"), tok)
}

func TestOpen_LoadError(t *testing.T) {
	boom := errors.New("corrupt")
	_, err := Open(context.Background(), &failingBackend{loadErr: boom}, nil)
	require.ErrorIs(t, err, boom)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			_ = s.Clear(ctx)
			_, _ = s.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(100), s.Epoch())
}
