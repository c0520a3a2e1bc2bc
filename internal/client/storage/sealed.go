package storage

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/ridehail/internal/common"
	"github.com/dmitrijs2005/ridehail/internal/cryptox"
)

// SaltKey holds the per-install argon2 salt, hex encoded and unsealed.
const SaltKey = "seal_salt"

// SealedStore encrypts values before handing them to the inner store.
// Keys stay in clear text.
type SealedStore struct {
	inner Store
	key   []byte
}

// NewSealedStore derives the sealing key from secret and the install salt,
// creating and persisting the salt on first use.
func NewSealedStore(ctx context.Context, inner Store, secret []byte) (*SealedStore, error) {
	salt, err := loadOrCreateSalt(ctx, inner)
	if err != nil {
		return nil, err
	}
	return &SealedStore{inner: inner, key: cryptox.DeriveKey(secret, salt)}, nil
}

func loadOrCreateSalt(ctx context.Context, inner Store) ([]byte, error) {
	raw, ok, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, fmt.Errorf("read seal salt: %w", err)
	}
	if ok {
		salt, err := hex.DecodeString(raw)
		if err == nil && len(salt) == cryptox.SaltSize {
			return salt, nil
		}
		// an unreadable salt makes every sealed value unreadable too;
		// start over with a fresh one
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	if err := inner.Set(ctx, SaltKey, hex.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("write seal salt: %w", err)
	}
	return salt, nil
}

func (s *SealedStore) seal(value string) (string, error) {
	sealed, err := cryptox.Seal([]byte(value), s.key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Get returns ErrCorrupt when the value exists but does not open under the
// current key.
func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	return string(plain), true, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *SealedStore) SetMany(ctx context.Context, entries map[string]string) error {
	sealed := make(map[string]string, len(entries))
	for k, v := range entries {
		sv, err := s.seal(v)
		if err != nil {
			return err
		}
		sealed[k] = sv
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *SealedStore) RemoveMany(ctx context.Context, keys ...string) error {
	return s.inner.RemoveMany(ctx, keys...)
}
