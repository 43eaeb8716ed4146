package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/socialcore/socialcore/pkg/idx"
	"github.com/socialcore/socialcore/pkg/jwtx"
)

// initSigningKeys generates an ephemeral Ed25519 signing key at startup and
// publishes its public half through the key set. Tokens do not survive a
// restart; session continuity comes from the stored refresh tokens.
func initSigningKeys(logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate Ed25519 key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, priv)
	if err != nil {
		return nil, nil, err
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, err
	}

	logger.Info("signing key generated", "kid", kid, "alg", signer.Alg())
	return signer, keys, nil
}
