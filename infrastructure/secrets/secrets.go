package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"

	"github.com/rmonteiro89/lead-manager-api/internal/config"
)

// TokenCipher protege os tokens de acesso da API de anúncios em repouso. Os
// valores gravados na tabela de integrações são sempre o ciphertext.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type aesTokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher deriva a chave AES-256 a partir do segredo configurado e
// monta o modo GCM usado em ambas as direções.
func NewTokenCipher(cfg *config.Config) (TokenCipher, error) {
	key := sha256.Sum256([]byte(cfg.Auth.TokenKey))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a cifra de tokens")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar o modo GCM da cifra de tokens")
	}

	return &aesTokenCipher{gcm: gcm}, nil
}

func (c *aesTokenCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "erro ao gerar o nonce da cifra de tokens")
	}

	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aesTokenCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "erro ao decodificar o token cifrado")
	}

	nonceSize := c.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("token cifrado menor que o nonce esperado")
	}

	plaintext, err := c.gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", errors.Wrap(err, "erro ao decifrar o token")
	}

	return string(plaintext), nil
}
