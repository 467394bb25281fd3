// Package fieldcrypt encrypts identity records one field at a time.
//
// Each field becomes an independent token: base64url(nonce || sealed) where
// the sealed plaintext is a one-byte kind tag followed by the value's text.
// The field name is bound as additional data, so a token moved to another
// field fails to open.
package fieldcrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"

	"idsynth/internal/identity/models"
	dErrors "idsynth/pkg/domain-errors"
)

// KeySize is the length of a cipher key in bytes.
const KeySize = chacha20poly1305.KeySize

const (
	tagText    byte = 't'
	tagInteger byte = 'i'
)

var encoding = base64.RawURLEncoding

// Cipher holds a single key for the lifetime of the process.
type Cipher struct {
	aead  cipher.AEAD
	keyID uuid.UUID
}

// New creates a cipher with a fresh random key.
func New() (*Cipher, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate key")
	}
	return NewWithKey(key)
}

// NewWithKey creates a cipher from a caller-supplied 32-byte key.
func NewWithKey(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "key must be "+strconv.Itoa(KeySize)+" bytes")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to initialise cipher")
	}
	return &Cipher{aead: aead, keyID: uuid.New()}, nil
}

// KeyID identifies the key in logs without exposing it.
func (c *Cipher) KeyID() string {
	return c.keyID.String()
}

// EncryptRecord seals every field of r.
func (c *Cipher) EncryptRecord(r models.Record) (models.EncryptedRecord, error) {
	out := make(models.EncryptedRecord, len(models.Fields()))
	for _, f := range models.Fields() {
		token, err := c.EncryptField(f, r.Get(f))
		if err != nil {
			return nil, err
		}
		out[f] = token
	}
	return out, nil
}

// EncryptField seals a single value for field f.
func (c *Cipher) EncryptField(f models.Field, v models.Value) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+1+len(v.String())+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate nonce")
	}
	plain := append([]byte{kindTag(v)}, v.String()...)
	sealed := c.aead.Seal(nonce, nonce, plain, []byte(f))
	return encoding.EncodeToString(sealed), nil
}

// DecryptRecord opens every field of enc. It returns a record only when all
// fields open; otherwise it fails with DecryptionFailure naming the field.
func (c *Cipher) DecryptRecord(enc models.EncryptedRecord) (models.Record, error) {
	values := make(map[models.Field]models.Value, len(enc))
	for _, f := range models.Fields() {
		token, ok := enc[f]
		if !ok {
			return models.Record{}, dErrors.New(dErrors.CodeDecryptionFailure, "missing encrypted field "+string(f))
		}
		v, err := c.DecryptField(f, token)
		if err != nil {
			return models.Record{}, err
		}
		values[f] = v
	}
	if len(enc) != len(values) {
		return models.Record{}, dErrors.New(dErrors.CodeDecryptionFailure, "encrypted record has unknown fields")
	}
	r, err := models.FromFields(values)
	if err != nil {
		return models.Record{}, dErrors.Wrap(err, dErrors.CodeDecryptionFailure, "decrypted record is invalid")
	}
	return r, nil
}

// DecryptField opens a token produced by EncryptField for the same field.
func (c *Cipher) DecryptField(f models.Field, token string) (models.Value, error) {
	fail := func() (models.Value, error) {
		return models.Value{}, dErrors.New(dErrors.CodeDecryptionFailure, "failed to decrypt field "+string(f))
	}
	raw, err := encoding.DecodeString(token)
	if err != nil || len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return fail()
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, []byte(f))
	if err != nil || len(plain) == 0 {
		return fail()
	}
	switch plain[0] {
	case tagText:
		return models.Text(string(plain[1:])), nil
	case tagInteger:
		n, err := strconv.ParseInt(string(plain[1:]), 10, 64)
		if err != nil {
			return fail()
		}
		return models.Integer(n), nil
	}
	return fail()
}

func kindTag(v models.Value) byte {
	if v.Kind() == models.KindInteger {
		return tagInteger
	}
	return tagText
}
