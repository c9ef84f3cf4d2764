package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "blink"
	tokenAudience = "blink-api"
)

// ErrTokenInvalid is the only failure Decode exposes. Expired, forged,
// truncated and garbage tokens all collapse into it so callers (and clients)
// cannot probe which check rejected them; the underlying cause stays wrapped
// for logging.
var ErrTokenInvalid = errors.New("invalid or expired token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Codec turns session claims into opaque tokens and back. The claims are
// signed as an HS256 JWT, then the whole compact form is encrypted with
// AES-256-GCM so clients see neither payload nor structure. Both keys are
// derived from one configured secret.
type Codec struct {
	signKey []byte
	aead    cipher.AEAD
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}

	signKey := sha256.Sum256([]byte(secret + ".sign"))
	encKey := sha256.Sum256([]byte(secret + ".encrypt"))

	block, err := aes.NewCipher(encKey[:])

	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)

	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return &Codec{signKey: signKey[:], aead: aead}, nil
}

// Encode mints a token for the given identity with issuedAt = now and
// expiresAt = now + ttl. The GCM nonce is fresh per call, so two tokens for
// identical claims never share ciphertext.
func (c *Codec) Encode(userID uint, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signKey)

	if err != nil {
		return "", fmt.Errorf("sign claims: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())

	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(signed), nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode decrypts and verifies a token: integrity, signature, issuer,
// audience and expiry. Any failure yields ErrTokenInvalid.
func (c *Codec) Decode(token string) (*Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	ns := c.aead.NonceSize()

	if len(raw) < ns {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrTokenInvalid)
	}

	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	parsed, err := jwt.ParseWithClaims(string(plain), &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.signKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)

	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
