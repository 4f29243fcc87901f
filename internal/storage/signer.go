package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultURLTTL = 60 * time.Second
	urlAudience   = "dokumen"
)

var (
	ErrInvalidURLToken = errors.New("tautan dokumen tidak valid")
	ErrURLTokenExpired = errors.New("tautan dokumen sudah kedaluwarsa")
)

// URLSigner menerbitkan token unduh berumur pendek untuk satu dokumen.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock mengganti sumber waktu, dipakai oleh test kedaluwarsa.
func (s *URLSigner) WithClock(now func() time.Time) *URLSigner {
	cp := *s
	cp.now = now
	return &cp
}

func (s *URLSigner) Sign(dokumenID uint) (string, time.Time, error) {
	issued := s.now()
	expires := issued.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(dokumenID), 10),
		Audience:  jwt.ClaimStrings{urlAudience},
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign dokumen url: %w", err)
	}
	return signed, expires, nil
}

// Verify mengembalikan id dokumen dari token yang masih berlaku. Token asli
// yang lewat masa berlakunya menghasilkan ErrURLTokenExpired, selain itu
// ErrInvalidURLToken.
func (s *URLSigner) Verify(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(urlAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// tanda tangan diperiksa lebih dulu, jadi token palsu tidak pernah sampai di sini
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrURLTokenExpired
		}
		return 0, ErrInvalidURLToken
	}
	if !token.Valid {
		return 0, ErrInvalidURLToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidURLToken
	}
	return uint(id), nil
}
