// Package auth menerbitkan dan memeriksa token sesi JWT.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/workflow"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultSessionTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("token tidak valid atau kadaluarsa")

// Claims adalah isi token sesi.
type Claims struct {
	UserID      uint          `json:"user_id"`
	NIP         string        `json:"nip"`
	Role        workflow.Role `json:"role"`
	UnitKerjaID uint          `json:"unit_kerja_id"`
	InstansiID  uint          `json:"instansi_id"`
	jwt.RegisteredClaims
}

func (c Claims) Actor() workflow.Actor {
	return workflow.Actor{
		ID:          c.UserID,
		Role:        c.Role,
		UnitKerjaID: c.UnitKerjaID,
		InstansiID:  c.InstansiID,
	}
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(p *model.Pegawai) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := Claims{
		UserID:      p.ID,
		NIP:         p.NIP,
		Role:        p.Role,
		UnitKerjaID: p.UnitKerjaID,
		InstansiID:  p.InstansiID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
