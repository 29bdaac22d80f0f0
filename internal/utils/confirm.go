package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
)

const confirmAudience = "movie-delete"

// ErrInvalidConfirmToken 删除确认令牌无效或已过期
var ErrInvalidConfirmToken = errors.New("invalid or expired confirmation")

// ConfirmClaims 删除确认令牌声明，Subject 为电影 ID，ID 为一次性令牌编号
type ConfirmClaims struct {
	Title string `json:"title"`
	jwt.RegisteredClaims
}

// IssueConfirmToken 为指定电影签发删除确认令牌
func IssueConfirmToken(secret, movieID, title string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ConfirmClaims{
		Title: title,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rand.Text(),
			Subject:   movieID,
			Audience:  jwt.ClaimStrings{confirmAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("签发确认令牌失败: %w", err)
	}
	return signed, nil
}

// VerifyConfirmToken 校验令牌并确认其绑定的是 movieID
func VerifyConfirmToken(secret, tokenString, movieID string) (*ConfirmClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidConfirmToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &ConfirmClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(confirmAudience),
		jwt.WithSubject(movieID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfirmToken, err)
	}

	claims, ok := token.Claims.(*ConfirmClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidConfirmToken
	}
	return claims, nil
}

// ConfirmLedger 记录已使用的确认令牌，同一令牌只能删除一次
type ConfirmLedger struct {
	used *lru.Cache[string, struct{}]
}

// NewConfirmLedger size 为最多记录的令牌数
func NewConfirmLedger(size int) (*ConfirmLedger, error) {
	used, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("init confirm ledger: %w", err)
	}
	return &ConfirmLedger{used: used}, nil
}

// Consume 标记令牌已使用，令牌此前已被使用时返回 false
func (l *ConfirmLedger) Consume(claims *ConfirmClaims) bool {
	seen, _ := l.used.ContainsOrAdd(claims.ID, struct{}{})
	return !seen
}
