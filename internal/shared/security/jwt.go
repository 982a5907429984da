package security

import (
	"errors"
	"os"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
)

var (
	ErrJWTSecretMissing = errors.New("jwt secret is not set")
	ErrCityNotGranted   = errors.New("city not granted by token")
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims 记录持有者可以操作的城市；Cities 为空表示不限。
type Claims struct {
	Player string `json:"player"`
	Cities []int  `json:"cities,omitempty"`
	jwt.RegisteredClaims
}

// CanOperate 判断 token 是否授权了该城市。
func (c *Claims) CanOperate(cityID int) bool {
	return len(c.Cities) == 0 || slices.Contains(c.Cities, cityID)
}

// 环境变量优先，其次配置文件。
func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = config.Conf().Security.JWTSecret
	}
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 签发 token，ttl<=0 时 7 天过期。
func Award(player string, cities []int, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{
		Player: player,
		Cities: cities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken 解析并验证 token。
func ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if token == nil || !token.Valid {
		return nil, nil, jwt.ErrTokenInvalidClaims
	}
	return token, claims, nil
}
