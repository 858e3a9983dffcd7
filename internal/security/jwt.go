package security

import (
	"errors"
	"fmt"
	"time"

	"videotube/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims — минимальная проекция пользователя внутри токена,
// хэш пароля в токен не попадает никогда
type Claims struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

var (
	ErrTokenExpired   = errors.New("токен просрочен")
	ErrTokenSignature = errors.New("неверная подпись токена")
	ErrTokenMalformed = errors.New("токен поврежден")
)

// TokenCodec подписывает и проверяет обе разновидности токенов.
// У access и refresh токенов свои секреты и свое время жизни.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

func NewTokenCodec(accessSecret []byte, refreshSecret []byte, accessTTL time.Duration, refreshTTL time.Duration, issuer string) *TokenCodec {
	return &TokenCodec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}
}

func (codec *TokenCodec) AccessTTL() time.Duration {
	return codec.accessTTL
}

func (codec *TokenCodec) RefreshTTL() time.Duration {
	return codec.refreshTTL
}

func (codec *TokenCodec) SignAccessToken(user *model.User) (string, error) {
	return codec.sign(user, codec.accessSecret, codec.accessTTL)
}

func (codec *TokenCodec) SignRefreshToken(user *model.User) (string, error) {
	return codec.sign(user, codec.refreshSecret, codec.refreshTTL)
}

func (codec *TokenCodec) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verifyJWT(tokenString, codec.accessSecret)
}

func (codec *TokenCodec) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verifyJWT(tokenString, codec.refreshSecret)
}

func (codec *TokenCodec) sign(user *model.User, secretKey []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		UserId:   user.Id,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti делает каждый выпущенный токен уникальным, иначе две подписи
			// в одну секунду дали бы одинаковые токены и ротацию нечем отличить
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    codec.issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := jwtToken.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func verifyJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if jwtToken.Valid == false {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
