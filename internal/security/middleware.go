package security

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"videotube/internal/model"
)

// AccessTokenCookie — имя cookie с access токеном, refresh лежит в RefreshTokenCookie
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFinder — минимум, который нужен middleware для проверки существования пользователя
type UserFinder interface {
	FindById(ctx context.Context, id string) (*model.User, error)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// JWTMiddleware извлекает access токен из cookie или заголовка Authorization,
// проверяет подпись и срок действия и кладет пользователя в контекст запроса.
// Сравнение с сохраненным refresh токеном здесь не выполняется — это
// исключительно дело обновления токенов.
func JWTMiddleware(codec *TokenCodec, users UserFinder) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(codec, users, next))
	}
}

func handleAuthentication(codec *TokenCodec, users UserFinder, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		tokenString := extractAccessToken(request)
		if tokenString == "" {
			writeUnauthorized(writer)
			return
		}

		claims, err := codec.VerifyAccessToken(tokenString)
		if err != nil {
			// причина остается в логах, клиенту — только 401
			log.Printf("невалидный access токен: %v", err)
			writeUnauthorized(writer)
			return
		}

		user, err := users.FindById(request.Context(), claims.UserId)
		if err != nil {
			log.Printf("пользователь из токена не найден: %v", err)
			writeUnauthorized(writer)
			return
		}

		// в контекст уходит копия без хэша пароля и refresh токена
		contextUser := *user
		contextUser.Password = ""
		contextUser.RefreshToken = sql.NullString{}

		request = request.WithContext(context.WithValue(request.Context(), userContextKey, &contextUser))
		next.ServeHTTP(writer, request)
	}
}

func extractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := request.Header.Get("Authorization")
	if strings.HasPrefix(authorizationHeader, "Bearer ") == false {
		return ""
	}
	return strings.TrimPrefix(authorizationHeader, "Bearer ")
}

func writeUnauthorized(writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(writer).Encode(map[string]interface{}{
		"success": false,
		"message": "не авторизован",
	})
}
