package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"videotube/internal/apperror"
	"videotube/internal/model"
	"videotube/internal/security"
)

// ApiResponse — единый конверт ответа
// swagger:model
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(writer http.ResponseWriter, status int, data interface{}, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(&ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeError отдает клиенту статус и сообщение ошибки, внутренние детали
// остаются в логах
func writeError(writer http.ResponseWriter, err error) {
	appError := apperror.From(err)
	if appError.Err != nil {
		log.Printf("%s: %v", appError.Message, appError.Err)
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(appError.Code)
	json.NewEncoder(writer).Encode(&ApiResponse{
		Success: false,
		Message: appError.Message,
	})
}

func setTokenCookies(writer http.ResponseWriter, tokensPair *model.TokensPair, accessTTL time.Duration, refreshTTL time.Duration) {
	http.SetCookie(writer, tokenCookie(security.AccessTokenCookie, tokensPair.AccessToken, accessTTL))
	http.SetCookie(writer, tokenCookie(security.RefreshTokenCookie, tokensPair.RefreshToken, refreshTTL))
}

func clearTokenCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, expiredCookie(security.AccessTokenCookie))
	http.SetCookie(writer, expiredCookie(security.RefreshTokenCookie))
}

func tokenCookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl).UTC(),
	}
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	}
}
