package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"videotube/internal/apperror"
	"videotube/internal/model"
	"videotube/internal/security"
	"videotube/internal/service"
)

type SessionHandler struct {
	*service.SessionService
}

// LoginRequest содержит идентификатор (username или email) и пароль
// swagger:model
type LoginRequest struct {
	// Username или email пользователя
	// example: ana
	Identifier string `json:"identifier"`
	// Пароль
	// example: Secret1
	Password string `json:"password"`
}

// LoginResponse содержит публичный профиль и пару токенов
// swagger:model
type LoginResponse struct {
	User         *model.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

// RefreshTokenRequest содержит refresh токен в json формате
// swagger:model
type RefreshTokenRequest struct {
	// Refresh токен (если не передан в cookie)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest содержит старый и новый пароли
// swagger:model
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService}
}

// Login выполняет вход по username/email и паролю
// @Summary Вход в аккаунт
// @Description Проверяет пароль, выдает пару токенов в cookie и в теле ответа. Пример запроса: POST /api/v1/users/login с телом {"identifier": "ana", "password": "Secret1"}
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Данные для входа"
// @Success 200 {object} LoginResponse "успешный вход"
// @Failure 400 {object} ApiResponse "не заполнены обязательные поля"
// @Failure 401 {object} ApiResponse "неверный пароль"
// @Failure 404 {object} ApiResponse "пользователь не найден"
// @Router /login [post]
func (handler *SessionHandler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	var loginRequest LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&loginRequest); err != nil {
		writeError(writer, apperror.BadRequest("неверный json"))
		return
	}

	tokensPair, user, err := handler.SessionService.Login(ctx, loginRequest.Identifier, loginRequest.Password)
	if err != nil {
		writeError(writer, err)
		return
	}

	setTokenCookies(writer, tokensPair, handler.TokenCodec.AccessTTL(), handler.TokenCodec.RefreshTTL())
	writeJSON(writer, http.StatusOK, &LoginResponse{
		User:         user.Public(),
		AccessToken:  tokensPair.AccessToken,
		RefreshToken: tokensPair.RefreshToken,
	}, "выполнен вход в аккаунт")
}

// Refresh обновляет пару токенов по refresh токену
// @Summary Обновление токенов
// @Description Проверяет refresh токен из cookie или тела запроса, ротирует сохраненный токен и возвращает новую пару. Повторное предъявление уже ротированного токена отклоняется.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest false "Refresh токен, если не в cookie"
// @Success 200 {object} model.TokensPair "новая пара токенов"
// @Failure 401 {object} ApiResponse "невалидный или уже использованный refresh токен"
// @Router /refresh-token [post]
func (handler *SessionHandler) Refresh(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	presentedToken := ""
	if cookie, err := request.Cookie(security.RefreshTokenCookie); err == nil {
		presentedToken = cookie.Value
	}
	if presentedToken == "" {
		var refreshRequest RefreshTokenRequest
		if err := json.NewDecoder(request.Body).Decode(&refreshRequest); err == nil {
			presentedToken = refreshRequest.RefreshToken
		}
	}

	tokensPair, err := handler.SessionService.RefreshTokens(ctx, presentedToken)
	if err != nil {
		// cookie стираются только когда сессия действительно отозвана,
		// сбой хранилища не должен разлогинивать клиента
		if apperror.From(err).Code == http.StatusUnauthorized {
			clearTokenCookies(writer)
		}
		writeError(writer, err)
		return
	}

	setTokenCookies(writer, tokensPair, handler.TokenCodec.AccessTTL(), handler.TokenCodec.RefreshTTL())
	writeJSON(writer, http.StatusOK, tokensPair, "токены обновлены")
}

// Logout завершает сессию пользователя
// @Summary Выход из аккаунта
// @Description Очищает сохраненный refresh токен и обе cookie. Выданный ранее access токен остается валидным до истечения срока.
// @Tags Sessions
// @Produce json
// @Success 200 {object} ApiResponse "успешный выход"
// @Failure 401 {object} ApiResponse "пользователь не авторизован"
// @Security ApiKeyAuth
// @Router /logout [post]
func (handler *SessionHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	if err := handler.SessionService.Logout(ctx, user.Id); err != nil {
		writeError(writer, err)
		return
	}

	clearTokenCookies(writer)
	writeJSON(writer, http.StatusOK, nil, "выполнен выход из аккаунта")
}

// ChangePassword меняет пароль текущего пользователя
// @Summary Смена пароля
// @Description Проверяет старый пароль и сохраняет новый. Действующая сессия не завершается.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Старый и новый пароли"
// @Success 200 {object} ApiResponse "пароль изменен"
// @Failure 400 {object} ApiResponse "неверный json или пустой новый пароль"
// @Failure 401 {object} ApiResponse "неверный старый пароль"
// @Security ApiKeyAuth
// @Router /change-password [post]
func (handler *SessionHandler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	var changePasswordRequest ChangePasswordRequest
	if err := json.NewDecoder(request.Body).Decode(&changePasswordRequest); err != nil {
		writeError(writer, apperror.BadRequest("неверный json"))
		return
	}

	err := handler.SessionService.ChangePassword(ctx, user.Id, changePasswordRequest.OldPassword, changePasswordRequest.NewPassword)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, nil, "пароль успешно изменен")
}
