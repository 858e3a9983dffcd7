package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"videotube/internal/apperror"
	"videotube/internal/model"
	"videotube/internal/security"
	"videotube/internal/service"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

type UserHandler struct {
	*service.UserService
}

// UpdateAccountRequest содержит обновляемые поля профиля
// swagger:model
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// SubscriptionResponse содержит итоговое состояние подписки
// swagger:model
type SubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService}
}

// Register регистрирует нового пользователя
// @Summary Регистрация
// @Description Принимает multipart-форму с полями fullName, username, email, password и файлами avatar (обязателен) и coverImage. Файлы загружаются в хранилище медиа.
// @Tags Users
// @Accept mpfd
// @Produce json
// @Success 201 {object} model.PublicUser "созданный пользователь"
// @Failure 400 {object} ApiResponse "не заполнены обязательные поля или нет аватара"
// @Failure 409 {object} ApiResponse "username или email уже заняты"
// @Router /register [post]
func (handler *UserHandler) Register(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 15*time.Second)
	defer cancel()

	if err := request.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(writer, apperror.BadRequest("неверная multipart форма"))
		return
	}

	avatar, err := formFile(request, "avatar")
	if err != nil {
		writeError(writer, err)
		return
	}
	coverImage, err := formFile(request, "coverImage")
	if err != nil {
		writeError(writer, err)
		return
	}

	input := &service.RegisterInput{
		FullName:   request.FormValue("fullName"),
		Username:   request.FormValue("username"),
		Email:      request.FormValue("email"),
		Password:   request.FormValue("password"),
		Avatar:     avatar,
		CoverImage: coverImage,
	}

	publicUser, err := handler.UserService.Register(ctx, input)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusCreated, publicUser, "пользователь успешно зарегистрирован")
}

// CurrentUser возвращает профиль текущего пользователя
// @Summary Текущий пользователь
// @Tags Users
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} ApiResponse "не авторизован"
// @Security ApiKeyAuth
// @Router /current-user [get]
func (handler *UserHandler) CurrentUser(writer http.ResponseWriter, request *http.Request) {
	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	writeJSON(writer, http.StatusOK, user.Public(), "")
}

// UpdateAccount обновляет имя и/или email текущего пользователя
// @Summary Обновление профиля
// @Tags Users
// @Accept json
// @Produce json
// @Param request body UpdateAccountRequest true "Обновляемые поля"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} ApiResponse "нет полей для обновления"
// @Failure 409 {object} ApiResponse "email уже занят"
// @Security ApiKeyAuth
// @Router /update-account [patch]
func (handler *UserHandler) UpdateAccount(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	var updateRequest UpdateAccountRequest
	if err := json.NewDecoder(request.Body).Decode(&updateRequest); err != nil {
		writeError(writer, apperror.BadRequest("неверный json"))
		return
	}

	publicUser, err := handler.UserService.UpdateAccountDetails(ctx, user.Id, updateRequest.FullName, updateRequest.Email)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, publicUser, "данные профиля обновлены")
}

// UpdateAvatar заменяет аватар текущего пользователя
// @Summary Обновление аватара
// @Tags Users
// @Accept mpfd
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} ApiResponse "файл не найден"
// @Security ApiKeyAuth
// @Router /update-avatar [patch]
func (handler *UserHandler) UpdateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, "avatar", handler.UserService.UpdateAvatar)
}

// UpdateCoverImage заменяет обложку текущего пользователя
// @Summary Обновление обложки
// @Tags Users
// @Accept mpfd
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} ApiResponse "файл не найден"
// @Security ApiKeyAuth
// @Router /cover-image [patch]
func (handler *UserHandler) UpdateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, "coverImage", handler.UserService.UpdateCoverImage)
}

func (handler *UserHandler) updateImage(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	update func(ctx context.Context, userId string, file *service.UploadFile) (*model.PublicUser, error),
) {
	ctx, cancel := context.WithTimeout(request.Context(), 15*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	if err := request.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(writer, apperror.BadRequest("неверная multipart форма"))
		return
	}

	file, err := formFile(request, field)
	if err != nil {
		writeError(writer, err)
		return
	}

	publicUser, err := update(ctx, user.Id, file)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, publicUser, "изображение обновлено")
}

// ChannelProfile возвращает профиль канала с данными о подписках
// @Summary Профиль канала
// @Tags Users
// @Produce json
// @Param username path string true "username канала"
// @Success 200 {object} model.ChannelProfile
// @Failure 404 {object} ApiResponse "канал не найден"
// @Security ApiKeyAuth
// @Router /c/{username} [get]
func (handler *UserHandler) ChannelProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	profile, err := handler.UserService.ChannelProfile(ctx, chi.URLParam(request, "username"), user.Id)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, profile, "")
}

// ToggleSubscription подписывает или отписывает от канала
// @Summary Подписка на канал
// @Tags Users
// @Produce json
// @Param username path string true "username канала"
// @Success 200 {object} SubscriptionResponse
// @Failure 400 {object} ApiResponse "подписка на собственный канал"
// @Failure 404 {object} ApiResponse "канал не найден"
// @Security ApiKeyAuth
// @Router /c/{username}/subscribe [post]
func (handler *UserHandler) ToggleSubscription(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	subscribed, err := handler.UserService.ToggleSubscription(ctx, user.Id, chi.URLParam(request, "username"))
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, &SubscriptionResponse{Subscribed: subscribed}, "")
}

// WatchHistory возвращает историю просмотров текущего пользователя
// @Summary История просмотров
// @Tags Users
// @Produce json
// @Success 200 {array} model.WatchedVideo
// @Failure 401 {object} ApiResponse "не авторизован"
// @Security ApiKeyAuth
// @Router /watch-history [get]
func (handler *UserHandler) WatchHistory(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	videos, err := handler.UserService.WatchHistory(ctx, user.Id)
	if err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, videos, "")
}

// RecordWatch добавляет ролик в историю просмотров текущего пользователя
// @Summary Отметка о просмотре
// @Tags Users
// @Produce json
// @Param videoId path string true "идентификатор ролика"
// @Success 200 {object} ApiResponse
// @Failure 400 {object} ApiResponse "неверный идентификатор ролика"
// @Failure 404 {object} ApiResponse "ролик не найден"
// @Security ApiKeyAuth
// @Router /watch-history/{videoId} [post]
func (handler *UserHandler) RecordWatch(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 3*time.Second)
	defer cancel()

	user, ok := security.UserFromContext(request.Context())
	if ok == false || user == nil {
		writeError(writer, apperror.Unauthorized("не авторизован"))
		return
	}

	if err := handler.UserService.RecordWatch(ctx, user.Id, chi.URLParam(request, "videoId")); err != nil {
		writeError(writer, err)
		return
	}

	writeJSON(writer, http.StatusOK, nil, "просмотр добавлен в историю")
}

// formFile достает файл из multipart формы, отсутствие файла — не ошибка
func formFile(request *http.Request, field string) (*service.UploadFile, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.BadRequest("неверная multipart форма")
	}

	return &service.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, nil
}
