package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"videotube/internal/apperror"
	"videotube/internal/model"
	"videotube/internal/ports"
	"videotube/internal/repository"
	"videotube/internal/security"

	"github.com/google/uuid"
)

const (
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

// UploadFile — файл из multipart-формы, передаваемый в хранилище медиа
type UploadFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Avatar     *UploadFile
	CoverImage *UploadFile
}

type UserService struct {
	UserRepository         ports.UserRepositoryInterface
	SubscriptionRepository ports.SubscriptionRepositoryInterface
	VideoRepository        ports.VideoRepositoryInterface
	MediaStorage           ports.MediaStorageInterface
}

func NewUserService(
	userRepository ports.UserRepositoryInterface,
	subscriptionRepository ports.SubscriptionRepositoryInterface,
	videoRepository ports.VideoRepositoryInterface,
	mediaStorage ports.MediaStorageInterface,
) *UserService {
	return &UserService{
		UserRepository:         userRepository,
		SubscriptionRepository: subscriptionRepository,
		VideoRepository:        videoRepository,
		MediaStorage:           mediaStorage,
	}
}

// Register создает пользователя: валидация полей, проверка уникальности,
// загрузка аватара и обложки в хранилище, хэширование пароля
func (service *UserService) Register(ctx context.Context, input *RegisterInput) (*model.PublicUser, error) {
	fullName := strings.TrimSpace(input.FullName)
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if fullName == "" || username == "" || email == "" || input.Password == "" {
		return nil, apperror.BadRequest("заполните все обязательные поля")
	}
	if input.Avatar == nil {
		return nil, apperror.BadRequest("аватар обязателен")
	}

	exists, err := service.UserRepository.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperror.Internal("ошибка проверки пользователя", err)
	}
	if exists {
		return nil, apperror.Conflict("пользователь с таким username или email уже существует")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal("ошибка хэширования пароля", err)
	}

	avatarURL, err := service.MediaStorage.Upload(ctx, avatarFolder, input.Avatar.Filename, input.Avatar.ContentType, input.Avatar.Content)
	if err != nil {
		return nil, apperror.Internal("ошибка загрузки аватара", err)
	}

	coverURL := ""
	if input.CoverImage != nil {
		coverURL, err = service.MediaStorage.Upload(ctx, coverFolder, input.CoverImage.Filename, input.CoverImage.ContentType, input.CoverImage.Content)
		if err != nil {
			return nil, apperror.Internal("ошибка загрузки обложки", err)
		}
	}

	user := &model.User{
		Id:         uuid.New().String(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   passwordHash,
	}

	if err := service.UserRepository.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("пользователь с таким username или email уже существует")
		}
		return nil, apperror.Internal("ошибка создания пользователя", err)
	}

	return user.Public(), nil
}

func (service *UserService) UpdateAccountDetails(ctx context.Context, userId string, fullName string, email string) (*model.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" && email == "" {
		return nil, apperror.BadRequest("укажите хотя бы одно поле для обновления")
	}

	user, err := service.UserRepository.UpdateAccountDetails(ctx, userId, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("пользователь не найден")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperror.Conflict("email уже занят")
		default:
			return nil, apperror.Internal("ошибка обновления данных", err)
		}
	}

	return user.Public(), nil
}

func (service *UserService) UpdateAvatar(ctx context.Context, userId string, file *UploadFile) (*model.PublicUser, error) {
	return service.updateImage(ctx, userId, avatarFolder, file, service.UserRepository.UpdateAvatar)
}

func (service *UserService) UpdateCoverImage(ctx context.Context, userId string, file *UploadFile) (*model.PublicUser, error) {
	return service.updateImage(ctx, userId, coverFolder, file, service.UserRepository.UpdateCoverImage)
}

func (service *UserService) updateImage(
	ctx context.Context,
	userId string,
	folder string,
	file *UploadFile,
	update func(ctx context.Context, userId string, url string) (*model.User, error),
) (*model.PublicUser, error) {
	if file == nil {
		return nil, apperror.BadRequest("файл не найден")
	}

	url, err := service.MediaStorage.Upload(ctx, folder, file.Filename, file.ContentType, file.Content)
	if err != nil {
		return nil, apperror.Internal("ошибка загрузки файла", err)
	}

	user, err := update(ctx, userId, url)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("пользователь не найден")
		}
		return nil, apperror.Internal("ошибка обновления изображения", err)
	}

	return user.Public(), nil
}

// ChannelProfile — профиль канала с подписками глазами зрителя
func (service *UserService) ChannelProfile(ctx context.Context, username string, viewerId string) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.BadRequest("имя канала не указано")
	}

	channel, err := service.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("канал не найден")
		}
		return nil, apperror.Internal("ошибка поиска канала", err)
	}

	subscriberCount, err := service.SubscriptionRepository.CountSubscribers(ctx, channel.Id)
	if err != nil {
		return nil, apperror.Internal("ошибка подсчета подписчиков", err)
	}

	subscribedToCount, err := service.SubscriptionRepository.CountSubscribedTo(ctx, channel.Id)
	if err != nil {
		return nil, apperror.Internal("ошибка подсчета подписок", err)
	}

	isSubscribed, err := service.SubscriptionRepository.IsSubscribed(ctx, viewerId, channel.Id)
	if err != nil {
		return nil, apperror.Internal("ошибка проверки подписки", err)
	}

	return &model.ChannelProfile{
		PublicUser:        *channel.Public(),
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

// ToggleSubscription подписывает или отписывает зрителя от канала
func (service *UserService) ToggleSubscription(ctx context.Context, subscriberId string, channelUsername string) (bool, error) {
	channel, err := service.UserRepository.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperror.NotFound("канал не найден")
		}
		return false, apperror.Internal("ошибка поиска канала", err)
	}

	if channel.Id == subscriberId {
		return false, apperror.BadRequest("нельзя подписаться на собственный канал")
	}

	subscribed, err := service.SubscriptionRepository.Toggle(ctx, subscriberId, channel.Id)
	if err != nil {
		return false, apperror.Internal("ошибка изменения подписки", err)
	}

	return subscribed, nil
}

// RecordWatch фиксирует просмотр ролика, повторный просмотр обновляет отметку времени
func (service *UserService) RecordWatch(ctx context.Context, userId string, videoId string) error {
	if _, err := uuid.Parse(videoId); err != nil {
		return apperror.BadRequest("неверный идентификатор ролика")
	}

	if err := service.VideoRepository.AddToWatchHistory(ctx, userId, videoId); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("ролик не найден")
		}
		return apperror.Internal("ошибка записи в историю просмотров", err)
	}

	return nil
}

func (service *UserService) WatchHistory(ctx context.Context, userId string) ([]model.WatchedVideo, error) {
	videos, err := service.VideoRepository.WatchHistory(ctx, userId)
	if err != nil {
		return nil, apperror.Internal("ошибка чтения истории просмотров", err)
	}
	return videos, nil
}
