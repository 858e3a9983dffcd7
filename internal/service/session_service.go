package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"videotube/internal/apperror"
	"videotube/internal/model"
	"videotube/internal/notifier"
	"videotube/internal/ports"
	"videotube/internal/repository"
	"videotube/internal/security"
)

// SessionService управляет жизненным циклом сессии: вход, выход, обновление
// токенов и смена пароля. На пользователе хранится ровно один действующий
// refresh токен, каждый новый вход или refresh перезаписывает предыдущий.
//
// Известные ограничения, оставленные намеренно:
//   - access токен остается валидным до истечения срока даже после
//     logout/ротации, серверного отзыва access токенов нет;
//   - два одновременных refresh одного пользователя гонятся за колонку
//     refresh_token, побеждает последняя запись (без compare-and-swap).
type SessionService struct {
	UserRepository ports.UserRepositoryInterface
	TokenCodec     ports.TokenCodecInterface
	WebhookURL     string
	WebhookTimeout time.Duration
}

func NewSessionService(userRepository ports.UserRepositoryInterface, tokenCodec ports.TokenCodecInterface, webhookURL string, webhookTimeout time.Duration) *SessionService {
	return &SessionService{
		UserRepository: userRepository,
		TokenCodec:     tokenCodec,
		WebhookURL:     webhookURL,
		WebhookTimeout: webhookTimeout,
	}
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Login проверяет пароль и выдает новую пару токенов.
// Identifier — username или email, сравнение по нормализованной форме.
func (service *SessionService) Login(ctx context.Context, identifier string, password string) (*model.TokensPair, *model.User, error) {
	identifier = normalizeIdentifier(identifier)
	if identifier == "" || password == "" {
		return nil, nil, apperror.BadRequest("укажите имя пользователя или email и пароль")
	}

	user, err := service.UserRepository.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperror.NotFound("пользователь не найден")
		}
		return nil, nil, apperror.Internal("ошибка поиска пользователя", err)
	}

	if security.CheckPassword(password, user.Password) == false {
		return nil, nil, apperror.Unauthorized("неверный пароль")
	}

	tokensPair, err := service.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return tokensPair, user, nil
}

// Logout очищает сохраненный refresh токен. Повторный выход безвреден.
func (service *SessionService) Logout(ctx context.Context, userId string) error {
	err := service.UserRepository.UpdateRefreshToken(ctx, userId, sql.NullString{})
	if err != nil {
		return apperror.Internal("ошибка выхода из аккаунта", err)
	}
	return nil
}

// RefreshTokens проверяет предъявленный refresh токен и выдает новую пару.
// Токен сверяется с сохраненным значением байт в байт: уже ротированный
// токен отклоняется даже с валидной подписью — это точка обнаружения кражи.
// Каждый refresh токен можно использовать ровно один раз.
func (service *SessionService) RefreshTokens(ctx context.Context, presentedToken string) (*model.TokensPair, error) {
	if presentedToken == "" {
		return nil, apperror.Unauthorized("не авторизован")
	}

	claims, err := service.TokenCodec.VerifyRefreshToken(presentedToken)
	if err != nil {
		// конкретная причина (просрочен/подпись/формат) остается в логах
		log.Printf("невалидный refresh токен: %v", err)
		return nil, apperror.Unauthorized("не авторизован")
	}

	user, err := service.UserRepository.FindById(ctx, claims.UserId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("пользователь из refresh токена не найден: %v", err)
			return nil, apperror.Unauthorized("не авторизован")
		}
		return nil, apperror.Internal("ошибка поиска пользователя", err)
	}

	if user.RefreshToken.Valid == false || user.RefreshToken.String != presentedToken {
		// подпись валидна, но значение не совпадает с сохраненным:
		// предъявлен устаревший токен, завершаем сессию и шлем сигнал
		if err := service.UserRepository.UpdateRefreshToken(ctx, user.Id, sql.NullString{}); err != nil {
			log.Printf("ошибка сброса refresh токена: %v", err)
		}
		if service.WebhookURL != "" {
			go func(userId string) {
				if err := notifier.NotifyTokenReuse(service.WebhookURL, service.WebhookTimeout, userId); err != nil {
					log.Printf("ошибка отправки webhook: %v", err)
				}
			}(user.Id)
		}
		return nil, apperror.Unauthorized("не авторизован")
	}

	tokensPair, err := service.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return tokensPair, nil
}

// ChangePassword меняет пароль после проверки старого.
// Refresh токен намеренно не ротируется: действующая сессия переживает
// смену пароля, это осознанное решение, а не упущение.
func (service *SessionService) ChangePassword(ctx context.Context, userId string, oldPassword string, newPassword string) error {
	if newPassword == "" {
		return apperror.BadRequest("новый пароль не может быть пустым")
	}

	user, err := service.UserRepository.FindById(ctx, userId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("пользователь не найден")
		}
		return apperror.Internal("ошибка поиска пользователя", err)
	}

	if security.CheckPassword(oldPassword, user.Password) == false {
		return apperror.Unauthorized("неверный старый пароль")
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("ошибка хэширования пароля", err)
	}

	if err := service.UserRepository.UpdatePassword(ctx, userId, passwordHash); err != nil {
		return apperror.Internal("ошибка сохранения пароля", err)
	}

	return nil
}

// issueTokens — единственная точка ротации: новая пара подписывается,
// refresh токен сохраняется на пользователе поверх прежнего значения
func (service *SessionService) issueTokens(ctx context.Context, user *model.User) (*model.TokensPair, error) {
	accessToken, err := service.TokenCodec.SignAccessToken(user)
	if err != nil {
		return nil, apperror.Internal("ошибка генерации токенов", fmt.Errorf("access: %w", err))
	}

	refreshToken, err := service.TokenCodec.SignRefreshToken(user)
	if err != nil {
		return nil, apperror.Internal("ошибка генерации токенов", fmt.Errorf("refresh: %w", err))
	}

	err = service.UserRepository.UpdateRefreshToken(ctx, user.Id, sql.NullString{String: refreshToken, Valid: true})
	if err != nil {
		return nil, apperror.Internal("ошибка сохранения refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
