package ports

import (
	"context"
	"database/sql"
	"io"
	"time"

	"videotube/internal/model"
	"videotube/internal/security"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindById(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	UpdateRefreshToken(ctx context.Context, userId string, refreshToken sql.NullString) error
	UpdatePassword(ctx context.Context, userId string, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, userId string, fullName string, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userId string, avatarURL string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userId string, coverURL string) (*model.User, error)
}

type SubscriptionRepositoryInterface interface {
	CountSubscribers(ctx context.Context, channelId string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberId string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberId string, channelId string) (bool, error)
	Toggle(ctx context.Context, subscriberId string, channelId string) (bool, error)
}

type VideoRepositoryInterface interface {
	WatchHistory(ctx context.Context, userId string) ([]model.WatchedVideo, error)
	AddToWatchHistory(ctx context.Context, userId string, videoId string) error
}

type TokenCodecInterface interface {
	SignAccessToken(user *model.User) (string, error)
	SignRefreshToken(user *model.User) (string, error)
	VerifyAccessToken(tokenString string) (*security.Claims, error)
	VerifyRefreshToken(tokenString string) (*security.Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type MediaStorageInterface interface {
	Upload(ctx context.Context, folder string, filename string, contentType string, body io.Reader) (string, error)
}
