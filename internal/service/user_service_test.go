package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"videotube/internal/model"
	"videotube/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) CountSubscribers(ctx context.Context, channelId string) (int64, error) {
	args := m.Called(ctx, channelId)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberId string) (int64, error) {
	args := m.Called(ctx, subscriberId)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberId string, channelId string) (bool, error) {
	args := m.Called(ctx, subscriberId, channelId)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Toggle(ctx context.Context, subscriberId string, channelId string) (bool, error) {
	args := m.Called(ctx, subscriberId, channelId)
	return args.Bool(0), args.Error(1)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) WatchHistory(ctx context.Context, userId string) ([]model.WatchedVideo, error) {
	args := m.Called(ctx, userId)
	videos, _ := args.Get(0).([]model.WatchedVideo)
	return videos, args.Error(1)
}

func (m *MockVideoRepository) AddToWatchHistory(ctx context.Context, userId string, videoId string) error {
	return m.Called(ctx, userId, videoId).Error(0)
}

type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Upload(ctx context.Context, folder string, filename string, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, folder, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func avatarUpload() *UploadFile {
	return &UploadFile{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Content:     strings.NewReader("png-bytes"),
	}
}

func newUserService(mockRepo *MockUserRepository, mockSubscriptions *MockSubscriptionRepository, mockVideos *MockVideoRepository, mockStorage *MockMediaStorage) *UserService {
	return NewUserService(mockRepo, mockSubscriptions, mockVideos, mockStorage)
}

// 1
func TestRegister_BlankFields(t *testing.T) {
	ctx := context.Background()
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	_, err := userService.Register(ctx, &RegisterInput{
		FullName: "Ana Petrova",
		Username: "ana",
		Email:    "  ",
		Password: "Secret1",
		Avatar:   avatarUpload(),
	})
	assert.Error(t, err)
	assert.Equal(t, 400, appErrorCode(t, err))
}

// 2
func TestRegister_AvatarRequired(t *testing.T) {
	ctx := context.Background()
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	_, err := userService.Register(ctx, &RegisterInput{
		FullName: "Ana Petrova",
		Username: "ana",
		Email:    "ana@x.com",
		Password: "Secret1",
	})
	assert.Error(t, err)
	assert.Equal(t, 400, appErrorCode(t, err))
}

// 3
func TestRegister_DuplicateUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo, new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	mockRepo.On("ExistsByUsernameOrEmail", ctx, "ana", "ana@x.com").Return(true, nil)

	_, err := userService.Register(ctx, &RegisterInput{
		FullName: "Ana Petrova",
		Username: "Ana",
		Email:    "ANA@x.com",
		Password: "Secret1",
		Avatar:   avatarUpload(),
	})
	assert.Error(t, err)
	assert.Equal(t, 409, appErrorCode(t, err))
}

// 4
func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockStorage := new(MockMediaStorage)
	userService := newUserService(mockRepo, new(MockSubscriptionRepository), new(MockVideoRepository), mockStorage)

	mockRepo.On("ExistsByUsernameOrEmail", ctx, "ana", "ana@x.com").Return(false, nil)
	mockStorage.On("Upload", ctx, "avatars", "avatar.png", "image/png", mock.Anything).
		Return("http://storage/videotube-media/avatars/a.png", nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(user *model.User) bool {
		// пароль в записи уже захэширован, username и email нормализованы
		return user.Username == "ana" && user.Email == "ana@x.com" && user.Password != "Secret1"
	})).Return(nil)

	publicUser, err := userService.Register(ctx, &RegisterInput{
		FullName: "Ana Petrova",
		Username: " Ana ",
		Email:    "ANA@x.com",
		Password: "Secret1",
		Avatar:   avatarUpload(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "ana", publicUser.Username)
	assert.Equal(t, "http://storage/videotube-media/avatars/a.png", publicUser.Avatar)
	mockRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

// 5
func TestRegister_DuplicateRace(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockStorage := new(MockMediaStorage)
	userService := newUserService(mockRepo, new(MockSubscriptionRepository), new(MockVideoRepository), mockStorage)

	// проверка существования прошла, но вставка уперлась в UNIQUE
	mockRepo.On("ExistsByUsernameOrEmail", ctx, "ana", "ana@x.com").Return(false, nil)
	mockStorage.On("Upload", ctx, "avatars", "avatar.png", "image/png", mock.Anything).Return("http://storage/a.png", nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	_, err := userService.Register(ctx, &RegisterInput{
		FullName: "Ana Petrova",
		Username: "ana",
		Email:    "ana@x.com",
		Password: "Secret1",
		Avatar:   avatarUpload(),
	})
	assert.Error(t, err)
	assert.Equal(t, 409, appErrorCode(t, err))
}

// 6
func TestUpdateAccountDetails_NothingToUpdate(t *testing.T) {
	ctx := context.Background()
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	_, err := userService.UpdateAccountDetails(ctx, "user-id", "  ", "")
	assert.Error(t, err)
	assert.Equal(t, 400, appErrorCode(t, err))
}

// 7
func TestChannelProfile_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockSubscriptions := new(MockSubscriptionRepository)
	userService := newUserService(mockRepo, mockSubscriptions, new(MockVideoRepository), new(MockMediaStorage))

	channel := &model.User{Id: "channel-id", Username: "ana", Email: "ana@x.com", FullName: "Ana Petrova"}

	mockRepo.On("FindByUsername", ctx, "ana").Return(channel, nil)
	mockSubscriptions.On("CountSubscribers", ctx, "channel-id").Return(int64(42), nil)
	mockSubscriptions.On("CountSubscribedTo", ctx, "channel-id").Return(int64(7), nil)
	mockSubscriptions.On("IsSubscribed", ctx, "viewer-id", "channel-id").Return(true, nil)

	profile, err := userService.ChannelProfile(ctx, "Ana", "viewer-id")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), profile.SubscriberCount)
	assert.Equal(t, int64(7), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)
}

// 8
func TestChannelProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo, new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	mockRepo.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

	_, err := userService.ChannelProfile(ctx, "ghost", "viewer-id")
	assert.Error(t, err)
	assert.Equal(t, 404, appErrorCode(t, err))
}

// 9
func TestToggleSubscription_OwnChannel(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo, new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	channel := &model.User{Id: "channel-id", Username: "ana"}
	mockRepo.On("FindByUsername", ctx, "ana").Return(channel, nil)

	_, err := userService.ToggleSubscription(ctx, "channel-id", "ana")
	assert.Error(t, err)
	assert.Equal(t, 400, appErrorCode(t, err))
}

// 10
func TestToggleSubscription_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockSubscriptions := new(MockSubscriptionRepository)
	userService := newUserService(mockRepo, mockSubscriptions, new(MockVideoRepository), new(MockMediaStorage))

	channel := &model.User{Id: "channel-id", Username: "ana"}
	mockRepo.On("FindByUsername", ctx, "ana").Return(channel, nil)
	mockSubscriptions.On("Toggle", ctx, "viewer-id", "channel-id").Return(true, nil)

	subscribed, err := userService.ToggleSubscription(ctx, "viewer-id", "ana")
	assert.NoError(t, err)
	assert.True(t, subscribed)
}

// 11
func TestUpdateAvatar_FileRequired(t *testing.T) {
	ctx := context.Background()
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), new(MockVideoRepository), new(MockMediaStorage))

	_, err := userService.UpdateAvatar(ctx, "user-id", nil)
	assert.Error(t, err)
	assert.Equal(t, 400, appErrorCode(t, err))
}

// 12
func TestWatchHistory_Success(t *testing.T) {
	ctx := context.Background()
	mockVideos := new(MockVideoRepository)
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), mockVideos, new(MockMediaStorage))

	history := []model.WatchedVideo{{Video: model.Video{Id: "video-id", Title: "go tour"}, OwnerUsername: "ana"}}
	mockVideos.On("WatchHistory", ctx, "user-id").Return(history, nil)

	videos, err := userService.WatchHistory(ctx, "user-id")
	assert.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Equal(t, "go tour", videos[0].Title)
}

// 13
func TestRecordWatch_Success(t *testing.T) {
	ctx := context.Background()
	mockVideos := new(MockVideoRepository)
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), mockVideos, new(MockMediaStorage))

	videoId := uuid.New().String()
	mockVideos.On("AddToWatchHistory", ctx, "user-id", videoId).Return(nil)

	assert.NoError(t, userService.RecordWatch(ctx, "user-id", videoId))
	mockVideos.AssertExpectations(t)
}

// 14
func TestRecordWatch_InvalidVideoId(t *testing.T) {
	ctx := context.Background()
	mockVideos := new(MockVideoRepository)
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), mockVideos, new(MockMediaStorage))

	err := userService.RecordWatch(ctx, "user-id", "не-uuid")
	assert.Equal(t, 400, appErrorCode(t, err))
	mockVideos.AssertNotCalled(t, "AddToWatchHistory", mock.Anything, mock.Anything, mock.Anything)
}

// 15
func TestRecordWatch_VideoMissing(t *testing.T) {
	ctx := context.Background()
	mockVideos := new(MockVideoRepository)
	userService := newUserService(new(MockUserRepository), new(MockSubscriptionRepository), mockVideos, new(MockMediaStorage))

	videoId := uuid.New().String()
	mockVideos.On("AddToWatchHistory", ctx, "user-id", videoId).Return(repository.ErrNotFound)

	err := userService.RecordWatch(ctx, "user-id", videoId)
	assert.Equal(t, 404, appErrorCode(t, err))
}
