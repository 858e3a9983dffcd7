package repository

import (
	"context"
	"errors"
	"fmt"

	"videotube/internal"
	"videotube/internal/model"

	"github.com/lib/pq"
)

const pgForeignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqError *pq.Error
	return errors.As(err, &pqError) && pqError.Code == pgForeignKeyViolation
}

type VideoRepository struct {
	*internal.Database
}

func NewVideoRepository(database *internal.Database) *VideoRepository {
	return &VideoRepository{database}
}

// WatchHistory возвращает просмотренные пользователем ролики, новые первыми,
// вместе с публичными полями автора
func (repository *VideoRepository) WatchHistory(ctx context.Context, userId string) ([]model.WatchedVideo, error) {
	videos := []model.WatchedVideo{}

	query := `SELECT v.*, wh.watched_at,
			         u.username AS owner_username,
			         u.full_name AS owner_full_name,
			         u.avatar AS owner_avatar
			  FROM watch_history wh
			  JOIN videos v ON v.id = wh.video_id
			  JOIN users u ON u.id = v.owner_id
			  WHERE wh.user_id = $1 AND v.is_published = TRUE
			  ORDER BY wh.watched_at DESC`

	if err := repository.DB.SelectContext(ctx, &videos, query, userId); err != nil {
		return nil, fmt.Errorf("ошибка чтения истории просмотров: %w", err)
	}

	return videos, nil
}

// AddToWatchHistory фиксирует просмотр, повторный просмотр обновляет отметку времени
func (repository *VideoRepository) AddToWatchHistory(ctx context.Context, userId string, videoId string) error {
	query := `INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)
			  ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()`

	if _, err := repository.DB.ExecContext(ctx, query, userId, videoId); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка записи в историю просмотров: %w", err)
	}

	return nil
}
