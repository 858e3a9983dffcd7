package repository

import (
	"context"
	"fmt"

	"videotube/internal"

	"github.com/google/uuid"
)

type SubscriptionRepository struct {
	*internal.Database
}

func NewSubscriptionRepository(database *internal.Database) *SubscriptionRepository {
	return &SubscriptionRepository{database}
}

func (repository *SubscriptionRepository) CountSubscribers(ctx context.Context, channelId string) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`
	if err := repository.DB.GetContext(ctx, &count, query, channelId); err != nil {
		return 0, fmt.Errorf("ошибка подсчета подписчиков: %w", err)
	}

	return count, nil
}

func (repository *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberId string) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`
	if err := repository.DB.GetContext(ctx, &count, query, subscriberId); err != nil {
		return 0, fmt.Errorf("ошибка подсчета подписок: %w", err)
	}

	return count, nil
}

func (repository *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberId string, channelId string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`
	if err := repository.DB.GetContext(ctx, &exists, query, subscriberId, channelId); err != nil {
		return false, fmt.Errorf("ошибка проверки подписки: %w", err)
	}

	return exists, nil
}

// Toggle удаляет подписку, если она есть, иначе создает новую.
// Возвращает итоговое состояние: true — подписан.
func (repository *SubscriptionRepository) Toggle(ctx context.Context, subscriberId string, channelId string) (bool, error) {
	deleteQuery := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	result, err := repository.DB.ExecContext(ctx, deleteQuery, subscriberId, channelId)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка проверки удаления подписки: %w", err)
	}
	if rowsAffected > 0 {
		return false, nil
	}

	insertQuery := `INSERT INTO subscriptions (id, subscriber_id, channel_id) VALUES ($1, $2, $3)
					ON CONFLICT (subscriber_id, channel_id) DO NOTHING`
	if _, err := repository.DB.ExecContext(ctx, insertQuery, uuid.New().String(), subscriberId, channelId); err != nil {
		return false, fmt.Errorf("ошибка создания подписки: %w", err)
	}

	return true, nil
}
