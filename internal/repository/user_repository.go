package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"videotube/internal"
	"videotube/internal/model"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("запись не найдена")
	ErrDuplicate = errors.New("запись уже существует")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqError *pq.Error
	return errors.As(err, &pqError) && pqError.Code == pgUniqueViolation
}

type UserRepository struct {
	*internal.Database
}

func NewUserRepository(database *internal.Database) *UserRepository {
	return &UserRepository{database}
}

func (repository *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, full_name, avatar, cover_image, password)
			  VALUES (:id, :username, :email, :full_name, :avatar, :cover_image, :password)
			  RETURNING created_at, updated_at`

	rows, err := repository.DB.NamedQueryContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("ошибка вставки пользователя: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
			return fmt.Errorf("ошибка чтения временных меток: %w", err)
		}
	}

	return nil
}

func (repository *UserRepository) FindById(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	query := `SELECT * FROM users WHERE id = $1`
	err := repository.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return &user, nil
}

func (repository *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User

	query := `SELECT * FROM users WHERE username = $1`
	err := repository.DB.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return &user, nil
}

// FindByIdentifier ищет по нормализованному username или email
func (repository *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User

	query := `SELECT * FROM users WHERE username = $1 OR email = $1`
	err := repository.DB.GetContext(ctx, &user, query, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return &user, nil
}

func (repository *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	err := repository.DB.GetContext(ctx, &exists, query, username, email)
	if err != nil {
		return false, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return exists, nil
}

// UpdateRefreshToken перезаписывает сохраненный refresh токен пользователя.
// Передача невалидного NullString очищает токен (выход из аккаунта).
// Одновременные обновления одного пользователя не сериализуются: побеждает
// последняя запись, это известное узкое окно гонки.
func (repository *UserRepository) UpdateRefreshToken(ctx context.Context, userId string, refreshToken sql.NullString) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2`

	_, err := repository.DB.ExecContext(ctx, query, refreshToken, userId)
	if err != nil {
		return fmt.Errorf("ошибка обновления refresh токена: %w", err)
	}

	return nil
}

func (repository *UserRepository) UpdatePassword(ctx context.Context, userId string, passwordHash string) error {
	query := `UPDATE users SET password = $1, updated_at = now() WHERE id = $2`

	_, err := repository.DB.ExecContext(ctx, query, passwordHash, userId)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}

	return nil
}

func (repository *UserRepository) UpdateAccountDetails(ctx context.Context, userId string, fullName string, email string) (*model.User, error) {
	var user model.User

	query := `UPDATE users
			  SET full_name = COALESCE(NULLIF($1, ''), full_name),
			      email = COALESCE(NULLIF($2, ''), email),
			      updated_at = now()
			  WHERE id = $3
			  RETURNING *`

	err := repository.DB.GetContext(ctx, &user, query, fullName, email, userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("ошибка обновления данных пользователя: %w", err)
	}

	return &user, nil
}

func (repository *UserRepository) UpdateAvatar(ctx context.Context, userId string, avatarURL string) (*model.User, error) {
	return repository.updateImage(ctx, userId, "avatar", avatarURL)
}

func (repository *UserRepository) UpdateCoverImage(ctx context.Context, userId string, coverURL string) (*model.User, error) {
	return repository.updateImage(ctx, userId, "cover_image", coverURL)
}

func (repository *UserRepository) updateImage(ctx context.Context, userId string, column string, url string) (*model.User, error) {
	var user model.User

	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = now() WHERE id = $2 RETURNING *`, column)
	err := repository.DB.GetContext(ctx, &user, query, url, userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления изображения: %w", err)
	}

	return &user, nil
}
