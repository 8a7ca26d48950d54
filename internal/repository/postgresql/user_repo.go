package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) repository.UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	query := `INSERT INTO users (id, username, password_hash, is_disabled, is_elderly, created_at) 
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP) 
	           RETURNING created_at`
	// user.Password ở đây là password_hash
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Password, user.IsDisabled, user.IsElderly).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: tên người dùng '%s' đã tồn tại", repository.ErrDuplicateEntry, user.Username)
		}
		return nil, fmt.Errorf("UserRepository.Create: %w", err)
	}
	user.CreatedAt = user.CreatedAt.In(time.UTC)
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, is_disabled, is_elderly, created_at FROM users WHERE username = $1`
	return r.findOne(ctx, "FindByUsername", query, username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, is_disabled, is_elderly, created_at FROM users WHERE id = $1`
	return r.findOne(ctx, "FindByID", query, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password, &user.IsDisabled, &user.IsElderly, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("UserRepository.%s: %w", op, err)
	}
	user.CreatedAt = user.CreatedAt.In(time.UTC)
	return user, nil
}

// isUniqueViolation nhận cả lỗi của lib/pq và mã SQLSTATE 23505 từ pgx.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		return coded.SQLState() == "23505"
	}
	return false
}
