package postgresql

import (
	"database/sql"
	"fmt"

	"github.com/KeshavDaBoss/smartparkv5/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func NewDB(cfg *config.Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)

	db, err := sql.Open("pgx", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở kết nối database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("lỗi ping database: %w", err)
	}
	return db, nil
}

// Schema tối thiểu cho user store và sensor event log. Chạy idempotent lúc khởi động.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_disabled   BOOLEAN NOT NULL DEFAULT FALSE,
	is_elderly    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sensor_events_log (
	id               BIGSERIAL PRIMARY KEY,
	received_at      TIMESTAMPTZ NOT NULL,
	source           TEXT,
	payload          JSONB,
	processed_status TEXT,
	processing_notes TEXT
);`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("lỗi tạo schema: %w", err)
	}
	return nil
}
