package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

// Plant methods

func (s *PostgresStorage) CreatePlant(ctx context.Context, plant *models.Plant) error {
	query := `
		INSERT INTO plants (user_id, plant_name, scientific_name, family, image_url, difficulty, identified_via)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		plant.UserID,
		plant.PlantName,
		plant.ScientificName,
		plant.Family,
		plant.ImageURL,
		plant.Difficulty,
		plant.IdentifiedVia,
	).Scan(&plant.ID, &plant.CreatedAt, &plant.UpdatedAt)

	if err != nil {
		return &apperr.PersistenceError{Op: "create plant", Err: err}
	}
	return nil
}

func (s *PostgresStorage) GetPlant(ctx context.Context, id string) (*models.Plant, error) {
	query := `
		SELECT id, user_id, plant_name, scientific_name, family, image_url,
		       difficulty, identified_via, care_guide, created_at, updated_at
		FROM plants
		WHERE id = $1`

	plant, err := scanPlant(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Entity: "plant", ID: id}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "get plant", Err: err}
	}
	return plant, nil
}

func (s *PostgresStorage) ListPlantsByUser(ctx context.Context, userID string) ([]models.Plant, error) {
	query := `
		SELECT id, user_id, plant_name, scientific_name, family, image_url,
		       difficulty, identified_via, care_guide, created_at, updated_at
		FROM plants
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return s.queryPlants(ctx, query, userID)
}

func (s *PostgresStorage) ListPlants(ctx context.Context) ([]models.Plant, error) {
	query := `
		SELECT id, user_id, plant_name, scientific_name, family, image_url,
		       difficulty, identified_via, care_guide, created_at, updated_at
		FROM plants
		ORDER BY created_at`

	return s.queryPlants(ctx, query)
}

func (s *PostgresStorage) queryPlants(ctx context.Context, query string, args ...any) ([]models.Plant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "query plants", Err: err}
	}
	defer rows.Close()

	var plants []models.Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, &apperr.PersistenceError{Op: "scan plant", Err: err}
		}
		plants = append(plants, *plant)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "query plants", Err: err}
	}
	return plants, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*models.Plant, error) {
	var (
		plant     models.Plant
		guideJSON []byte
	)
	err := row.Scan(
		&plant.ID,
		&plant.UserID,
		&plant.PlantName,
		&plant.ScientificName,
		&plant.Family,
		&plant.ImageURL,
		&plant.Difficulty,
		&plant.IdentifiedVia,
		&guideJSON,
		&plant.CreatedAt,
		&plant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(guideJSON) > 0 {
		var guide models.CareGuide
		if err := json.Unmarshal(guideJSON, &guide); err != nil {
			return nil, fmt.Errorf("error decoding care guide: %v", err)
		}
		plant.CareGuide = &guide
	}
	return &plant, nil
}

func (s *PostgresStorage) UpdatePlant(ctx context.Context, plant *models.Plant) error {
	query := `
		UPDATE plants
		SET plant_name = $1, scientific_name = $2, family = $3, image_url = $4,
		    difficulty = $5, updated_at = $6
		WHERE id = $7`

	result, err := s.db.ExecContext(ctx, query,
		plant.PlantName,
		plant.ScientificName,
		plant.Family,
		plant.ImageURL,
		plant.Difficulty,
		time.Now(),
		plant.ID,
	)
	if err != nil {
		return &apperr.PersistenceError{Op: "update plant", Err: err}
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &apperr.NotFoundError{Entity: "plant", ID: plant.ID}
	}
	return nil
}

func (s *PostgresStorage) DeletePlant(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return &apperr.PersistenceError{Op: "delete plant", Err: err}
	}
	return nil
}

func (s *PostgresStorage) SetCareGuide(ctx context.Context, plantID string, guide *models.CareGuide) error {
	guideJSON, err := json.Marshal(guide)
	if err != nil {
		return fmt.Errorf("error encoding care guide: %v", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE plants SET care_guide = $1, updated_at = $2 WHERE id = $3`,
		guideJSON, time.Now(), plantID)
	if err != nil {
		return &apperr.PersistenceError{Op: "set care guide", Err: err}
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &apperr.NotFoundError{Entity: "plant", ID: plantID}
	}
	return nil
}

// Chat methods

func (s *PostgresStorage) AppendChatTurn(ctx context.Context, userMsg, reply *models.ChatMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &apperr.PersistenceError{Op: "append chat turn", Err: err}
	}
	defer tx.Rollback()

	query := `
		INSERT INTO plant_chats (plant_id, user_id, role, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for _, msg := range []*models.ChatMessage{userMsg, reply} {
		err := tx.QueryRowContext(ctx, query,
			msg.PlantID, msg.UserID, msg.Role, msg.Message,
		).Scan(&msg.ID, &msg.CreatedAt)
		if err != nil {
			return &apperr.PersistenceError{Op: "append chat turn", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &apperr.PersistenceError{Op: "append chat turn", Err: err}
	}
	return nil
}

func (s *PostgresStorage) ListChatMessages(ctx context.Context, plantID string, limit int) ([]models.ChatMessage, error) {
	// The tail of the conversation, returned in ascending order.
	query := `
		SELECT id, plant_id, user_id, role, message, created_at
		FROM plant_chats
		WHERE plant_id = $1
		ORDER BY created_at`
	args := []any{plantID}
	if limit > 0 {
		query = `
			SELECT id, plant_id, user_id, role, message, created_at
			FROM (
				SELECT id, plant_id, user_id, role, message, created_at
				FROM plant_chats
				WHERE plant_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			) recent
			ORDER BY created_at`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list chat messages", Err: err}
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.PlantID, &msg.UserID, &msg.Role, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, &apperr.PersistenceError{Op: "scan chat message", Err: err}
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "list chat messages", Err: err}
	}
	return msgs, nil
}

func (s *PostgresStorage) ClearChatMessages(ctx context.Context, plantID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plant_chats WHERE plant_id = $1`, plantID)
	if err != nil {
		return &apperr.PersistenceError{Op: "clear chat messages", Err: err}
	}
	return nil
}

// Journal methods

func (s *PostgresStorage) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO growth_logs (plant_id, user_id, note, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, logged_at`

	err := s.db.QueryRowContext(ctx, query,
		entry.PlantID, entry.UserID, entry.Note, entry.ImageURL,
	).Scan(&entry.ID, &entry.LoggedAt)
	if err != nil {
		return &apperr.PersistenceError{Op: "create journal entry", Err: err}
	}
	return nil
}

func (s *PostgresStorage) ListJournalEntries(ctx context.Context, plantID string, limit int) ([]models.JournalEntry, error) {
	query := `
		SELECT id, plant_id, user_id, note, image_url, logged_at
		FROM growth_logs
		WHERE plant_id = $1
		ORDER BY logged_at DESC`
	args := []any{plantID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list journal entries", Err: err}
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(&entry.ID, &entry.PlantID, &entry.UserID, &entry.Note, &entry.ImageURL, &entry.LoggedAt); err != nil {
			return nil, &apperr.PersistenceError{Op: "scan journal entry", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "list journal entries", Err: err}
	}
	return entries, nil
}

func (s *PostgresStorage) DeleteJournalEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM growth_logs WHERE id = $1`, id)
	if err != nil {
		return &apperr.PersistenceError{Op: "delete journal entry", Err: err}
	}
	return nil
}

// Notification methods

func (s *PostgresStorage) LatestNotification(ctx context.Context, plantID string, typ models.NotificationType) (*models.Notification, error) {
	query := `
		SELECT id, user_id, plant_id, type, message, read, created_at
		FROM notifications
		WHERE plant_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var n models.Notification
	err := s.db.QueryRowContext(ctx, query, plantID, typ).Scan(
		&n.ID, &n.UserID, &n.PlantID, &n.Type, &n.Message, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "latest notification", Err: err}
	}
	return &n, nil
}

func (s *PostgresStorage) ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, plant_id, type, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list notifications", Err: err}
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.PlantID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, &apperr.PersistenceError{Op: "scan notification", Err: err}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.PersistenceError{Op: "list notifications", Err: err}
	}
	return notifications, nil
}

func (s *PostgresStorage) InsertNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &apperr.PersistenceError{Op: "insert notifications", Err: err}
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (user_id, plant_id, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for i := range notifications {
		n := &notifications[i]
		err := tx.QueryRowContext(ctx, query, n.UserID, n.PlantID, n.Type, n.Message).
			Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return &apperr.PersistenceError{Op: "insert notifications", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &apperr.PersistenceError{Op: "insert notifications", Err: err}
	}
	return nil
}

func (s *PostgresStorage) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return &apperr.PersistenceError{Op: "mark notification read", Err: err}
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &apperr.NotFoundError{Entity: "notification", ID: id}
	}
	return nil
}

func (s *PostgresStorage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return &apperr.PersistenceError{Op: "mark all notifications read", Err: err}
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
