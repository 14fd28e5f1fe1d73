package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bubbles/internal/models"
)

// MessageStore manages customer contact messages in the database.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore returns a new MessageStore backed by the given database.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, message, read, admin_reply, replied_at, replied_by, created_at, updated_at`

func scanMessage(scanner interface{ Scan(...any) error }) (*models.Message, error) {
	var m models.Message
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Email, &m.Body, &m.Read,
		&m.AdminReply, &m.RepliedAt, &m.RepliedBy,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new contact message from the public form.
func (s *MessageStore) Create(name, email, body string) (*models.Message, error) {
	row := s.db.QueryRow(`
		INSERT INTO messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns,
		name, email, body,
	)
	m, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// List returns all messages, newest first.
func (s *MessageStore) List() ([]models.Message, error) {
	rows, err := s.db.Query(`SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

// FindByID retrieves a message by ID. Returns nil if not found.
func (s *MessageStore) FindByID(id uuid.UUID) (*models.Message, error) {
	row := s.db.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

// MarkRead flags a message as read.
func (s *MessageStore) MarkRead(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE messages SET read = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Reply attaches an admin reply to a message and marks it read.
func (s *MessageStore) Reply(id uuid.UUID, reply string, adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE messages SET
			admin_reply = $1, replied_at = NOW(), replied_by = $2,
			read = TRUE, updated_at = NOW()
		WHERE id = $3
	`, reply, adminID, id)
	if err != nil {
		return fmt.Errorf("reply to message: %w", err)
	}
	return nil
}

// Delete removes a message by ID.
func (s *MessageStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// UnreadCount returns how many messages have not been read yet.
func (s *MessageStore) UnreadCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE NOT read`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unread message count: %w", err)
	}
	return n, nil
}
