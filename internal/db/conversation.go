package db

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/models"
)

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

const conversationColumns = `id, name, agent_id, prompt, temperature, folder_id, created_at, updated_at`

// CreateConversation stores a new conversation. Unset optional fields are
// stored as NULL. An ID is generated when conv.ID is empty. Messages on
// conv are not stored; use CreateMessage.
func (d *DB) CreateConversation(conv models.Conversation) (*models.Conversation, error) {
	return WithLockResult(d, func() (*models.Conversation, error) {
		if conv.ID == "" {
			conv.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		conv.CreatedAt = now
		conv.UpdatedAt = now

		agentID, prompt, temperature, folderID := optionalColumns(conv)

		_, err := d.db.Exec(
			`INSERT INTO conversations (id, name, agent_id, prompt, temperature, folder_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			conv.ID, conv.Name, agentID, prompt, temperature, folderID, conv.CreatedAt, conv.UpdatedAt,
		)
		if err != nil {
			log.Printf("[DB] CreateConversation failed: exec error err=%v", err)
			return nil, err
		}

		log.Printf("[DB] CreateConversation completed conversation_id=%s agent_id=%v", conv.ID, agentID)

		conv.Messages = nil
		return &conv, nil
	})
}

// GetConversation retrieves a conversation and its messages.
// The returned record is not normalized.
func (d *DB) GetConversation(id string) (*models.Conversation, error) {
	return WithLockResult(d, func() (*models.Conversation, error) {
		row := d.db.QueryRow(
			`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`,
			id,
		)

		conv, err := scanConversation(row)
		if err != nil {
			return nil, err
		}

		conv.Messages, err = d.loadMessages(conv.ID)
		if err != nil {
			return nil, err
		}

		return conv, nil
	})
}

// GetAllConversations retrieves all conversations, most recently updated first
func (d *DB) GetAllConversations() ([]models.Conversation, error) {
	return WithLockResult(d, func() ([]models.Conversation, error) {
		rows, err := d.db.Query(
			`SELECT ` + conversationColumns + ` FROM conversations ORDER BY updated_at DESC, id ASC`,
		)
		if err != nil {
			return nil, err
		}

		var conversations []models.Conversation
		for rows.Next() {
			conv, err := scanConversation(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			conversations = append(conversations, *conv)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()

		// The single connection must be released by rows before querying messages
		for i := range conversations {
			msgs, err := d.loadMessages(conversations[i].ID)
			if err != nil {
				return nil, err
			}
			conversations[i].Messages = msgs
		}

		return conversations, nil
	})
}

// UpdateConversation overwrites name, agent, prompt, temperature and folder.
// Returns sql.ErrNoRows when the conversation does not exist.
func (d *DB) UpdateConversation(conv models.Conversation) (*models.Conversation, error) {
	return WithLockResult(d, func() (*models.Conversation, error) {
		agentID, prompt, temperature, folderID := optionalColumns(conv)
		now := time.Now().UTC()

		result, err := d.db.Exec(
			`UPDATE conversations
			SET name = ?, agent_id = ?, prompt = ?, temperature = ?, folder_id = ?, updated_at = ?
			WHERE id = ?`,
			conv.Name, agentID, prompt, temperature, folderID, now, conv.ID,
		)
		if err != nil {
			log.Printf("[DB] UpdateConversation failed: exec error err=%v", err)
			return nil, err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, sql.ErrNoRows
		}

		updated, err := scanConversation(d.db.QueryRow(
			`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`,
			conv.ID,
		))
		if err != nil {
			return nil, err
		}
		updated.Messages, err = d.loadMessages(conv.ID)
		if err != nil {
			return nil, err
		}

		log.Printf("[DB] UpdateConversation completed conversation_id=%s", conv.ID)
		return updated, nil
	})
}

// DeleteConversation deletes a conversation and its messages
func (d *DB) DeleteConversation(id string) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return sql.ErrNoRows
		}

		log.Printf("[DB] DeleteConversation completed conversation_id=%s", id)
		return nil
	})
}

// CreateMessage appends a message to a conversation and bumps its updated_at
func (d *DB) CreateMessage(conversationID string, role models.Role, content string) (*models.Message, error) {
	return WithLockResult(d, func() (*models.Message, error) {
		log.Printf("[DB] CreateMessage started conversation_id=%s role=%s", conversationID, role)

		now := time.Now().UTC()
		result, err := d.db.Exec(
			`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
			conversationID, string(role), content, now,
		)
		if err != nil {
			log.Printf("[DB] CreateMessage failed: exec error err=%v", err)
			return nil, err
		}

		id, err := result.LastInsertId()
		if err != nil {
			log.Printf("[DB] CreateMessage failed: get last insert id err=%v", err)
			return nil, err
		}

		if _, err := d.db.Exec(
			`UPDATE conversations SET updated_at = ? WHERE id = ?`,
			now, conversationID,
		); err != nil {
			return nil, err
		}

		log.Printf("[DB] CreateMessage completed conversation_id=%s message_id=%d", conversationID, id)

		return &models.Message{
			ID:             id,
			ConversationID: conversationID,
			Role:           role,
			Content:        content,
			CreatedAt:      now,
		}, nil
	})
}

// GetMessages retrieves all messages in a conversation in chronological order
func (d *DB) GetMessages(conversationID string) ([]models.Message, error) {
	return WithLockResult(d, func() ([]models.Message, error) {
		return d.loadMessages(conversationID)
	})
}

// loadMessages must be called with the lock held
func (d *DB) loadMessages(conversationID string) ([]models.Message, error) {
	rows, err := d.db.Query(
		`SELECT id, conversation_id, role, content, created_at
		FROM messages WHERE conversation_id = ? ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = models.Role(role)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var conv models.Conversation
	var agentID, prompt, folderID sql.NullString
	var temperature sql.NullFloat64

	err := row.Scan(&conv.ID, &conv.Name, &agentID, &prompt, &temperature, &folderID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if agentID.Valid {
		if a, ok := agent.Lookup(agent.ID(agentID.String)); ok {
			conv.Agent = &a
		} else {
			log.Printf("[DB] Unknown agent on conversation conversation_id=%s agent_id=%s", conv.ID, agentID.String)
		}
	}
	if prompt.Valid {
		conv.Prompt = &prompt.String
	}
	if temperature.Valid {
		conv.Temperature = &temperature.Float64
	}
	if folderID.Valid {
		conv.FolderID = &folderID.String
	}

	return &conv, nil
}

// optionalColumns converts unset fields to NULL
func optionalColumns(conv models.Conversation) (agentID, prompt, temperature, folderID any) {
	if conv.Agent != nil && conv.Agent.ID != "" {
		agentID = string(conv.Agent.ID)
	}
	if conv.Prompt != nil {
		prompt = *conv.Prompt
	}
	if conv.Temperature != nil {
		temperature = *conv.Temperature
	}
	if conv.FolderID != nil && *conv.FolderID != "" {
		folderID = *conv.FolderID
	}
	return agentID, prompt, temperature, folderID
}
