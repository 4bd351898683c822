package db

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"data-agent-chat/internal/models"
)

// CreateFolder inserts a new folder
func (d *DB) CreateFolder(name string) (*models.Folder, error) {
	return WithLockResult(d, func() (*models.Folder, error) {
		folder := &models.Folder{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}

		_, err := d.db.Exec(
			`INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?)`,
			folder.ID, folder.Name, folder.CreatedAt,
		)
		if err != nil {
			log.Printf("[DB] CreateFolder failed: exec error err=%v", err)
			return nil, err
		}

		log.Printf("[DB] CreateFolder completed folder_id=%s", folder.ID)
		return folder, nil
	})
}

// GetFolder retrieves a folder by ID
func (d *DB) GetFolder(id string) (*models.Folder, error) {
	return WithLockResult(d, func() (*models.Folder, error) {
		var folder models.Folder
		err := d.db.QueryRow(
			`SELECT id, name, created_at FROM folders WHERE id = ?`,
			id,
		).Scan(&folder.ID, &folder.Name, &folder.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &folder, nil
	})
}

// GetAllFolders retrieves all folders ordered by name
func (d *DB) GetAllFolders() ([]models.Folder, error) {
	return WithLockResult(d, func() ([]models.Folder, error) {
		rows, err := d.db.Query(`SELECT id, name, created_at FROM folders ORDER BY name ASC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var folders []models.Folder
		for rows.Next() {
			var folder models.Folder
			if err := rows.Scan(&folder.ID, &folder.Name, &folder.CreatedAt); err != nil {
				return nil, err
			}
			folders = append(folders, folder)
		}

		return folders, rows.Err()
	})
}

// DeleteFolder deletes a folder. Its conversations move out of the folder.
func (d *DB) DeleteFolder(id string) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(`DELETE FROM folders WHERE id = ?`, id)
		if err != nil {
			log.Printf("[DB] DeleteFolder failed: exec error err=%v", err)
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return sql.ErrNoRows
		}

		log.Printf("[DB] DeleteFolder completed folder_id=%s", id)
		return nil
	})
}
