package db

// Migrate runs all database migrations
func (d *DB) Migrate() error {
	return d.WithLock(func() error {
		// Create folders table
		_, err := d.db.Exec(`
			CREATE TABLE IF NOT EXISTS folders (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}

		// Create conversations table. Optional settings stay NULL until set.
		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS conversations (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				agent_id TEXT,
				prompt TEXT,
				temperature REAL,
				folder_id TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
			)
		`)
		if err != nil {
			return err
		}

		// Create messages table
		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id TEXT NOT NULL,
				role TEXT NOT NULL CHECK(role IN ('user', 'assistant')),
				content TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			)
		`)
		if err != nil {
			return err
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)",
			"CREATE INDEX IF NOT EXISTS idx_conversations_folder ON conversations(folder_id)",
		}

		for _, idx := range indexes {
			if _, err := d.db.Exec(idx); err != nil {
				return err
			}
		}

		return nil
	})
}
