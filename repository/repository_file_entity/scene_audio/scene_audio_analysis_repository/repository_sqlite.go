package scene_audio_analysis_repository

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite 打开数据库并创建所需的表
func OpenSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite数据库失败: %w", err)
	}
	// sqlite 写操作串行化
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	statements := []string{`
    CREATE TABLE IF NOT EXISTS analyses (
        id TEXT PRIMARY KEY,
        checksum TEXT NOT NULL,
        analyzer_version TEXT NOT NULL,
        name TEXT NOT NULL,
        sort_name TEXT NOT NULL DEFAULT '',
        title TEXT NOT NULL DEFAULT '',
        artist TEXT NOT NULL DEFAULT '',
        album TEXT NOT NULL DEFAULT '',
        tempo REAL NOT NULL DEFAULT 0,
        duration REAL NOT NULL DEFAULT 0,
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL,
        doc BLOB NOT NULL,
        UNIQUE (checksum, analyzer_version)
    );`, `
    CREATE TABLE IF NOT EXISTS generations (
        id TEXT PRIMARY KEY,
        analysis_id TEXT NOT NULL,
        status TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL,
        doc BLOB NOT NULL
    );`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_generations_analysis ON generations (analysis_id, created_at);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("创建SQLite表失败: %w", err)
		}
	}
	return nil
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
