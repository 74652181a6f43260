package logging

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// #region conversation-log
// ConversationLog appends exchanges to the conversation_log table.
type ConversationLog struct {
	db *sql.DB
}

// NewConversationLog creates the conversation_log table if needed.
func NewConversationLog(db *sql.DB) (*ConversationLog, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS conversation_log (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id    TEXT,
		input_text    TEXT NOT NULL,
		response_text TEXT NOT NULL,
		source        TEXT NOT NULL,
		tag           TEXT,
		confidence    REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create conversation_log: %w", err)
	}
	return &ConversationLog{db: db}, nil
}

// DB returns the database the log writes to.
func (l *ConversationLog) DB() *sql.DB { return l.db }

// #endregion conversation-log

// #region log-exchange
// LogExchange writes one exchange.
func (l *ConversationLog) LogExchange(ex Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.Exec(
		`INSERT INTO conversation_log (session_id, input_text, response_text, source, tag, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(ex.SessionID),
		ex.Input,
		ex.Response,
		ex.Source,
		nullIfEmpty(ex.Tag),
		ex.Confidence,
		ex.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log exchange: %w", err)
	}
	return nil
}

// #endregion log-exchange

// #region history
// History returns up to limit exchanges, oldest first. A limit <= 0 returns all.
func History(db *sql.DB, limit int) ([]Exchange, error) {
	query := `SELECT id, session_id, input_text, response_text, source, tag, confidence, created_at
		FROM conversation_log ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query = `SELECT * FROM (SELECT id, session_id, input_text, response_text, source, tag, confidence, created_at
			FROM conversation_log ORDER BY id DESC LIMIT ?) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var ex Exchange
		var sessionID, tag sql.NullString
		var createdStr string
		if err := rows.Scan(&ex.ID, &sessionID, &ex.Input, &ex.Response, &ex.Source, &tag, &ex.Confidence, &createdStr); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		ex.SessionID = sessionID.String
		ex.Tag = tag.String
		ex.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, ex)
	}
	return out, rows.Err()
}

// #endregion history

// #region export-csv
// ExportCSV writes the full history as User,Bot,Time rows.
func ExportCSV(db *sql.DB, w io.Writer) (int, error) {
	exchanges, err := History(db, 0)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"User", "Bot", "Time"}); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, ex := range exchanges {
		row := []string{ex.Input, ex.Response, ex.CreatedAt.Format("2006-01-02 15:04:05")}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row %d: %w", ex.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(exchanges), nil
}

// #endregion export-csv

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
