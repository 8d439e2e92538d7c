package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/visionhire/backend/internal/domain/interview"
	"github.com/visionhire/backend/internal/domain/topic"
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    topic_key TEXT NOT NULL,
    score INTEGER NOT NULL,
    questions_asked INTEGER NOT NULL,
    follow_up_streak INTEGER NOT NULL,
    finished INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interview_turns (
    interview_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    score INTEGER NOT NULL,
    max_score INTEGER NOT NULL,
    score_reason TEXT NOT NULL,
    keywords TEXT NOT NULL,
    PRIMARY KEY (interview_id, position),
    FOREIGN KEY (interview_id) REFERENCES interviews(id) ON DELETE CASCADE
);
`

// SQLiteStore persists interviews in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveInterview upserts the interview row and rewrites its turns.
// Rewriting keeps the save a single last-write-wins operation: the
// newest in-memory session always wins, including edits to the open
// tail record.
func (s *SQLiteStore) SaveInterview(ctx context.Context, iv *interview.Interview) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO interviews (id, owner_id, topic_key, score, questions_asked, follow_up_streak, finished, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			questions_asked = excluded.questions_asked,
			follow_up_streak = excluded.follow_up_streak,
			finished = excluded.finished
	`, iv.ID, iv.OwnerID, iv.Topic.Key, iv.Score, iv.QuestionsAsked, iv.FollowUpStreak,
		boolToInt(iv.Finished), iv.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save interview: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM interview_turns WHERE interview_id = ?", iv.ID); err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}

	for position, rec := range iv.History {
		keywords, err := json.Marshal(rec.Keywords)
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO interview_turns (interview_id, position, question, answer, score, max_score, score_reason, keywords)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, iv.ID, position, rec.Question, rec.Answer, rec.Score, rec.MaxScore, rec.ScoreReason, string(keywords))
		if err != nil {
			return fmt.Errorf("save turn %d: %w", position, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetInterview(ctx context.Context, id string) (*interview.Interview, error) {
	var (
		iv        interview.Interview
		topicKey  string
		finished  int
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, topic_key, score, questions_asked, follow_up_streak, finished, created_at
		FROM interviews WHERE id = ?
	`, id).Scan(&iv.ID, &iv.OwnerID, &topicKey, &iv.Score, &iv.QuestionsAsked,
		&iv.FollowUpStreak, &finished, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	iv.Topic = topic.Resolve(topicKey)
	iv.Finished = finished != 0
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		iv.CreatedAt = ts
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, score, max_score, score_reason, keywords
		FROM interview_turns WHERE interview_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec         interview.QuestionRecord
			keywordsRaw string
		)
		if err := rows.Scan(&rec.Question, &rec.Answer, &rec.Score, &rec.MaxScore,
			&rec.ScoreReason, &keywordsRaw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keywordsRaw), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
		iv.History = append(iv.History, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &iv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
