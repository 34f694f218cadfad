package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"learnwords/models"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL DEFAULT '',
	streak INTEGER NOT NULL DEFAULT 0,
	badges TEXT NOT NULL DEFAULT '[]',
	profile_pic TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS day_progress (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL REFERENCES users(id),
	day INTEGER NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	UNIQUE (user_id, day)
);

CREATE TABLE IF NOT EXISTS words_read (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	progress_id INTEGER NOT NULL REFERENCES day_progress(id),
	word TEXT NOT NULL,
	UNIQUE (progress_id, word)
);
`

const defaultSQLiteTimeout = 5 * time.Second

// SQLiteStore normalizes progress into day_progress and words_read rows.
// Insertion order is kept by the autoincrement ids, and each mark runs in one
// transaction.
type SQLiteStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

type userRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Password   string `db:"password"`
	Streak     int    `db:"streak"`
	Badges     string `db:"badges"`
	ProfilePic string `db:"profile_pic"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

type progressRow struct {
	ID        int64 `db:"id"`
	Day       int   `db:"day"`
	Completed bool  `db:"completed"`
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database. timeout bounds every store operation,
// including the wait for the single connection.
func OpenSQLite(ctx context.Context, path string, timeout time.Duration) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if timeout <= 0 {
		timeout = defaultSQLiteTimeout
	}

	conn, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: conn, timeout: timeout}, nil
}

func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prepareNewUser(user)

	badges, err := json.Marshal(user.Badges)
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, streak, badges, profile_pic, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.Hex(), user.Name, user.Email, user.Password, user.Streak, string(badges),
		user.ProfilePic, formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return fmt.Errorf("%s: %w", user.Email, models.ErrEmailTaken)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var row userRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM users WHERE id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	user, err := row.toModel()
	if err != nil {
		return nil, err
	}

	var days []progressRow
	err = s.db.SelectContext(ctx, &days,
		"SELECT id, day, completed FROM day_progress WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}

	var words []struct {
		ProgressID int64  `db:"progress_id"`
		Word       string `db:"word"`
	}
	err = s.db.SelectContext(ctx, &words, `
		SELECT w.progress_id, w.word FROM words_read w
		JOIN day_progress p ON p.id = w.progress_id
		WHERE p.user_id = ? ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch words read: %w", err)
	}

	byProgress := make(map[int64][]string, len(days))
	for _, w := range words {
		byProgress[w.ProgressID] = append(byProgress[w.ProgressID], w.Word)
	}

	user.Progress = make([]models.DayProgress, 0, len(days))
	for _, d := range days {
		p := models.NewDayProgress(d.Day)
		p.Completed = d.Completed
		if read := byProgress[d.ID]; read != nil {
			p.WordsRead = read
		}
		user.Progress = append(user.Progress, p)
	}
	return user, nil
}

func (s *SQLiteStore) MarkWordRead(ctx context.Context, userID string, day int, word string, required int) (*models.MarkResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO day_progress (user_id, day, completed) VALUES (?, ?, 0)", userID, day); err != nil {
		return nil, fmt.Errorf("failed to create day progress: %w", err)
	}

	var row progressRow
	if err := tx.GetContext(ctx, &row,
		"SELECT id, day, completed FROM day_progress WHERE user_id = ? AND day = ?", userID, day); err != nil {
		return nil, fmt.Errorf("failed to load day progress: %w", err)
	}

	p := models.NewDayProgress(day)
	p.Completed = row.Completed
	if err := tx.SelectContext(ctx, &p.WordsRead,
		"SELECT word FROM words_read WHERE progress_id = ? ORDER BY id", row.ID); err != nil {
		return nil, fmt.Errorf("failed to load words read: %w", err)
	}
	if p.WordsRead == nil {
		p.WordsRead = []string{}
	}

	wasCompleted := p.Completed
	added := p.MarkRead(word, required)

	if added {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO words_read (progress_id, word) VALUES (?, ?)", row.ID, word); err != nil {
			return nil, fmt.Errorf("failed to add word: %w", err)
		}
	}
	if p.Completed && !wasCompleted {
		if _, err := tx.ExecContext(ctx,
			"UPDATE day_progress SET completed = 1 WHERE id = ?", row.ID); err != nil {
			return nil, fmt.Errorf("failed to update completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mark: %w", err)
	}

	return &models.MarkResult{
		Progress:       p,
		Added:          added,
		NewlyCompleted: p.Completed && !wasCompleted,
	}, nil
}

func (s *SQLiteStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if update.IsEmpty() {
		return requireUser(ctx, s.db, userID)
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{formatTime(time.Now())}
	if update.Name != "" {
		sets = append(sets, "name = ?")
		args = append(args, update.Name)
	}
	if update.ProfilePic != "" {
		sets = append(sets, "profile_pic = ?")
		args = append(args, update.ProfilePic)
	}
	args = append(args, userID)

	return s.execUserUpdate(ctx, userID, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
}

func (s *SQLiteStore) SetStreak(ctx context.Context, userID string, streak int) error {
	return s.execUserUpdate(ctx, userID,
		"UPDATE users SET streak = ?, updated_at = ? WHERE id = ?", streak, formatTime(time.Now()), userID)
}

// AddBadge is a no-op when the user already holds badge
func (s *SQLiteStore) AddBadge(ctx context.Context, userID string, badge string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	if err := tx.GetContext(ctx, &raw, "SELECT badges FROM users WHERE id = ?", userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
		}
		return fmt.Errorf("failed to fetch badges: %w", err)
	}

	var badges []string
	if err := json.Unmarshal([]byte(raw), &badges); err != nil {
		return fmt.Errorf("failed to decode badges: %w", err)
	}
	for _, b := range badges {
		if b == badge {
			return nil
		}
	}

	encoded, err := json.Marshal(append(badges, badge))
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE users SET badges = ?, updated_at = ? WHERE id = ?",
		string(encoded), formatTime(time.Now()), userID); err != nil {
		return fmt.Errorf("failed to update badges: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) execUserUpdate(ctx context.Context, userID, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	return nil
}

func requireUser(ctx context.Context, q sqlx.QueryerContext, userID string) error {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, "SELECT COUNT(1) FROM users WHERE id = ?", userID); err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	return nil
}

func (r userRow) toModel() (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", r.ID, err)
	}
	var badges []string
	if err := json.Unmarshal([]byte(r.Badges), &badges); err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}
	return &models.User{
		ID:         oid,
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Streak:     r.Streak,
		Badges:     badges,
		ProfilePic: r.ProfilePic,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
