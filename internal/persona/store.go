package persona

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a streamer id does not exist or has been
// soft-deleted.
var ErrNotFound = errors.New("streamer not found")

const schema = `
CREATE TABLE IF NOT EXISTS streamer_info (
	streamer_id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name                   TEXT NOT NULL UNIQUE,
	character              TEXT NOT NULL DEFAULT '',
	avatar                 TEXT NOT NULL DEFAULT '',
	tts_weight_tag         TEXT NOT NULL DEFAULT '',
	tts_reference_sentence TEXT NOT NULL DEFAULT '',
	tts_reference_audio    TEXT NOT NULL DEFAULT '',
	poster_image           TEXT NOT NULL DEFAULT '',
	base_mp4_path          TEXT NOT NULL DEFAULT '',
	deleted                INTEGER NOT NULL DEFAULT 0,
	user_id                INTEGER
);
CREATE INDEX IF NOT EXISTS idx_streamer_info_name ON streamer_info(name);
`

// Store is the sqlite-backed streamer record. Deletes are soft: rows are
// flagged and filtered from reads, never dropped.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the streamer database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open streamer db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply streamer schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a streamer and returns it with its assigned id.
func (s *Store) Create(ctx context.Context, st Streamer) (Streamer, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO streamer_info
			(name, character, avatar, tts_weight_tag, tts_reference_sentence,
			 tts_reference_audio, poster_image, base_mp4_path, deleted, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		st.Name, st.Character, st.Avatar, st.TTSWeightTag, st.TTSReferenceSentence,
		st.TTSReferenceAudio, st.PosterImage, st.BaseMP4Path, st.UserID)
	if err != nil {
		return Streamer{}, fmt.Errorf("create streamer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Streamer{}, fmt.Errorf("create streamer: %w", err)
	}
	st.ID = id
	st.Deleted = false
	return st, nil
}

// Get returns the streamer with the given id. Soft-deleted rows are not
// visible.
func (s *Store) Get(ctx context.Context, id int64) (Streamer, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE streamer_id = ? AND deleted = 0`, id)
	return scanStreamer(row)
}

// GetByName returns the streamer with the given unique name.
func (s *Store) GetByName(ctx context.Context, name string) (Streamer, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ? AND deleted = 0`, name)
	return scanStreamer(row)
}

// List returns all live streamers ordered by id.
func (s *Store) List(ctx context.Context) ([]Streamer, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE deleted = 0 ORDER BY streamer_id`)
	if err != nil {
		return nil, fmt.Errorf("list streamers: %w", err)
	}
	defer rows.Close()

	var out []Streamer
	for rows.Next() {
		st, err := scanStreamer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Update rewrites every mutable field of the streamer identified by st.ID.
func (s *Store) Update(ctx context.Context, st Streamer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE streamer_info SET
			name = ?, character = ?, avatar = ?, tts_weight_tag = ?,
			tts_reference_sentence = ?, tts_reference_audio = ?,
			poster_image = ?, base_mp4_path = ?, user_id = ?
		WHERE streamer_id = ? AND deleted = 0`,
		st.Name, st.Character, st.Avatar, st.TTSWeightTag, st.TTSReferenceSentence,
		st.TTSReferenceAudio, st.PosterImage, st.BaseMP4Path, st.UserID, st.ID)
	if err != nil {
		return fmt.Errorf("update streamer %d: %w", st.ID, err)
	}
	return requireRow(res, st.ID)
}

// Delete soft-deletes a streamer.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE streamer_info SET deleted = 1 WHERE streamer_id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("delete streamer %d: %w", id, err)
	}
	return requireRow(res, id)
}

const selectColumns = `
	SELECT streamer_id, name, character, avatar, tts_weight_tag,
	       tts_reference_sentence, tts_reference_audio, poster_image,
	       base_mp4_path, deleted, user_id
	FROM streamer_info`

type scannable interface {
	Scan(dest ...any) error
}

func scanStreamer(row scannable) (Streamer, error) {
	var (
		st     Streamer
		userID sql.NullInt64
	)
	err := row.Scan(&st.ID, &st.Name, &st.Character, &st.Avatar, &st.TTSWeightTag,
		&st.TTSReferenceSentence, &st.TTSReferenceAudio, &st.PosterImage,
		&st.BaseMP4Path, &st.Deleted, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Streamer{}, ErrNotFound
	}
	if err != nil {
		return Streamer{}, fmt.Errorf("scan streamer: %w", err)
	}
	if userID.Valid {
		st.UserID = &userID.Int64
	}
	return st, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("streamer %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("streamer %d: %w", id, ErrNotFound)
	}
	return nil
}
