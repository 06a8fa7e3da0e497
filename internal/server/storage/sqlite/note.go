package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/internal/server/storage"
)

// noteColumns is the projection shared by every note query (notes n JOIN users u)
var noteColumns = []string{
	"n.id", "n.title", "n.body", "n.type", "n.user_id", "n.created_at",
	"u.id", "u.username",
}

// CreateNote stores a new note
func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	query, args, err := s.builder.
		Insert("notes").
		Columns("id", "title", "body", "type", "user_id", "created_at").
		Values(note.ID, note.Title, note.Body, note.Type, note.UserID, note.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert note query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// GetNote retrieves a note joined with its owner
func (s *Storage) GetNote(ctx context.Context, noteID string) (*models.NoteWithOwner, error) {
	query, args, err := s.selectNotes().
		Where(sq.Eq{"n.id": noteID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get note query: %w", err)
	}

	note, err := scanNote(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListNotesByOwner returns all notes owned by the user, oldest first
func (s *Storage) ListNotesByOwner(ctx context.Context, ownerID string) ([]models.NoteWithOwner, error) {
	query, args, err := s.selectNotes().
		Where(sq.Eq{"n.user_id": ownerID}).
		OrderBy("n.created_at", "n.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notes query: %w", err)
	}

	return s.queryNotes(ctx, query, args...)
}

// NoteViewers returns the distinct IDs of the owner and every grantee of the note
func (s *Storage) NoteViewers(ctx context.Context, noteID string) ([]string, error) {
	grantees := s.builder.
		Select("user_id").
		From("note_sharings").
		Where(sq.Eq{"note_id": noteID})

	query, args, err := s.builder.
		Select("user_id").
		From("notes").
		Where(sq.Eq{"id": noteID}).
		SuffixExpr(sq.ConcatExpr("UNION ", grantees)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build note viewers query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query note viewers: %w", err)
	}
	defer rows.Close()

	viewers := make([]string, 0, 1)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan note viewer: %w", err)
		}
		viewers = append(viewers, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note viewers: %w", err)
	}

	// note_sharings.note_id ссылается на notes, так что пустой результат = нет заметки
	if len(viewers) == 0 {
		return nil, storage.ErrNoteNotFound
	}

	return viewers, nil
}

func (s *Storage) selectNotes() sq.SelectBuilder {
	return s.builder.
		Select(noteColumns...).
		From("notes n").
		Join("users u ON u.id = n.user_id")
}

func (s *Storage) queryNotes(ctx context.Context, query string, args ...interface{}) ([]models.NoteWithOwner, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.NoteWithOwner, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.NoteWithOwner, error) {
	note := &models.NoteWithOwner{}

	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Body,
		&note.Type,
		&note.UserID,
		&note.CreatedAt,
		&note.Owner.ID,
		&note.Owner.Username,
	)
	if err != nil {
		return nil, err
	}

	return note, nil
}
