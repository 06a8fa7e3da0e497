package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/iudanet/gophnotes/internal/models"
)

// CreateSharing stores a new grant
func (s *Storage) CreateSharing(ctx context.Context, sharing *models.NoteSharing) error {
	query, args, err := s.builder.
		Insert("note_sharings").
		Columns("id", "user_id", "note_id", "created_at").
		Values(sharing.ID, sharing.UserID, sharing.NoteID, sharing.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert sharing query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert sharing: %w", err)
	}

	return nil
}

// ListSharedWith returns distinct notes shared with the user, oldest first
func (s *Storage) ListSharedWith(ctx context.Context, userID string) ([]models.NoteWithOwner, error) {
	query, args, err := s.selectNotes().
		Where(sq.Expr("EXISTS (SELECT 1 FROM note_sharings ns WHERE ns.note_id = n.id AND ns.user_id = ?)", userID)).
		OrderBy("n.created_at", "n.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shared notes query: %w", err)
	}

	return s.queryNotes(ctx, query, args...)
}

// CountSharings returns the number of grants stored for the note
func (s *Storage) CountSharings(ctx context.Context, noteID string) (int, error) {
	query, args, err := s.builder.
		Select("COUNT(*)").
		From("note_sharings").
		Where(sq.Eq{"note_id": noteID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count sharings query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sharings: %w", err)
	}

	return count, nil
}
