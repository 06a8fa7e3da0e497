package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iudanet/gophnotes/internal/models"
	pkgapi "github.com/iudanet/gophnotes/pkg/api"
)

const timeLayout = "2006-01-02 15:04"

func (c *Cli) runCreate(ctx context.Context, args []string) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== New Note ===")
	c.io.Println()

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		if title, err = c.io.ReadInput("Title: "); err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}

	noteType, err := c.io.ReadInput("Type (e.g. work, personal): ")
	if err != nil {
		return fmt.Errorf("failed to read type: %w", err)
	}

	body, err := c.readBody()
	if err != nil {
		return err
	}

	note, err := c.apiClient.CreateNote(ctx, session.Token, pkgapi.CreateNoteRequest{
		Title: title,
		Body:  body,
		Type:  noteType,
	})
	if err != nil {
		return c.apiError(ctx, err)
	}

	c.io.Println()
	c.io.Println("✓ Note saved successfully!")
	c.io.Printf("ID: %s\n", note.ID)

	return nil
}

// readBody reads lines until a line with a single "." or EOF
func (c *Cli) readBody() (string, error) {
	c.io.Println("Body (finish with a line containing only '.'):")

	var lines []string
	for {
		line, err := c.io.ReadInput("")
		if err != nil {
			if len(lines) > 0 {
				break
			}
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		if line == "." {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gophnotes get <id>")
	}

	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	view, err := c.apiClient.GetNote(ctx, session.Token, args[0])
	if err != nil {
		return c.apiError(ctx, err)
	}

	note := view.Note
	c.io.Printf("=== %s ===\n", note.Title)
	c.io.Println()
	c.io.Printf("ID:      %s\n", note.ID)
	c.io.Printf("Type:    %s\n", note.Type)
	c.io.Printf("Owner:   %s\n", note.Owner.Username)
	c.io.Printf("Created: %s\n", note.CreatedAt.Local().Format(timeLayout))
	if view.IsOwner {
		c.io.Printf("Shared:  %d time(s)\n", view.ShareCount)
	}
	c.io.Println()
	c.io.Println(note.Body)

	return nil
}

func (c *Cli) runShare(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: gophnotes share <id> <user>")
	}

	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	msg, err := c.apiClient.ShareNote(ctx, session.Token, args[0], args[1])
	if err != nil {
		return c.apiError(ctx, err)
	}

	c.io.Printf("✓ %s\n", msg)

	return nil
}

func (c *Cli) runList(ctx context.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	home, err := c.apiClient.Home(ctx, session.Token)
	if err != nil {
		return c.apiError(ctx, err)
	}

	c.io.Printf("=== Notes of %s ===\n", home.User.Username)
	c.io.Println()
	if len(home.Notes) == 0 {
		c.io.Println("No notes yet. Run 'gophnotes create' to add one.")
	} else {
		if err := c.printNotes(home.Notes, false); err != nil {
			return err
		}
	}

	c.io.Println()
	c.io.Println("=== Shared with you ===")
	c.io.Println()
	if len(home.SharedNotes) == 0 {
		c.io.Println("Nothing shared with you.")
		return nil
	}

	return c.printNotes(home.SharedNotes, true)
}

func (c *Cli) printNotes(notes []models.NoteWithOwner, withOwner bool) error {
	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)

	header := "ID\tTITLE\tTYPE\tCREATED"
	if withOwner {
		header += "\tFROM"
	}
	_, _ = fmt.Fprintln(w, header)

	for _, note := range notes {
		line := fmt.Sprintf("%s\t%s\t%s\t%s", note.ID, note.Title, note.Type, formatTime(note.CreatedAt))
		if withOwner {
			line += "\t" + note.Owner.Username
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
