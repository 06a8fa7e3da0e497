package models

import "time"

// Note представляет заметку пользователя
type Note struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`     // UUID заметки
	Title     string    `json:"title"`  // заголовок
	Body      string    `json:"body"`   // текст заметки
	Type      string    `json:"type"`   // произвольный тип (например, "work", "personal")
	UserID    string    `json:"userId"` // владелец заметки
}

// NoteWithOwner is a note joined with the public fields of its owner.
type NoteWithOwner struct {
	Note
	Owner PublicUser `json:"user"`
}

// NoteSharing is a grant that lets UserID view NoteID.
// Repeated shares of the same note to the same user produce separate grants.
type NoteSharing struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"` // получатель доступа
	NoteID    string    `json:"noteId"`
}
