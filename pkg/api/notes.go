package api

import "github.com/iudanet/gophnotes/internal/models"

// CreateNoteRequest представляет тело POST /create-notes
type CreateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Type  string `json:"type"`
}

// ShareRequest представляет тело POST /note/{id}
type ShareRequest struct {
	SharedUser string `json:"sharedUser"`
}

// HomeView is the view data of GET /home
type HomeView struct {
	User        models.PublicUser      `json:"user"`
	Notes       []models.NoteWithOwner `json:"data"`
	SharedNotes []models.NoteWithOwner `json:"sharedNotes"`
}

// NoteView is the view data of GET /note/{id}
type NoteView struct {
	Note       models.NoteWithOwner `json:"note"`
	User       models.PublicUser    `json:"user"`
	IsOwner    bool                 `json:"isOwner"`
	ShareCount int                  `json:"shareCount"`
}

// LandingView is the view data of GET /
type LandingView struct {
	SignedIn bool `json:"signedIn"`
}
