// Package api is the HTTP client of the note service used by the CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/gophnotes/internal/models"
	"github.com/iudanet/gophnotes/pkg/api"
)

// cookieName is the session cookie set by POST /
const cookieName = "auth"

// Client errors mapped from HTTP statuses and {error: 1} envelopes
var (
	ErrUnauthorized       = errors.New("session expired or invalid, please login again")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRejected           = errors.New("request rejected")
)

// Session is the token received on login
type Session struct {
	ExpiresAt time.Time
	Token     string
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Редиректы не выполняем: cookie и Location нужны из первого ответа
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// envelope is the {error, message, data} body of JSON endpoints
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   int    `json:"error"`
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, username, password string) (*api.SignUpData, error) {
	var resp envelope[api.SignUpData]
	err := c.doJSON(ctx, http.MethodPost, "/signup", "", api.Credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	if resp.Error != api.ResultOK {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return &resp.Data, nil
}

// Login выполняет аутентификацию и возвращает токен из cookie "auth"
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.send(ctx, http.MethodPost, "/", "", api.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusFound:
	case http.StatusOK:
		// Сервер отвечает текстом "Invalid Username" / "Invalid Password"
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, strings.TrimSpace(string(body)))
	default:
		return nil, statusError(resp)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == cookieName && cookie.Value != "" {
			return &Session{Token: cookie.Value, ExpiresAt: cookie.Expires}, nil
		}
	}

	return nil, fmt.Errorf("login response has no %q cookie", cookieName)
}

// Logout asks the server to clear the session cookie. The token itself stays valid until expiry.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.send(ctx, http.MethodGet, "/logout", token, nil)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		return statusError(resp)
	}
	return nil
}

// CreateNote создает заметку от имени владельца токена
func (c *Client) CreateNote(ctx context.Context, token string, req api.CreateNoteRequest) (*models.Note, error) {
	var resp envelope[models.Note]
	if err := c.doJSON(ctx, http.MethodPost, "/create-notes", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create note request failed: %w", err)
	}
	if resp.Error != api.ResultOK {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return &resp.Data, nil
}

// GetNote получает заметку по ID
func (c *Client) GetNote(ctx context.Context, token, noteID string) (*api.NoteView, error) {
	var view api.NoteView
	if err := c.doJSON(ctx, http.MethodGet, notePath(noteID), token, nil, &view); err != nil {
		return nil, fmt.Errorf("get note request failed: %w", err)
	}
	return &view, nil
}

// ShareNote выдает пользователю доступ на чтение заметки и возвращает сообщение сервера
func (c *Client) ShareNote(ctx context.Context, token, noteID, username string) (string, error) {
	var resp envelope[json.RawMessage]
	err := c.doJSON(ctx, http.MethodPost, notePath(noteID), token, api.ShareRequest{SharedUser: username}, &resp)
	if err != nil {
		return "", fmt.Errorf("share note request failed: %w", err)
	}
	if resp.Error != api.ResultOK {
		return "", fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return resp.Message, nil
}

// Home возвращает свои заметки и заметки, которыми поделились с пользователем
func (c *Client) Home(ctx context.Context, token string) (*api.HomeView, error) {
	var view api.HomeView
	if err := c.doJSON(ctx, http.MethodGet, "/home", token, nil, &view); err != nil {
		return nil, fmt.Errorf("home request failed: %w", err)
	}
	return &view, nil
}

// send выполняет HTTP запрос с JSON телом и cookie "auth", если token не пустой
// notePath escapes the ID so "/" or "?" cannot leave the /note/{id} route
func notePath(noteID string) string {
	return "/note/" + url.PathEscape(noteID)
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// doJSON выполняет запрос и декодирует JSON ответ в result
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	resp, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// rejectedError carries the message of a non-200 {error: 1} response
type rejectedError struct {
	sentinel error
	message  string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("%v: %s", e.sentinel, e.message)
}

func (e *rejectedError) Unwrap() error {
	return e.sentinel
}

// statusError переводит HTTP статус в ошибку клиента
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	default:
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &rejectedError{sentinel: sentinel, message: env.Message}
	}
	return sentinel
}
