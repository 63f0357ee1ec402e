package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ErrMissingToken is returned when a successful login carries no credential
var ErrMissingToken = errors.New("login response did not include a token")

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account returned by the auth endpoints
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Movie is a catalogue entry
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
}

// Login authenticates the user and returns a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	return &resp, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMovies returns the catalogue
func (c *Client) ListMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.doJSON(ctx, http.MethodGet, "/movies", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetMovie returns a single movie by ID
func (c *Client) GetMovie(ctx context.Context, id string) (*Movie, error) {
	var movie Movie
	if err := c.doJSON(ctx, http.MethodGet, "/movies/"+url.PathEscape(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// CreateMovie adds a movie; the API restricts this to admins
func (c *Client) CreateMovie(ctx context.Context, movie Movie) (*Movie, error) {
	var created Movie
	if err := c.doJSON(ctx, http.MethodPost, "/movies", movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteMovie removes a movie by ID; the API restricts this to admins
func (c *Client) DeleteMovie(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/movies/"+url.PathEscape(id), nil, nil)
}
