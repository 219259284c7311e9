// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client implements the Notable client runtime.

It mirrors what the web front end does in the browser: an HTTP API client,
a session holding the auth token, durable note state with favorites and
search, and user settings. Everything persists through [localstore.Store]
so a restarted client resumes where it left off.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taibuivan/notable/internal/notes"
	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/internal/platform/constants"
	"github.com/taibuivan/notable/internal/users/auth"
)

// # API Client

// RequestTimeout bounds every API call. Matches the web client.
const RequestTimeout = 15 * time.Second

// TokenSource supplies the current auth token for outgoing requests.
// An empty string means the request goes out unauthenticated.
type TokenSource func() string

// Client is a thin typed wrapper over the Notable HTTP API.
//
// It is safe for concurrent use. Error responses are decoded back into
// [apperr.AppError] values so callers branch on the same codes the server
// produced.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
}

// NewClient constructs a Client for the API at baseURL.
//
// tokenSource may be nil for a client that only ever registers or logs in.
func NewClient(baseURL string, tokenSource TokenSource) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: RequestTimeout},
		tokenSource: tokenSource,
	}
}

// SetUnauthorizedHandler registers a hook invoked whenever the server
// answers 401. The session uses it to drop the stale token.
func (client *Client) SetUnauthorizedHandler(handler func()) {
	client.onUnauthorized = handler
}

// # Auth Endpoints

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new account and returns its first access token.
func (client *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var response tokenResponse
	if err := client.do(ctx, http.MethodPost, "/api/auth/register", payload, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

// Login exchanges credentials for an access token.
func (client *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var response tokenResponse
	if err := client.do(ctx, http.MethodPost, "/api/auth/login", payload, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

// CurrentUser fetches the profile behind the current token.
func (client *Client) CurrentUser(ctx context.Context) (*auth.User, error) {
	var user auth.User
	if err := client.do(ctx, http.MethodGet, "/api/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// # Note Endpoints

// ListNotes fetches all of the user's notes, newest first.
func (client *Client) ListNotes(ctx context.Context) ([]*notes.Note, error) {
	var result []*notes.Note
	if err := client.do(ctx, http.MethodGet, "/api/notes", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchNotes fetches the notes matching a case-insensitive substring.
func (client *Client) SearchNotes(ctx context.Context, query string) ([]*notes.Note, error) {
	var result []*notes.Note
	path := "/api/notes/search?query=" + url.QueryEscape(query)
	if err := client.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNote fetches a single owned note.
func (client *Client) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	var note notes.Note
	if err := client.do(ctx, http.MethodGet, "/api/notes/"+id, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// notePayload carries create/update bodies. Pointers keep omitted update
// fields out of the JSON entirely.
type notePayload struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// CreateNote creates a note and returns the server's canonical copy.
func (client *Client) CreateNote(ctx context.Context, title, content string) (*notes.Note, error) {
	payload := map[string]string{
		"title":   title,
		"content": content,
	}

	var note notes.Note
	if err := client.do(ctx, http.MethodPost, "/api/notes", payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote applies a partial update. nil fields stay unchanged.
func (client *Client) UpdateNote(ctx context.Context, id string, title, content *string) (*notes.Note, error) {
	var note notes.Note
	payload := notePayload{Title: title, Content: content}
	if err := client.do(ctx, http.MethodPut, "/api/notes/"+id, payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ConfirmUpdateNote retries an update through the confirmation endpoint.
func (client *Client) ConfirmUpdateNote(ctx context.Context, id string, title, content *string) (*notes.Note, error) {
	var response struct {
		Confirmed bool        `json:"confirmed"`
		Note      *notes.Note `json:"note"`
	}

	payload := notePayload{Title: title, Content: content}
	if err := client.do(ctx, http.MethodPost, "/api/notes/"+id+"/confirm-update", payload, &response); err != nil {
		return nil, err
	}
	return response.Note, nil
}

// DeleteNote removes an owned note.
func (client *Client) DeleteNote(ctx context.Context, id string) error {
	return client.do(ctx, http.MethodDelete, "/api/notes/"+id, nil, nil)
}

// # Transport

/*
do executes one API round trip.

Description: Marshals the body, attaches the auth token, executes the
request, and maps non-2xx envelopes back into [apperr.AppError]. A 401
additionally fires the unauthorized hook before the error is returned.

Parameters:
  - ctx: context.Context
  - method: HTTP verb
  - path: Path relative to the base URL
  - body: Marshaled as JSON when non-nil
  - out: Unmarshal target for the success body, skipped when nil

Returns:
  - err: *apperr.AppError for API failures, wrapped transport errors otherwise
*/
func (client *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client_encode_failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client_request_failed: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if client.tokenSource != nil {
		if token := client.tokenSource(); token != "" {
			request.Header.Set(constants.HeaderAuthToken, token)
		}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("client_transport_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		apiErr := decodeAPIError(response)
		if response.StatusCode == http.StatusUnauthorized && client.onUnauthorized != nil {
			client.onUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("client_decode_failed: %w", err)
	}
	return nil
}

// decodeAPIError rebuilds an [apperr.AppError] from an error envelope.
func decodeAPIError(response *http.Response) *apperr.AppError {
	var envelope struct {
		Error   string              `json:"error"`
		Code    string              `json:"code"`
		Details []apperr.FieldError `json:"details,omitempty"`
	}

	appError := &apperr.AppError{
		Code:       "UNKNOWN",
		Message:    http.StatusText(response.StatusCode),
		HTTPStatus: response.StatusCode,
	}

	if err := json.NewDecoder(response.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		appError.Message = envelope.Error
		appError.Code = envelope.Code
		appError.Details = envelope.Details
	}

	return appError
}
