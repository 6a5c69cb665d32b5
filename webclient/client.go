// Package webclient is the dashboard side of the API: a small REST client
// plus a generic per-entity screen controller. All gating done here is
// UX-only; the server re-checks every action.
package webclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
)

// Session carries the tokens and the decoded cargo for one signed-in user.
// It is handed to the client and to every screen explicitly; nothing reads
// it from ambient storage.
type Session struct {
	Access  string
	Refresh string
	Role    authz.Role
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Access != ""
}

// Clear drops the credential on logout.
func (s *Session) Clear() {
	s.Access = ""
	s.Refresh = ""
	s.Role = ""
}

type Client struct {
	baseURL string
	session *Session
	http    *http.Client
}

// NewClient builds a client for the API rooted at baseURL (including the
// /api prefix). httpClient may be nil.
func NewClient(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    httpClient,
	}
}

func (c *Client) Session() *Session { return c.session }

// Login obtains a token pair and primes the session, including the cargo
// decoded from the access token's claims.
func (c *Client) Login(ctx context.Context, cpf, password string) error {
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	payload := map[string]string{"cpf": cpf, "password": password}
	if err := c.doUnauthenticated(ctx, "/token", payload, &pair); err != nil {
		return err
	}

	c.session.Access = pair.Access
	c.session.Refresh = pair.Refresh
	c.session.Role = decodeCargo(pair.Access)
	return nil
}

// RefreshAccess trades the refresh token for a fresh access token.
func (c *Client) RefreshAccess(ctx context.Context) error {
	if c.session == nil || c.session.Refresh == "" {
		return ErrAuthenticationMissing
	}
	var resp struct {
		Access string `json:"access"`
	}
	payload := map[string]string{"refresh": c.session.Refresh}
	if err := c.doUnauthenticated(ctx, "/token/refresh", payload, &resp); err != nil {
		return err
	}
	c.session.Access = resp.Access
	c.session.Role = decodeCargo(resp.Access)
	return nil
}

// List fetches a collection. Endpoints answer either a bare array or a
// {results: [...]} envelope; both come back as one record sequence.
func (c *Client) List(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return normalizeList(body)
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) Post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) Put(ctx context.Context, path string, payload, out interface{}) error {
	body, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	if !c.session.Authenticated() {
		return nil, ErrAuthenticationMissing
	}
	return c.send(ctx, method, path, payload, c.session.Access)
}

func (c *Client) doUnauthenticated(ctx context.Context, path string, payload, out interface{}) error {
	body, err := c.send(ctx, http.MethodPost, path, payload, "")
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}, token string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding payload")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	op := method + " " + path
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, translateError(resp.StatusCode, data, op)
	}
	return data, nil
}

func decodeInto(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "decoding response")
}

func normalizeList(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(err, "decoding list")
		}
		return items, nil
	}
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding list envelope")
	}
	return envelope.Results, nil
}

// translateError maps a rejected request onto the client error taxonomy.
// 401 means the credential is gone or expired; 403 is a server-side deny;
// 400 carries a validation body; everything else is a network-class failure.
func translateError(code int, body []byte, op string) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrAuthenticationMissing
	case http.StatusForbidden:
		return &AuthorizationDeniedError{Message: errorMessage(body)}
	case http.StatusBadRequest:
		verr := new(ValidationError)
		var fields map[string]string
		if err := json.Unmarshal(body, &fields); err == nil {
			if msg, ok := fields["error"]; ok && len(fields) == 1 {
				verr.Message = msg
			} else {
				verr.Fields = fields
			}
		}
		return verr
	}
	return &NetworkError{Op: op, Err: errors.Errorf("HTTP %d", code)}
}

func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		return envelope.Error
	}
	return ""
}

// decodeCargo reads the cargo claim out of a compact JWT without verifying
// the signature. The claim only drives UI gating; the server never trusts it.
func decodeCargo(token string) authz.Role {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var claims struct {
		Cargo authz.Role `json:"cargo"`
	}
	if err = json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	return claims.Cargo
}
