// Package platform implements the REST client for vManage
// controllers: session login, the dataservice API surface, and the
// transport error type the model layer branches on.
package platform

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/tpimenta/sdwan-vault/internal/models"
)

const apiPrefix = "/dataservice/"

// RestAPIError is a transport or HTTP-level failure talking to the
// controller.
type RestAPIError struct {
	Method string
	Path   string
	Status int // 0 when the request never completed
	Detail string
	Err    error
}

func (e *RestAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Detail)
}

func (e *RestAPIError) Unwrap() error { return e.Err }

// Client is an authenticated vManage REST client. It implements
// models.RestAPI.
type Client struct {
	baseURL    string
	username   string
	password   string
	token      string // XSRF token for mutating requests
	httpClient *http.Client
}

// NewClient creates a Client from a Connection. Login must be called
// before issuing API requests.
func NewClient(conn *models.Connection) *Client {
	transport := &http.Transport{}
	if conn.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:  conn.BaseURL(),
		username: conn.Username,
		password: conn.Password,
		httpClient: &http.Client{
			Transport: transport,
			Jar:       jar,
		},
	}
}

// Login establishes a session with the controller and retrieves the
// XSRF token used on mutating requests. The controller signals a bad
// login with an HTML body on an otherwise successful response.
func (c *Client) Login() error {
	form := url.Values{
		"j_username": {c.username},
		"j_password": {c.password},
	}
	resp, err := c.httpClient.PostForm(c.baseURL+"/j_security_check", form)
	if err != nil {
		return &RestAPIError{Method: "POST", Path: "/j_security_check", Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return &RestAPIError{Method: "POST", Path: "/j_security_check", Err: err}
	}
	if resp.StatusCode != http.StatusOK || strings.Contains(string(body), "<html>") {
		return &RestAPIError{Method: "POST", Path: "/j_security_check", Status: resp.StatusCode, Detail: "login failed"}
	}

	token, err := c.GetRaw("client/token")
	if err != nil {
		// Older controller releases have no token endpoint.
		var apiErr *RestAPIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil
		}
		return err
	}
	c.token = string(token)
	return nil
}

// GetRaw performs a GET against the dataservice API and returns the
// raw response body.
func (c *Client) GetRaw(path string, args ...string) ([]byte, error) {
	fullPath := joinPath(path, args...)
	req, err := http.NewRequest("GET", c.baseURL+fullPath, nil)
	if err != nil {
		return nil, &RestAPIError{Method: "GET", Path: fullPath, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RestAPIError{Method: "GET", Path: fullPath, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RestAPIError{Method: "GET", Path: fullPath, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RestAPIError{Method: "GET", Path: fullPath, Status: resp.StatusCode, Detail: truncate(string(body), 200)}
	}
	return body, nil
}

// Get performs a GET against the dataservice API, with args appended
// as extra URL segments, and parses the JSON response.
func (c *Client) Get(path string, args ...string) (any, error) {
	body, err := c.GetRaw(path, args...)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &RestAPIError{Method: "GET", Path: joinPath(path, args...), Err: fmt.Errorf("parsing response: %w", err)}
	}
	return doc, nil
}

// Post performs a POST with a JSON body and parses the JSON response,
// which may be empty.
func (c *Client) Post(path string, payload any) (any, error) {
	return c.send("POST", joinPath(path), payload)
}

// Put performs a PUT against path/id with a JSON body.
func (c *Client) Put(path, id string, payload any) (any, error) {
	return c.send("PUT", joinPath(path, id), payload)
}

// Delete removes the item with the given id.
func (c *Client) Delete(path, id string) error {
	_, err := c.send("DELETE", joinPath(path, id), nil)
	return err
}

func (c *Client) send(method, fullPath string, payload any) (any, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &RestAPIError{Method: method, Path: fullPath, Err: fmt.Errorf("marshaling body: %w", err)}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+fullPath, bodyReader)
	if err != nil {
		return nil, &RestAPIError{Method: method, Path: fullPath, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-XSRF-TOKEN", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RestAPIError{Method: method, Path: fullPath, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RestAPIError{Method: method, Path: fullPath, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RestAPIError{Method: method, Path: fullPath, Status: resp.StatusCode, Detail: truncate(string(body), 200)}
	}
	if len(body) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &RestAPIError{Method: method, Path: fullPath, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return doc, nil
}

// ServerVersion returns the controller software version.
func (c *Client) ServerVersion() (string, error) {
	doc, err := c.Get("client/about")
	if err != nil {
		return "", err
	}
	if obj, ok := doc.(map[string]any); ok {
		if data, ok := obj["data"].(map[string]any); ok {
			if v, ok := data["version"].(string); ok {
				return v, nil
			}
		}
		if v, ok := obj["version"].(string); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("unexpected about response")
}

// Ping checks connectivity by hitting the about endpoint.
func (c *Client) Ping() error {
	_, err := c.GetRaw("client/about")
	return err
}

func joinPath(path string, args ...string) string {
	segments := append([]string{strings.TrimSuffix(path, "/")}, args...)
	return apiPrefix + strings.Join(segments, "/")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
