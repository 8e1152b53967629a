package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studyvault/internal/domain"
)

const (
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultAPIBase     = "https://www.googleapis.com"
	defaultHTTPTimeout = 30 * time.Second
)

// DriveConfig holds the OAuth2 credentials for the Drive client. The refresh
// token is a long-lived credential obtained once out of band; access tokens
// are exchanged fresh for every operation.
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL and APIBase default to the Google endpoints; tests point them
	// at an httptest server.
	TokenURL string
	APIBase  string

	// Timeout bounds every HTTP call. Defaults to 30s.
	Timeout time.Duration
}

// DriveClient implements ObjectStore against the Google Drive v3 API.
//
// Access tokens are short-lived, so no caching or expiry tracking is
// attempted: every operation performs a fresh refresh-token exchange and fails
// with domain.ErrAuth if the provider rejects it.
type DriveClient struct {
	cfg        DriveConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDriveClient creates a new Drive client
func NewDriveClient(cfg DriveConfig, logger *slog.Logger) *DriveClient {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	return &DriveClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// refreshAccessToken exchanges the refresh token for a short-lived access
// token. Any rejection by the provider is fatal for the calling operation.
func (c *DriveClient) refreshAccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {c.cfg.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", domain.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: token exchange failed with status %d: %s",
			domain.ErrAuth, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", domain.ErrAuth, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", domain.ErrAuth)
	}

	return token.AccessToken, nil
}

type createFileRequest struct {
	Name          string            `json:"name"`
	MimeType      string            `json:"mimeType"`
	AppProperties map[string]string `json:"appProperties"`
}

type createFileResponse struct {
	ID string `json:"id"`
}

// CreateUploadSession provisions a Drive file tagged with the owner's id,
// grants it anyone/reader permission so direct links work without further
// authorization, and opens a resumable upload session for the file bytes.
func (c *DriveClient) CreateUploadSession(ctx context.Context, ownerID, fileName, mimeType string) (*UploadSession, error) {
	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	fileID, err := c.createFile(ctx, token, ownerID, fileName, mimeType)
	if err != nil {
		return nil, err
	}

	if err := c.grantPublicRead(ctx, token, fileID); err != nil {
		return nil, err
	}

	sessionURL, err := c.openResumableSession(ctx, token, fileID, mimeType)
	if err != nil {
		return nil, err
	}

	c.logger.Info("upload session created", "file_id", fileID, "owner_id", ownerID)

	return &UploadSession{
		SessionURL: sessionURL,
		FileID:     fileID,
	}, nil
}

func (c *DriveClient) createFile(ctx context.Context, token, ownerID, fileName, mimeType string) (string, error) {
	payload := createFileRequest{
		Name:     fileName,
		MimeType: mimeType,
		AppProperties: map[string]string{
			"ownerId": ownerID,
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal create file request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/drive/v3/files", c.cfg.APIBase)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create file request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", domain.ErrStorage, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.StatusOK, http.StatusCreated); err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	var created createFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: decode create file response: %v", domain.ErrStorage, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create file response missing id", domain.ErrStorage)
	}

	return created.ID, nil
}

func (c *DriveClient) grantPublicRead(ctx context.Context, token, fileID string) error {
	jsonData, err := json.Marshal(map[string]string{
		"role": "reader",
		"type": "anyone",
	})
	if err != nil {
		return fmt.Errorf("marshal permission request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/drive/v3/files/%s/permissions", c.cfg.APIBase, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create permission request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: grant permission: %v", domain.ErrStorage, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.StatusOK, http.StatusCreated); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}

	return nil
}

func (c *DriveClient) openResumableSession(ctx context.Context, token, fileID, mimeType string) (string, error) {
	reqURL := fmt.Sprintf("%s/upload/drive/v3/files/%s?uploadType=resumable", c.cfg.APIBase, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Upload-Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: open upload session: %v", domain.ErrStorage, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.StatusOK); err != nil {
		return "", fmt.Errorf("open upload session: %w", err)
	}

	sessionURL := resp.Header.Get("Location")
	if sessionURL == "" {
		return "", fmt.Errorf("%w: upload session response missing Location header", domain.ErrStorage)
	}

	return sessionURL, nil
}

// GetFileMetadata fetches a remote object's metadata
func (c *DriveClient) GetFileMetadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/drive/v3/files/%s?fields=id,name,mimeType,size,webViewLink,webContentLink",
		c.cfg.APIBase, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get metadata: %v", domain.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	if err := c.checkStatus(resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	var meta FileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: decode metadata response: %v", domain.ErrStorage, err)
	}

	return &meta, nil
}

// Delete removes a remote object. Not-found responses count as success so a
// repeated sweep of the same material degrades to a no-op.
func (c *DriveClient) Delete(ctx context.Context, fileID string) error {
	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/drive/v3/files/%s", c.cfg.APIBase, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete file: %v", domain.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		c.logger.Debug("file already gone at provider", "file_id", fileID)
		return nil
	}
	if err := c.checkStatus(resp, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

// checkStatus maps unexpected provider responses to domain errors. 401 means
// the freshly refreshed token was still rejected, which is an auth problem,
// not a storage one.
func (c *DriveClient) checkStatus(resp *http.Response, allowed ...int) error {
	for _, code := range allowed {
		if resp.StatusCode == code {
			return nil
		}
	}

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: provider rejected access token: %s", domain.ErrAuth, string(body))
	}
	return fmt.Errorf("%w: status %d: %s", domain.ErrStorage, resp.StatusCode, string(body))
}
