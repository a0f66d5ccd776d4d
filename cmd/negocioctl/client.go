package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/stevemurr/negocio-server/ledger"
)

// NegocioClient calls the negocio server HTTP API.
type NegocioClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ErrorResponse is the failure envelope of the API.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Campos  []string `json:"campos,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewNegocioClient(baseURL string) *NegocioClient {
	return &NegocioClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *NegocioClient) do(method, path string, body io.Reader) ([]byte, *http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			return nil, nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return nil, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return data, resp, nil
}

// DownloadBackup returns the backup document and the file name suggested by
// the server.
func (c *NegocioClient) DownloadBackup() ([]byte, string, error) {
	data, resp, err := c.do(http.MethodGet, "/api/backup", nil)
	if err != nil {
		return nil, "", err
	}
	var filename string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return data, filename, nil
}

// RestoreBackup uploads a backup document and returns the server message.
func (c *NegocioClient) RestoreBackup(data []byte) (string, error) {
	body, _, err := c.do(http.MethodPost, "/api/restore", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return msg.Message, nil
}

// Stats fetches the statistics summary.
func (c *NegocioClient) Stats() (*ledger.Summary, error) {
	body, _, err := c.do(http.MethodGet, "/api/estadisticas", nil)
	if err != nil {
		return nil, err
	}
	var sum ledger.Summary
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &sum, nil
}
