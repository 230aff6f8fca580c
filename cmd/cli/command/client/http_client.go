package client

// http_client.go = typed access to the mangapress admin API.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"mangapress/cmd/cli/dto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	var result dto.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListManga(ctx context.Context) ([]dto.MangaResponse, error) {
	var result []dto.MangaResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/manga", nil, &result)
	return result, err
}

func (c *HTTPClient) GetManga(ctx context.Context, id string) (*dto.MangaResponse, error) {
	var result dto.MangaResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/manga/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateManga(ctx context.Context, request *dto.MangaRequest) (*dto.MangaResponse, error) {
	var result dto.MangaResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/manga", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteManga(ctx context.Context, id string) (string, error) {
	var result dto.MessageResponse
	err := c.doJSON(ctx, http.MethodDelete, "/api/manga/"+url.PathEscape(id), nil, &result)
	return result.Message, err
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var result []dto.CategoryResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/category", nil, &result)
	return result, err
}

func (c *HTTPClient) CreateCategory(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	var result dto.CategoryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/category", map[string]string{"name": name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id string) (string, error) {
	var result dto.MessageResponse
	err := c.doJSON(ctx, http.MethodDelete, "/api/category/"+url.PathEscape(id), nil, &result)
	return result.Message, err
}

// Upload sends one file as multipart form data.
func (c *HTTPClient) Upload(ctx context.Context, filename string, data []byte, logicalType string, staged bool) (*dto.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if logicalType != "" {
		if err := mw.WriteField("type", logicalType); err != nil {
			return nil, err
		}
	}
	if staged {
		if err := mw.WriteField("stage", "temp"); err != nil {
			return nil, err
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var result dto.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload", &body, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Sweep(ctx context.Context, request *dto.SweepRequest) (*dto.SweepResponse, error) {
	var result dto.SweepResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/media/sweep", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close() // Ensure the response body is closed

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{Status: response.StatusCode}
		var e dto.ErrorResponse
		if json.NewDecoder(response.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
