package sindri

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxRequestRetries is the number of transport-level retries per request,
// applied on connection failures and on HTTP 502/503/504. The poll loop
// never retries on its own; this is the only retry layer.
const maxRequestRetries = 5

// retryBackoff returns the delay before retry attempt n (1-based):
// 0s, 2s, 4s, 8s, 16s.
func retryBackoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return time.Duration(1<<(attempt-1)) * time.Second
}

func retryableStatus(code int) bool {
	return code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

// upload describes a file attached to a multipart request.
type upload struct {
	fieldName string
	fileName  string
	contents  []byte
}

// get issues a GET request against the API with optional query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	fullURL := c.apiURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return c.roundTrip(ctx, path, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	})
}

// postForm issues a POST request with a URL-encoded form body.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (int, []byte, error) {
	fullURL := c.apiURL + path
	encoded := form.Encode()
	return c.roundTrip(ctx, path, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// postMultipart issues a POST request with a multipart body carrying form
// fields plus one file upload.
func (c *Client) postMultipart(ctx context.Context, path string, form url.Values, file upload) (int, []byte, error) {
	fullURL := c.apiURL + path

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return 0, nil, fmt.Errorf("write form field %s: %w", key, err)
			}
		}
	}
	part, err := writer.CreateFormFile(file.fieldName, file.fileName)
	if err != nil {
		return 0, nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.contents); err != nil {
		return 0, nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	body := buf.Bytes()
	contentType := writer.FormDataContentType()
	return c.roundTrip(ctx, path, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// deleteRequest issues a DELETE request against the API.
func (c *Client) deleteRequest(ctx context.Context, path string) (int, []byte, error) {
	fullURL := c.apiURL + path
	return c.roundTrip(ctx, path, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, fullURL, nil)
	})
}

// roundTrip sends one logical request, retrying on connection failures and
// on 502/503/504 with the fixed backoff schedule. It returns the status
// code and the fully-read body of the final response.
func (c *Client) roundTrip(ctx context.Context, path string, makeRequest func() (*http.Request, error)) (int, []byte, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRequestRetries; attempt++ {
		if attempt > 0 {
			if delay := retryBackoff(attempt); delay > 0 {
				c.sleep(delay)
			}
		}
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		req, err := makeRequest()
		if err != nil {
			return 0, nil, fmt.Errorf("create request: %w", err)
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Debug().Err(err).Str("path", path).Int("attempt", attempt).
				Msg("request failed, will retry")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
			c.logger.Debug().Str("path", path).Int("attempt", attempt).
				Int("status", resp.StatusCode).Msg("retryable status, will retry")
			continue
		}

		return resp.StatusCode, body, nil
	}

	return 0, nil, newErrorWithCause(KindConnection,
		fmt.Sprintf("unable to reach the API, path=%s", path), lastErr)
}

// request performs a round trip and applies the status and body handling
// shared by every endpoint: 401 and 404 map to their error kinds, and any
// other response must be valid JSON.
func (c *Client) request(ctx context.Context, method, path string, query, form url.Values, file *upload) (int, []byte, error) {
	var (
		status int
		body   []byte
		err    error
	)
	switch method {
	case http.MethodGet:
		status, body, err = c.get(ctx, path, query)
	case http.MethodPost:
		if file != nil {
			status, body, err = c.postMultipart(ctx, path, form, *file)
		} else {
			status, body, err = c.postForm(ctx, path, form)
		}
	case http.MethodDelete:
		status, body, err = c.deleteRequest(ctx, path)
	default:
		return 0, nil, fmt.Errorf("unsupported request method %q", method)
	}
	if err != nil {
		return 0, nil, err
	}

	switch status {
	case http.StatusUnauthorized:
		return status, body, newHTTPError(KindAuth,
			fmt.Sprintf("invalid API key, path=%s", path), status, body)
	case http.StatusNotFound:
		return status, body, newHTTPError(KindNotFound,
			fmt.Sprintf("not found, path=%s", path), status, body)
	}

	if !json.Valid(body) {
		return status, body, newHTTPError(KindMalformedResponse,
			fmt.Sprintf("unable to decode response as JSON, path=%s", path), status, body)
	}

	return status, body, nil
}

// decodeResponse unmarshals a JSON body into out, mapping decode failures
// onto KindMalformedResponse.
func decodeResponse(body []byte, path string, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return newErrorWithCause(KindMalformedResponse,
			fmt.Sprintf("unexpected response shape, path=%s", path), err)
	}
	return nil
}
