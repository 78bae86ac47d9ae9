package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoToken means the sign-in response carried no authentication token,
// usually because the credentials were wrong.
var ErrNoToken = errors.New("directory: no authentication token in sign-in response")

type signInResponse struct {
	People []struct {
		AuthenticationToken *string `json:"authentication_token"`
	} `json:"people"`
}

// SignIn trades an e-mail address and password for the personal API token.
func SignIn(ctx context.Context, client *http.Client, signInURL, email, password string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	form := url.Values{}
	form.Set("person[email]", email)
	form.Set("person[password]", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("directory: build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("directory: sign in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: %s", ErrNoToken, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("directory: sign in: unexpected status %s", resp.Status)
	}

	var payload signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("directory: decode sign-in response: %w", err)
	}
	if len(payload.People) == 0 || payload.People[0].AuthenticationToken == nil {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(*payload.People[0].AuthenticationToken)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
