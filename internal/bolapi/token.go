package bolapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/bol_export/internal/ports"
	"github.com/Gunvolt24/bol_export/pkg/metrics"
	"github.com/Gunvolt24/bol_export/pkg/retry"
)

const (
	// refreshBuffer — токен не отдаётся наружу ближе 30 секунд к истечению.
	refreshBuffer = 30 * time.Second
	// defaultExpiresIn — срок жизни, если сервер не вернул expires_in.
	defaultExpiresIn = 300 * time.Second
)

// Проверка, что TokenManager удовлетворяет порту TokenSource.
var _ ports.TokenSource = (*TokenManager)(nil)

// token — кэшированный OAuth2-токен. Никогда не сериализуется наружу.
type token struct {
	accessToken string
	expiresAt   time.Time
}

// TokenManager владеет единственным кэшированным токеном и обновляет его
// грантом client_credentials, когда токен отсутствует или близок к истечению.
// Вызывающие получают токен только через Token — поле кэша снаружи недоступно,
// поэтому «прочитал-возможно-обновил» для них атомарно.
type TokenManager struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	retry        retry.Policy
	log          ports.Logger

	now    func() time.Time
	cached *token // единственная мутация — успешный refresh
}

// NewTokenManager — конструктор.
func NewTokenManager(httpClient *http.Client, tokenURL, clientID, clientSecret string, policy retry.Policy, log ports.Logger) *TokenManager {
	return &TokenManager{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		retry:        policy,
		log:          log,
		now:          time.Now,
	}
}

// Token возвращает валидный access-токен.
// Кэш используется, пока now < expiresAt - 30s; иначе — грант заново.
// 401/403 от identity-эндпоинта — сразу ErrAuth, без повторов;
// прочие сбои проходят политику повторов и затем оборачиваются в ErrAuth.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	if tm.cached != nil && tm.now().Before(tm.cached.expiresAt.Add(-refreshBuffer)) {
		return tm.cached.accessToken, nil
	}

	tm.log.Infof(ctx, "requesting new access token")

	p := tm.retry
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		metrics.APIRetries.WithLabelValues("token").Inc()
		tm.log.Warnf(ctx, "token grant attempt %d failed: %v (retry in %s)", attempt, err, wait)
	}

	var fresh token
	err := p.Do(ctx, func() error {
		t, grantErr := tm.grant(ctx)
		if grantErr != nil {
			return grantErr
		}
		fresh = t
		return nil
	}, func(err error) bool {
		// Отказ в учётных данных бессмысленно повторять.
		return !errors.Is(err, ErrAuth)
	})
	if err != nil {
		metrics.APIRequests.WithLabelValues("token", "error").Inc()
		if errors.Is(err, ErrAuth) {
			return "", err
		}
		return "", fmt.Errorf("%w: token request: %v", ErrAuth, err)
	}

	tm.cached = &fresh
	metrics.APIRequests.WithLabelValues("token", "ok").Inc()
	tm.log.Infof(ctx, "access token obtained, expires at %s", fresh.expiresAt.Format(time.RFC3339))
	return fresh.accessToken, nil
}

// grant выполняет один запрос client_credentials.
func (tm *TokenManager) grant(ctx context.Context) (token, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return token{}, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(tm.clientID, tm.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return token{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return token{}, fmt.Errorf("%w: credentials rejected (status %d)", ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return token{}, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string  `json:"access_token"`
		ExpiresIn   float64 `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return token{}, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return token{}, errors.New("token response without access_token")
	}

	expiresIn := defaultExpiresIn
	if payload.ExpiresIn > 0 {
		expiresIn = time.Duration(payload.ExpiresIn * float64(time.Second))
	}

	return token{
		accessToken: payload.AccessToken,
		expiresAt:   tm.now().Add(expiresIn),
	}, nil
}
