// Package onezero implements the protocol client for the One Zero digital bank.
//
// Routine syncs authenticate with a long-term OTP token obtained once through
// TriggerOTP and VerifyOTP, then page through account movements over GraphQL.
package onezero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/textnorm"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Institution is the registry key of this client.
const Institution scraper.Institution = "onezero"

// Credential keys.
const (
	CredentialEmail            = "email"
	CredentialPassword         = "password"
	CredentialOTPLongTermToken = "otpLongTermToken"
)

const (
	DefaultIdentityURL = "https://identity.tfd-bank.com/v1"
	DefaultGraphQLURL  = "https://mobile.tfd-bank.com/mobile-graph/graphql"
	DefaultPageSize    = 50

	debit = "DEBIT"
)

// Config configures the client.
type Config struct {
	IdentityURL string
	GraphQLURL  string
	PageSize    int
	Timeout     time.Duration
	Transport   http.RoundTripper
}

// Client talks to the One Zero identity service and GraphQL API.
type Client struct {
	cfg Config
}

// New returns a Client. Zero config fields take their defaults.
func New(cfg Config) *Client {
	if cfg.IdentityURL == "" {
		cfg.IdentityURL = DefaultIdentityURL
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = DefaultGraphQLURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	cfg.IdentityURL = strings.TrimRight(cfg.IdentityURL, "/")

	return &Client{cfg: cfg}
}

// Factory returns a scraper.Factory producing clients with cfg.
func Factory(cfg Config) scraper.Factory {
	return func() scraper.Scraper {
		return New(cfg)
	}
}

func (c *Client) session() *scraper.Session {
	return scraper.NewSession(Institution, c.cfg.Transport, c.cfg.Timeout)
}

// OTPChallenge is returned when an SMS code has been dispatched.
type OTPChallenge struct {
	DeviceToken string `json:"deviceToken"`
	OTPContext  string `json:"otpContext"`
}

// TriggerOTP registers a device and sends an SMS code to phoneNumber.
func (c *Client) TriggerOTP(ctx context.Context, phoneNumber string) (OTPChallenge, error) {
	s := c.session()

	var device identityResponse[struct {
		DeviceToken string `json:"deviceToken"`
	}]
	err := s.PostJSON(ctx, c.cfg.IdentityURL+"/devices/token", deviceTokenRequest{ExtClientID: "mobile", OS: "Android"}, &device)
	if err != nil {
		return OTPChallenge{}, fmt.Errorf("registering device: %w", err)
	}
	if device.ResultData.DeviceToken == "" {
		return OTPChallenge{}, fmt.Errorf("%w: no device token", scraper.ErrAPI)
	}

	var prepared identityResponse[struct {
		OTPContext string `json:"otpContext"`
	}]
	err = s.PostJSON(ctx, c.cfg.IdentityURL+"/otp/prepare", prepareOTPRequest{
		FactorValue: phoneNumber,
		DeviceToken: device.ResultData.DeviceToken,
		OTPChannel:  "SMS_OTP",
	}, &prepared)
	if err != nil {
		return OTPChallenge{}, fmt.Errorf("preparing OTP: %w", err)
	}
	if prepared.ResultData.OTPContext == "" {
		return OTPChallenge{}, fmt.Errorf("%w: no OTP context", scraper.ErrAPI)
	}

	return OTPChallenge{
		DeviceToken: device.ResultData.DeviceToken,
		OTPContext:  prepared.ResultData.OTPContext,
	}, nil
}

// VerifyOTP exchanges the SMS code for the long-term token stored with the
// account credentials.
func (c *Client) VerifyOTP(ctx context.Context, otpContext, code string) (string, error) {
	var verified identityResponse[struct {
		OTPToken string `json:"otpToken"`
	}]
	err := c.session().PostJSON(ctx, c.cfg.IdentityURL+"/otp/verify", verifyOTPRequest{OTPContext: otpContext, OTPCode: code}, &verified)
	if err != nil {
		return "", fmt.Errorf("verifying OTP: %w", err)
	}
	if verified.ResultData.OTPToken == "" {
		return "", fmt.Errorf("%w: no OTP token", scraper.ErrAPI)
	}

	return verified.ResultData.OTPToken, nil
}

// Scrape implements scraper.Scraper.
func (c *Client) Scrape(ctx context.Context, creds scraper.Credentials, startDate time.Time) scraper.Result {
	return scraper.Guard(Institution, func() scraper.Result {
		for _, key := range []string{CredentialEmail, CredentialPassword, CredentialOTPLongTermToken} {
			if creds.Get(key) == "" {
				return scraper.Failed(fmt.Errorf("%w: missing %s", scraper.ErrMissingCredentials, key))
			}
		}

		s := c.session()

		accessToken, err := c.authenticate(ctx, s, creds)
		if err != nil {
			log.Warn().Str("institution", string(Institution)).Err(err).Msg("authentication failed")
			return scraper.Failed(err)
		}
		s.Header.Set("Authorization", "Bearer "+accessToken)

		transactions, err := c.fetch(ctx, s, startDate)
		if err != nil {
			log.Warn().Str("institution", string(Institution)).Err(err).Msg("fetching movements failed")
			return scraper.Failed(err)
		}

		return scraper.Succeeded(transactions)
	})
}

// authenticate exchanges the long-term token for an ID token and the ID token
// for a session access token.
func (c *Client) authenticate(ctx context.Context, s *scraper.Session, creds scraper.Credentials) (string, error) {
	var idToken identityResponse[struct {
		IDToken string `json:"idToken"`
	}]
	err := s.PostJSON(ctx, c.cfg.IdentityURL+"/getIdToken", idTokenRequest{
		OTPSmsToken: creds.Get(CredentialOTPLongTermToken),
		Email:       creds.Get(CredentialEmail),
		Pass:        creds.Get(CredentialPassword),
	}, &idToken)
	if err != nil {
		return "", authError("ID token", err)
	}
	if idToken.ResultData.IDToken == "" {
		return "", fmt.Errorf("%w: no ID token issued", scraper.ErrReauthRequired)
	}

	var session identityResponse[struct {
		AccessToken string `json:"accessToken"`
	}]
	err = s.PostJSON(ctx, c.cfg.IdentityURL+"/sessions/token", sessionTokenRequest{
		IDToken: idToken.ResultData.IDToken,
		Pass:    creds.Get(CredentialPassword),
	}, &session)
	if err != nil {
		return "", authError("session token", err)
	}
	if session.ResultData.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token issued", scraper.ErrReauthRequired)
	}

	return session.ResultData.AccessToken, nil
}

// authError keeps connection failures and server errors transient. Any answer
// from the identity service rejecting the exchange means the long-term token
// is no longer valid.
func authError(step string, err error) error {
	var status *scraper.StatusError
	if errors.As(err, &status) && status.Code >= 500 {
		return fmt.Errorf("%s: %w", step, err)
	}
	if errors.Is(err, scraper.ErrNetwork) {
		return fmt.Errorf("%s: %w", step, err)
	}
	return fmt.Errorf("%w: %s: %w", scraper.ErrReauthRequired, step, err)
}

func (c *Client) fetch(ctx context.Context, s *scraper.Session, startDate time.Time) ([]scraper.RawTransaction, error) {
	var customer customerData
	if err := c.query(ctx, s, "GetCustomer", customerQuery, map[string]any{}, &customer); err != nil {
		return nil, err
	}

	var transactions []scraper.RawTransaction
	for _, portfolio := range customer.Customer.Portfolios {
		for _, account := range portfolio.Accounts {
			movements, err := c.fetchMovements(ctx, s, portfolio.PortfolioID, account.AccountID, startDate)
			if err != nil {
				return nil, fmt.Errorf("portfolio %s: %w", portfolio.PortfolioNum, err)
			}
			transactions = append(transactions, movements...)
		}
	}

	return transactions, nil
}

// fetchMovements pages backwards through an account's movements and stops
// once a page reaches past startDate.
func (c *Client) fetchMovements(ctx context.Context, s *scraper.Session, portfolioID, accountID string, startDate time.Time) ([]scraper.RawTransaction, error) {
	var (
		transactions []scraper.RawTransaction
		cursor       *string
		pages        int
	)

	for {
		var page movementsData
		err := c.query(ctx, s, "GetMovements", movementsQuery, map[string]any{
			"portfolioId": portfolioID,
			"accountId":   accountID,
			"language":    "HEBREW",
			"pagination": map[string]any{
				"cursor": cursor,
				"limit":  c.cfg.PageSize,
			},
		}, &page)
		if err != nil {
			return nil, err
		}
		pages++

		var oldest time.Time
		for _, m := range page.Movements.Movements {
			txn, err := convert(m)
			if err != nil {
				return nil, err
			}

			if oldest.IsZero() || txn.Date.Before(oldest) {
				oldest = txn.Date
			}
			if txn.Date.Before(startDate) {
				continue
			}
			transactions = append(transactions, txn)
		}

		cursor = page.Movements.Pagination.Cursor
		if !page.Movements.Pagination.HasMore || cursor == nil || len(page.Movements.Movements) == 0 || oldest.Before(startDate) {
			break
		}
	}

	log.Debug().Str("institution", string(Institution)).Str("account", accountID).Int("pages", pages).Int("transactions", len(transactions)).Msg("fetched movements")
	return transactions, nil
}

func (c *Client) query(ctx context.Context, s *scraper.Session, operation, query string, variables map[string]any, out any) error {
	var resp graphQLResponse
	err := s.PostJSON(ctx, c.cfg.GraphQLURL, graphQLRequest{
		OperationName: operation,
		Query:         query,
		Variables:     variables,
	}, &resp)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			messages[i] = e.Message
		}
		return fmt.Errorf("%w: %s: %s", scraper.ErrAPI, operation, strings.Join(messages, "; "))
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: %s data: %w", scraper.ErrMalformedResponse, operation, err)
	}
	return nil
}

func convert(m movement) (scraper.RawTransaction, error) {
	date, err := time.Parse(time.RFC3339, m.MovementTimestamp)
	if err != nil {
		return scraper.RawTransaction{}, fmt.Errorf("%w: movement %s timestamp %q: %w", scraper.ErrMalformedResponse, m.MovementID, m.MovementTimestamp, err)
	}

	var processed *time.Time
	if valueDate, err := time.Parse("2006-01-02", m.ValueDate); err == nil {
		processed = &valueDate
	}

	sign := decimal.NewFromInt(1)
	if m.CreditDebit == debit {
		sign = decimal.NewFromInt(-1)
	}
	amount := m.MovementAmount.Abs().Mul(sign)

	txn := scraper.RawTransaction{
		Identifier:       m.MovementID,
		Date:             date.UTC(),
		ProcessedDate:    processed,
		Description:      textnorm.Sanitize(m.Description),
		OriginalAmount:   amount,
		OriginalCurrency: m.MovementCurrency,
		ChargedAmount:    amount,
		ChargedCurrency:  m.MovementCurrency,
	}
	if txn.Description != m.Description {
		txn.OriginalDescription = m.Description
	}

	return txn, nil
}

var _ scraper.Scraper = (*Client)(nil)
