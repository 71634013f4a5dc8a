// Package isracard implements the protocol client for the Isracard credit card
// issuer.
//
// A scrape walks through the states
//
//	anonymous -> identity validated -> authenticated -> paginating(month) -> done
//
// and issues exactly one transactions request per calendar month, paced by
// Config.Delay.
package isracard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/types"
	"github.com/rs/zerolog/log"
)

// Institution is the registry key of this client.
const Institution scraper.Institution = "isracard"

// Credential keys.
const (
	CredentialID          = "id"
	CredentialCard6Digits = "card6Digits"
	CredentialPassword    = "password"
)

const (
	DefaultBaseURL     = "https://digital.isracard.co.il"
	DefaultCompanyCode = "11"
	DefaultDelay       = time.Second

	countryCode = "212"
	idType      = "1"
	checkLevel  = "1"

	statusOK = "1"

	validateOK             = "1"
	validateChangePassword = "4"
	logonOK                = "1"
	logonChangePassword    = "3"

	nonMonetaryDealSumType = "1"
	emptyVoucher           = "000000000"

	dateLayout = "2/1/2006"
)

// Config configures the client.
type Config struct {
	BaseURL     string
	CompanyCode string
	Delay       time.Duration // Pause between two monthly requests, never zero
	Timeout     time.Duration // Per HTTP request
	Transport   http.RoundTripper
	Now         func() time.Time
}

type state int

const (
	stateAnonymous state = iota
	stateIdentityValidated
	stateAuthenticated
	statePaginating
	stateDone
)

func (s state) String() string {
	return [...]string{"anonymous", "identity validated", "authenticated", "paginating", "done"}[s]
}

// Client scrapes a single Isracard account.
type Client struct {
	cfg Config
}

// New returns a Client. Zero config fields take their defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CompanyCode == "" {
		cfg.CompanyCode = DefaultCompanyCode
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg}
}

// Factory returns a scraper.Factory producing clients with cfg.
func Factory(cfg Config) scraper.Factory {
	return func() scraper.Scraper {
		return New(cfg)
	}
}

// run holds the state of one scrape.
type run struct {
	cfg     Config
	session *scraper.Session
	state   state
	creds   scraper.Credentials
}

// Scrape implements scraper.Scraper.
func (c *Client) Scrape(ctx context.Context, creds scraper.Credentials, startDate time.Time) scraper.Result {
	return scraper.Guard(Institution, func() scraper.Result {
		for _, key := range []string{CredentialID, CredentialCard6Digits, CredentialPassword} {
			if creds.Get(key) == "" {
				return scraper.Failed(fmt.Errorf("%w: missing %s", scraper.ErrMissingCredentials, key))
			}
		}

		r := &run{
			cfg:     c.cfg,
			session: scraper.NewSession(Institution, c.cfg.Transport, c.cfg.Timeout),
			creds:   creds,
		}

		transactions, err := r.scrape(ctx, startDate)
		if err != nil {
			log.Warn().Str("institution", string(Institution)).Str("state", r.state.String()).Err(err).Msg("scrape failed")
			return scraper.Failed(err)
		}

		return scraper.Succeeded(transactions)
	})
}

func (r *run) scrape(ctx context.Context, startDate time.Time) ([]scraper.RawTransaction, error) {
	if err := r.session.Get(ctx, r.cfg.BaseURL+"/personalarea/Login"); err != nil {
		return nil, err
	}

	userName, err := r.validate(ctx)
	if err != nil {
		return nil, err
	}
	r.state = stateIdentityValidated

	if err := r.logon(ctx, userName); err != nil {
		return nil, err
	}
	r.state = stateAuthenticated

	var transactions []scraper.RawTransaction
	months := types.MonthsBetween(startDate, r.cfg.Now())
	for i, month := range months {
		if i > 0 {
			if err := wait(ctx, r.cfg.Delay); err != nil {
				return nil, err
			}
		}

		r.state = statePaginating
		txns, err := r.fetchMonth(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", month, err)
		}
		transactions = append(transactions, txns...)
	}
	r.state = stateDone

	return transactions, nil
}

func (r *run) servicesURL(query url.Values) string {
	return r.cfg.BaseURL + "/services/ProxyRequestHandler.ashx?" + query.Encode()
}

func (r *run) validate(ctx context.Context) (string, error) {
	var resp validateResponse
	err := r.session.PostJSON(ctx, r.servicesURL(url.Values{"reqName": {"ValidateIdData"}}), validateRequest{
		ID:          r.creds.Get(CredentialID),
		CardSuffix:  r.creds.Get(CredentialCard6Digits),
		CountryCode: countryCode,
		IDType:      idType,
		CheckLevel:  checkLevel,
		CompanyCode: r.cfg.CompanyCode,
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Header.Status != statusOK || resp.ValidateIDDataBean == nil {
		return "", fmt.Errorf("%w: identity validation returned status %q", scraper.ErrAPI, resp.Header.Status)
	}

	switch resp.ValidateIDDataBean.ReturnCode {
	case validateOK:
		return resp.ValidateIDDataBean.UserName, nil
	case validateChangePassword:
		return "", scraper.ErrPasswordChangeRequired
	default:
		return "", fmt.Errorf("%w: identity validation return code %q", scraper.ErrBadCredentials, resp.ValidateIDDataBean.ReturnCode)
	}
}

func (r *run) logon(ctx context.Context, userName string) error {
	var resp logonResponse
	err := r.session.PostJSON(ctx, r.servicesURL(url.Values{"reqName": {"performLogonI"}}), logonRequest{
		UserName:    userName,
		ID:          r.creds.Get(CredentialID),
		Password:    r.creds.Get(CredentialPassword),
		CardSuffix:  r.creds.Get(CredentialCard6Digits),
		CountryCode: countryCode,
		IDType:      idType,
	}, &resp)
	if err != nil {
		return err
	}

	switch resp.Status {
	case logonOK:
		return nil
	case logonChangePassword:
		return scraper.ErrPasswordChangeRequired
	default:
		return fmt.Errorf("%w: logon status %q", scraper.ErrBadCredentials, resp.Status)
	}
}

func (r *run) fetchMonth(ctx context.Context, month types.Month) ([]scraper.RawTransaction, error) {
	query := url.Values{
		"reqName":      {"CardsTransactionsList"},
		"month":        {fmt.Sprintf("%02d", month.Month())},
		"year":         {strconv.Itoa(month.Year())},
		"requiredDate": {"N"},
	}

	var resp monthResponse
	if err := r.session.GetJSON(ctx, r.servicesURL(query), &resp); err != nil {
		return nil, err
	}

	if resp.Header.Status != statusOK {
		return nil, fmt.Errorf("%w: transactions list returned status %q", scraper.ErrAPI, resp.Header.Status)
	}

	var transactions []scraper.RawTransaction
	for _, key := range cardKeys(resp.Bean) {
		var card cardTransactions
		if err := json.Unmarshal(resp.Bean[key], &card); err != nil {
			return nil, fmt.Errorf("%w: card %s: %w", scraper.ErrMalformedResponse, key, err)
		}

		for _, group := range card.CurrentCardTransactions {
			for _, txn := range append(group.Domestic, group.Abroad...) {
				if !monetary(txn) {
					continue
				}

				converted, err := convert(txn)
				if err != nil {
					return nil, err
				}
				transactions = append(transactions, converted)
			}
		}
	}

	log.Debug().Str("institution", string(Institution)).Stringer("month", month).Int("transactions", len(transactions)).Msg("fetched month")
	return transactions, nil
}

// cardKeys returns the card entries of the bean in index order.
func cardKeys(bean map[string]json.RawMessage) []string {
	var keys []string
	for i := 0; ; i++ {
		key := "Index" + strconv.Itoa(i)
		if _, ok := bean[key]; !ok {
			return keys
		}
		keys = append(keys, key)
	}
}

func monetary(t rawTxn) bool {
	if t.DealSumType == nonMonetaryDealSumType {
		return false
	}
	if t.outbound() {
		return t.VoucherNumberRatzOutbound != emptyVoucher
	}
	return t.VoucherNumberRatz != emptyVoucher
}

func convert(t rawTxn) (scraper.RawTransaction, error) {
	if t.outbound() {
		date, err := parseDate(t.FullPurchaseDateOutbound)
		if err != nil {
			return scraper.RawTransaction{}, err
		}

		return scraper.RawTransaction{
			Identifier:       t.VoucherNumberRatzOutbound,
			Date:             date,
			ProcessedDate:    optionalDate(t.FullPaymentDate),
			Description:      strings.TrimSpace(t.FullSupplierNameOutbound),
			OriginalAmount:   t.DealSumOutbound.Decimal.Neg(),
			OriginalCurrency: currency(t.CurrentPaymentCurrency),
			ChargedAmount:    t.PaymentSumOutbound.Decimal.Neg(),
			ChargedCurrency:  "ILS",
			Memo:             strings.TrimSpace(t.MoreInfo),
		}, nil
	}

	date, err := parseDate(t.FullPurchaseDate)
	if err != nil {
		return scraper.RawTransaction{}, err
	}

	chargedAmount := t.PaymentSum.Decimal
	if !t.PaymentSum.Valid {
		chargedAmount = t.DealSum.Decimal
	}

	return scraper.RawTransaction{
		Identifier:       t.VoucherNumberRatz,
		Date:             date,
		ProcessedDate:    optionalDate(t.FullPaymentDate),
		Description:      strings.TrimSpace(t.FullSupplierNameHeb),
		OriginalAmount:   t.DealSum.Decimal.Neg(),
		OriginalCurrency: currency(t.CurrencyID),
		ChargedAmount:    chargedAmount.Neg(),
		ChargedCurrency:  "ILS",
		Memo:             strings.TrimSpace(t.MoreInfo),
	}, nil
}

// parseDate parses DD/MM/YYYY into midnight UTC.
func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", scraper.ErrMalformedResponse, s, err)
	}
	return date, nil
}

func optionalDate(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	date, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &date
}

func currency(s string) string {
	switch strings.TrimSpace(s) {
	case "ש\"ח", "NIS", "ILS", "":
		return "ILS"
	case "דולר", "$", "USD":
		return "USD"
	case "יורו", "€", "EUR":
		return "EUR"
	default:
		return strings.TrimSpace(s)
	}
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", scraper.ErrNetwork, ctx.Err())
	case <-timer.C:
		return nil
	}
}

var _ scraper.Scraper = (*Client)(nil)
