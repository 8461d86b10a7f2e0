package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	metrics "github.com/rcrowley/go-metrics"
)

const (
	DefaultBaseURL = "https://api.pons.com/v1/dictionary"

	secretHeader = "X-Secret"
	probeTerm    = "Haus"
)

var ErrNoEntries = errors.New("no dictionary entries found")

// FetchError is returned when the dictionary service could not be reached or
// answered with an unexpected status. It never wraps an ExtractError.
type FetchError struct {
	Status status
	Code   int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Status {
	case NotFound:
		return e.Err.Error()
	case Unauthorized:
		return fmt.Sprintf("dictionary service rejected the API key (status %d)", e.Code)
	case UpstreamError:
		return fmt.Sprintf("dictionary service returned unexpected status %d", e.Code)
	default:
		if e.Err == nil {
			return "dictionary service unavailable"
		}
		return "dictionary service unavailable: " + e.Err.Error()
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Validate checks the configuration before any request is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("config: PONS_API_KEY is required and cannot be empty")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid PONS_API_URL (%q): %w", c.BaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid PONS_API_URL (%q): missing scheme or host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

type LookupService struct {
	config     *Config
	httpClient httpClient
	log        *logger.UPPLogger
	registry   metrics.Registry
}

type httpClient interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

func NewLookupService(config *Config, httpClient httpClient, log *logger.UPPLogger) LookupService {
	return LookupService{
		config:     config,
		httpClient: httpClient,
		log:        log,
		registry:   metrics.DefaultRegistry,
	}
}

// Lookup fetches the term from the dictionary service and turns the answer
// into display lines. Fetch failures are returned as *FetchError, malformed
// answers as *ExtractError. Failures are only logged at debug level; reporting
// them is left to the caller.
func (ls *LookupService) Lookup(ctx context.Context, from string, to string, term string, tid string) (Lookup, error) {
	if tid == "" {
		tid = transactionidutils.NewTransactionID()
	}
	start := time.Now()
	defer metrics.GetOrRegisterTimer("lookup.duration", ls.registry).UpdateSince(start)
	metrics.GetOrRegisterCounter("lookup.requests", ls.registry).Inc(1)

	body, err := ls.Fetch(ctx, from, to, term, tid)
	if err != nil {
		metrics.GetOrRegisterCounter("lookup.fetch_failures", ls.registry).Inc(1)
		return Lookup{}, err
	}

	meanings, err := ParseResponse(body, term)
	if err != nil {
		metrics.GetOrRegisterCounter("lookup.extract_failures", ls.registry).Inc(1)
		ls.log.WithError(err).WithFields(map[string]interface{}{"transaction_id": tid, "term": term}).Debug("Dictionary response could not be transformed")
		return Lookup{}, err
	}

	lookup := Lookup{
		ID:       lookupID(from, to, term),
		Term:     term,
		From:     from,
		To:       to,
		Meanings: stripGroups(meanings),
		Lines:    BuildLines(term, meanings),
		grouped:  meanings,
	}
	ls.log.WithFields(map[string]interface{}{"transaction_id": tid, "term": term, "meanings": meanings.Len()}).Debug("Lookup transformed")
	return lookup, nil
}

// Fetch returns the raw response body for the term.
func (ls *LookupService) Fetch(ctx context.Context, from string, to string, term string, tid string) ([]byte, error) {
	reqURL := ls.requestURL(from, to, term)
	fields := map[string]interface{}{"transaction_id": tid, "term": term, "languages": from + to}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		ls.log.WithError(err).WithFields(fields).Debug("Internal Error: Failed to create GET request to dictionary service")
		return nil, &FetchError{Status: InternalError, Err: err}
	}
	request.Header.Set(secretHeader, ls.config.APIKey)
	request.Header.Set(transactionidutils.TransactionIDHeader, tid)
	request.Header.Set("Accept", "application/json")

	ls.log.WithFields(fields).Debug("Requesting dictionary lookup")
	resp, err := ls.httpClient.Do(request)
	if err != nil {
		ls.log.WithError(err).WithFields(fields).Debug("Service Unavailable: request to dictionary service resulted in error")
		return nil, &FetchError{Status: ServiceUnavailable, Err: err}
	}

	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			ls.log.WithError(err).Info("Could not close body")
		}
	}(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		ls.log.WithFields(fields).Debug("No dictionary entries found")
		return nil, &FetchError{Status: NotFound, Code: resp.StatusCode, Err: ErrNoEntries}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		ls.log.WithFields(fields).WithField("status", resp.StatusCode).Debug("Dictionary service rejected the API key")
		return nil, &FetchError{Status: Unauthorized, Code: resp.StatusCode}
	default:
		ls.log.WithFields(fields).WithField("status", resp.StatusCode).Debug("Dictionary service returned unexpected status")
		return nil, &FetchError{Status: UpstreamError, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ls.log.WithError(err).WithFields(fields).Debug("Could not read dictionary response body")
		return nil, &FetchError{Status: ServiceUnavailable, Err: err}
	}
	return body, nil
}

// CheckConnectivity looks up a fixed word to verify the service is reachable
// and accepts the configured key.
func (ls *LookupService) CheckConnectivity() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ls.config.Timeout)
	defer cancel()

	tid := transactionidutils.NewTransactionID()
	_, err := ls.Fetch(ctx, german.String(), english.String(), probeTerm, tid)
	var fetchErr *FetchError
	if err != nil && !(errors.As(err, &fetchErr) && fetchErr.Status == NotFound) {
		return fmt.Sprintf("Error calling dictionary service at %s: %v", ls.config.BaseURL, err), errors.New("Unable to verify availability of the dictionary service")
	}
	return "Successfully connected to the dictionary service", nil
}

func (ls *LookupService) requestURL(from string, to string, term string) string {
	query := url.Values{}
	query.Set("l", from+to)
	query.Set("q", term)
	return ls.config.BaseURL + "?" + query.Encode()
}
