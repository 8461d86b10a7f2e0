package dictionary

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ExpectedContentType = "application/json"

func newRequest(method, url string, body string) *http.Request {
	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		panic(err)
	}
	req.Header = map[string][]string{
		"Content-Type": {ExpectedContentType},
	}
	return req
}

func newTestRouter(client *mockHTTPClient) *mux.Router {
	h := NewHandler(NewLookupService(testConfig(), client, createLogger()), createLogger())
	router := mux.NewRouter()
	h.RegisterHandlers(router)
	return router
}

func TestLookupHandler(t *testing.T) {
	type testStruct struct {
		testName           string
		endpoint           string
		method             string
		clientResp         string
		statusCode         int
		clientErr          error
		expectedStatusCode int
		expectedBody       string
	}

	scharf := readFile(t, "../resources/scharf.json")

	successfulLookup := testStruct{testName: "successfulLookup", endpoint: "/lookup/de/ru/scharf", method: "GET", clientResp: scharf, statusCode: 200, expectedStatusCode: http.StatusOK, expectedBody: `"header":"1. scharf (schneidend)"`}
	successfulQueryLookup := testStruct{testName: "successfulQueryLookup", endpoint: "/lookup?l=deru&q=scharf", method: "GET", clientResp: scharf, statusCode: 200, expectedStatusCode: http.StatusOK, expectedBody: `The word \"scharf\" has the following meanings:`}
	unsupportedLanguage := testStruct{testName: "unsupportedLanguage", endpoint: "/lookup/de/fr/scharf", method: "GET", expectedStatusCode: http.StatusBadRequest, expectedBody: "unsupported language pair defr"}
	invalidLanguagePair := testStruct{testName: "invalidLanguagePair", endpoint: "/lookup?l=de&q=scharf", method: "GET", expectedStatusCode: http.StatusBadRequest, expectedBody: "invalid language pair"}
	missingTerm := testStruct{testName: "missingTerm", endpoint: "/lookup?l=deru", method: "GET", expectedStatusCode: http.StatusBadRequest, expectedBody: "missing term"}
	noEntries := testStruct{testName: "noEntries", endpoint: "/lookup/de/ru/xyzzy", method: "GET", statusCode: 204, expectedStatusCode: http.StatusNotFound, expectedBody: "no dictionary entries found"}
	malformedResponse := testStruct{testName: "malformedResponse", endpoint: "/lookup/de/ru/scharf", method: "GET", clientResp: `[{"hits":[]}]`, statusCode: 200, expectedStatusCode: http.StatusBadGateway, expectedBody: "no hits at [0].hits"}
	invalidJSON := testStruct{testName: "invalidJSON", endpoint: "/lookup/de/ru/scharf", method: "GET", clientResp: `<html>`, statusCode: 200, expectedStatusCode: http.StatusBadGateway, expectedBody: "not valid JSON"}
	rejectedKey := testStruct{testName: "rejectedKey", endpoint: "/lookup/de/ru/scharf", method: "GET", statusCode: 403, expectedStatusCode: http.StatusBadGateway, expectedBody: "rejected the API key"}
	upstreamDown := testStruct{testName: "upstreamDown", endpoint: "/lookup/de/ru/scharf", method: "GET", clientErr: errors.New("connection refused"), expectedStatusCode: http.StatusServiceUnavailable, expectedBody: "connection refused"}
	wrongMethod := testStruct{testName: "wrongMethod", endpoint: "/lookup/de/ru/scharf", method: "POST", expectedStatusCode: http.StatusMethodNotAllowed}

	testScenarios := []testStruct{successfulLookup, successfulQueryLookup, unsupportedLanguage, invalidLanguagePair, missingTerm, noEntries, malformedResponse, invalidJSON, rejectedKey, upstreamDown, wrongMethod}

	for _, scenario := range testScenarios {
		router := newTestRouter(&mockHTTPClient{resp: scenario.clientResp, statusCode: scenario.statusCode, err: scenario.clientErr})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, newRequest(scenario.method, scenario.endpoint, ""))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code, "Scenario: "+scenario.testName+" failed")
		assert.Contains(t, rec.Body.String(), scenario.expectedBody, "Scenario: "+scenario.testName+" failed")
	}
}

func TestLookupHandlerResponseBody(t *testing.T) {
	router := newTestRouter(&mockHTTPClient{resp: readFile(t, "../resources/minimal.json"), statusCode: 200})
	req := newRequest("GET", "/lookup/de/ru/test", "")
	req.Header.Set("X-Request-Id", "tid_handler")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ExpectedContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "tid_handler", rec.Header().Get("X-Request-Id"))

	var lookup Lookup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lookup))
	assert.Equal(t, lookupID("de", "ru", "test"), lookup.ID)
	assert.Equal(t, []MeaningGroup{{Header: "1. test", Translations: []TranslationPair{{Source: "a", Target: "b"}}}}, lookup.Meanings)
	assert.Equal(t, []string{
		`The word "test" has the following meanings:`,
		"",
		"1. test",
		"    -> Original: a",
		"    Translation: b",
		"",
	}, lookup.Lines)
}

func TestLookupHandlerReportsFailures(t *testing.T) {
	log := logger.NewUPPLogger("test-pons-dictionary-lookup", "INFO")
	hook := test.NewLocal(log.Logger)
	client := &mockHTTPClient{err: errors.New("connection refused")}
	h := NewHandler(NewLookupService(testConfig(), client, log), log)
	router := mux.NewRouter()
	h.RegisterHandlers(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newRequest("GET", "/lookup/de/ru/scharf", ""))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Dictionary lookup failed", entry.Message)
	assert.Equal(t, "scharf", entry.Data["term"])
}

func TestLookupStatus(t *testing.T) {
	assert.Equal(t, ValidLookup, lookupStatus(nil))
	assert.Equal(t, NotFound, lookupStatus(&FetchError{Status: NotFound, Err: ErrNoEntries}))
	assert.Equal(t, SemanticallyIncorrect, lookupStatus(&ExtractError{Kind: EmptyRoms}))
	assert.Equal(t, SyntacticallyIncorrect, lookupStatus(&ExtractError{Kind: InvalidJSON}))
	assert.Equal(t, InternalError, lookupStatus(errors.New("boom")))
}
