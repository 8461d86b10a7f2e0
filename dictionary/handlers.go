package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type DictionaryLookupHandler struct {
	lookups LookupService
	log     *logger.UPPLogger
}

func NewHandler(lookups LookupService, log *logger.UPPLogger) DictionaryLookupHandler {
	return DictionaryLookupHandler{
		lookups: lookups,
		log:     log,
	}
}

func (h *DictionaryLookupHandler) LookupHandler(rw http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	h.serveLookup(rw, req, vars["from"], vars["to"], vars["term"])
}

// QueryHandler accepts the upstream query shape, e.g. ?l=deru&q=scharf.
func (h *DictionaryLookupHandler) QueryHandler(rw http.ResponseWriter, req *http.Request) {
	pair := req.URL.Query().Get("l")
	if len(pair) != 4 {
		tid := transactionidutils.GetTransactionIDFromRequest(req)
		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set(transactionidutils.TransactionIDHeader, tid)
		writeJSONError(rw, fmt.Sprintf("invalid language pair %q", pair), http.StatusBadRequest)
		return
	}
	h.serveLookup(rw, req, pair[:2], pair[2:], req.URL.Query().Get("q"))
}

func (h *DictionaryLookupHandler) serveLookup(rw http.ResponseWriter, req *http.Request, from string, to string, term string) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set(transactionidutils.TransactionIDHeader, tid)

	if !IsSupportedLanguage(from) || !IsSupportedLanguage(to) {
		writeJSONError(rw, fmt.Sprintf("unsupported language pair %s%s", from, to), http.StatusBadRequest)
		return
	}
	if term == "" {
		writeJSONError(rw, "missing term", http.StatusBadRequest)
		return
	}

	h.log.WithFields(map[string]interface{}{"transaction_id": tid, "term": term}).Info("Processing dictionary lookup")
	lookup, err := h.lookups.Lookup(req.Context(), from, to, term, tid)
	updateStatus := lookupStatus(err)
	switch updateStatus {
	case ValidLookup:
	case NotFound:
		h.log.WithFields(map[string]interface{}{"transaction_id": tid, "term": term}).Info("No dictionary entries found")
	default:
		h.log.WithError(err).WithFields(map[string]interface{}{"transaction_id": tid, "term": term}).Error("Dictionary lookup failed")
	}
	writeResponse(rw, updateStatus, err, lookup)
}

func lookupStatus(err error) status {
	if err == nil {
		return ValidLookup
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Status
	}
	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return extractErr.status()
	}
	return InternalError
}

func writeResponse(rw http.ResponseWriter, updateStatus status, err error, lookup Lookup) {
	if err == nil {
		rw.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(rw).Encode(lookup); err != nil {
			writeJSONError(rw, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	switch updateStatus {
	case NotFound:
		writeJSONError(rw, err.Error(), http.StatusNotFound)
	case SyntacticallyIncorrect, SemanticallyIncorrect, Unauthorized, UpstreamError:
		writeJSONError(rw, err.Error(), http.StatusBadGateway)
	case ServiceUnavailable:
		writeJSONError(rw, err.Error(), http.StatusServiceUnavailable)
	default:
		writeJSONError(rw, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSONError(rw http.ResponseWriter, errorMsg string, statusCode int) {
	rw.WriteHeader(statusCode)
	msg, _ := json.Marshal(map[string]string{"message": errorMsg})
	rw.Write(msg)
}

func (h *DictionaryLookupHandler) RegisterHandlers(router *mux.Router) {
	h.log.Info("Registering handlers")
	lookupByPath := handlers.MethodHandler{
		"GET": http.HandlerFunc(h.LookupHandler),
	}
	router.Handle("/lookup/{from}/{to}/{term}", lookupByPath)
	lookupByQuery := handlers.MethodHandler{
		"GET": http.HandlerFunc(h.QueryHandler),
	}
	router.Handle("/lookup", lookupByQuery)
}
