// Package handlers provides the HTTP handlers for the interactions API:
// single-name resolution, typeahead search, batch resolution, assistant
// context blocks, drug-drug pair checks and health.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
)

// unavailableMessage is returned whenever the corpus has not loaded yet. The
// engine retries on the next request, so clients should too.
const unavailableMessage = "interaction data is temporarily unavailable, try again shortly"

// namesRequest is the shared body shape of the batch endpoints.
type namesRequest struct {
	Names []string `json:"names"`
}

type searchResponse struct {
	Query   string                       `json:"query"`
	Count   int                          `json:"count"`
	Results []entities.InteractionRecord `json:"results"`
}

// ResolveDrug returns the interaction record for one medication name.
func ResolveDrug(resolver interfaces.Resolver, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "drug")
		if err := validator.ValidateDrugName(name); err != nil {
			logging.Warn("Rejected drug name", "input", name, "error", err)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		record, err := resolver.ResolveExact(r.Context(), name)
		if err != nil {
			logging.Error("Resolve failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}
		if record == nil {
			RespondWithError(w, http.StatusNotFound, "no interaction record matches: "+name)
			return
		}

		RespondWithJSON(w, r, http.StatusOK, record)
	}
}

// SearchInteractions serves typeahead queries. Zero hits is a 200 with an
// empty result list, not an error.
func SearchInteractions(resolver interfaces.Resolver, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := chi.URLParam(r, "query")
		if err := validator.ValidateDrugName(query); err != nil {
			logging.Warn("Rejected search query", "input", query, "error", err)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, err := validator.ValidateLimit(r.URL.Query().Get("limit"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		results, err := resolver.SearchFuzzy(r.Context(), query, limit)
		if err != nil {
			logging.Error("Search failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}
		if results == nil {
			results = []entities.InteractionRecord{}
		}

		RespondWithJSON(w, r, http.StatusOK, searchResponse{
			Query:   query,
			Count:   len(results),
			Results: results,
		})
	}
}

// BatchResolve maps a medication list to warnings per name. Names that match
// nothing, or match a record without warnings, are absent from the response.
func BatchResolve(resolver interfaces.Resolver, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, ok := decodeNames(w, r, validator)
		if !ok {
			return
		}

		warnings, err := resolver.BatchResolve(r.Context(), names)
		if err != nil {
			logging.Error("Batch resolve failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}

		RespondWithJSON(w, r, http.StatusOK, map[string]any{"warnings": warnings})
	}
}

// ContextBlock renders a medication list's warnings as prompt-ready text for
// the companion assistant. An empty context means no listed drug has warnings.
func ContextBlock(resolver interfaces.Resolver, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, ok := decodeNames(w, r, validator)
		if !ok {
			return
		}

		block, err := resolver.BuildContextBlock(r.Context(), names)
		if err != nil {
			logging.Error("Context block failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}

		RespondWithJSON(w, r, http.StatusOK, map[string]string{"context": block})
	}
}

// CheckPair looks up the drug-drug interaction between two names.
func CheckPair(pairs interfaces.PairChecker, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first := chi.URLParam(r, "first")
		second := chi.URLParam(r, "second")
		for _, name := range []string{first, second} {
			if err := validator.ValidateDrugName(name); err != nil {
				logging.Warn("Rejected pair name", "input", name, "error", err)
				RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		pair, err := pairs.CheckPair(r.Context(), first, second)
		if err != nil {
			logging.Error("Pair check failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}
		if pair == nil {
			RespondWithError(w, http.StatusNotFound, "no known interaction between "+first+" and "+second)
			return
		}

		RespondWithJSON(w, r, http.StatusOK, pair)
	}
}

// PairsCheck returns every known drug-drug interaction within a medication
// list.
func PairsCheck(pairs interfaces.PairChecker, validator interfaces.InputValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, ok := decodeNames(w, r, validator)
		if !ok {
			return
		}

		found, err := pairs.PairsForList(r.Context(), names)
		if err != nil {
			logging.Error("Pair list check failed, corpus unavailable", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)
			return
		}
		if found == nil {
			found = []entities.PairInteraction{}
		}

		RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"count": len(found),
			"pairs": found,
		})
	}
}

// HealthCheck reports readiness: 503 until the corpus loads, 200 after.
func HealthCheck(checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, details, httpStatus := checker.HealthCheck()
		payload := map[string]any{"status": status}
		for k, v := range details {
			payload[k] = v
		}
		RespondWithJSON(w, r, httpStatus, payload)
	}
}

// ServiceInfo describes the API at the root path.
func ServiceInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"service": "interactions-api",
			"endpoints": []string{
				"GET  /v1/interactions/{drug}",
				"GET  /v1/search/{query}?limit=N",
				"POST /v1/interactions/batch",
				"POST /v1/context",
				"GET  /v1/pair/{first}/{second}",
				"POST /v1/pairs/check",
				"GET  /health",
				"GET  /metrics",
			},
		})
	}
}

// decodeNames reads and validates the shared {"names": [...]} body. On any
// failure it writes the error response and reports false.
func decodeNames(w http.ResponseWriter, r *http.Request, validator interfaces.InputValidator) ([]string, bool) {
	var req namesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if err := validator.ValidateNames(req.Names); err != nil {
		logging.Warn("Rejected names payload", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return req.Names, true
}
