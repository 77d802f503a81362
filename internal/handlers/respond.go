package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// opTimeout bounds every store round trip issued by a handler.
const opTimeoutSeconds = 5

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError sends the JSON error envelope shared by every endpoint.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serverError logs the underlying cause and returns the generic 500 body.
func serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s error: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Something went wrong!")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageParams are the shared list-endpoint query parameters.
type pageParams struct {
	Page  int
	Limit int
	Sort  bson.D
}

func (p pageParams) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// parsePage reads page/limit/sortBy/sortOrder from the query string.
// Defaults: page 1, the given limit, newest first.
func parsePage(r *http.Request, defaultLimit int) pageParams {
	p := pageParams{Page: 1, Limit: defaultLimit}

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Page = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			p.Limit = parsed
		}
	}

	sortBy := r.URL.Query().Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := -1
	if r.URL.Query().Get("sortOrder") == "asc" {
		order = 1
	}
	p.Sort = bson.D{{Key: sortBy, Value: order}}

	return p
}

// totalPages computes ceil(total/limit).
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// listEnvelope builds the shared pagination envelope
// {<key>: items, totalPages, currentPage, total}.
func listEnvelope(key string, items interface{}, total int64, p pageParams) map[string]interface{} {
	return map[string]interface{}{
		key:           items,
		"totalPages":  totalPages(total, p.Limit),
		"currentPage": p.Page,
		"total":       total,
	}
}
