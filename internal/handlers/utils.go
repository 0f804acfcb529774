package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathID parses the first path segment after prefix as a uuid.
func pathID(path, prefix string) (uuid.UUID, bool) {
	parts := strings.Split(strings.TrimPrefix(path, prefix), "/")
	if len(parts) < 1 || parts[0] == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
