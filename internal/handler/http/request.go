package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

// Multipart bodies above this are spooled to disk.
const maxFormMemory = 10 << 20

// queryString returns a pointer to the trimmed query value, or nil when the
// parameter is absent or blank.
func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt parses a positive integer query value, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// decodeSubmission reads a submission either as multipart form data, with
// the JSON payload in the "data" field and an optional "attachment" file,
// or as a plain JSON body. ok is false once an error response was written.
func decodeSubmission(w http.ResponseWriter, r *http.Request, dst any) (file multipart.File, header *multipart.FileHeader, ok bool) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			slog.Error("Failed to decode JSON body", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return nil, nil, false
		}
		return nil, nil, true
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, nil, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return nil, nil, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return nil, nil, false
	}

	file, header, err := r.FormFile("attachment")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, nil, false
	}
	return file, header, true
}
