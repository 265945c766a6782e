package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

type ScanHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
}

type scanHandlerImpl struct {
	scanService attendance.ScanService
}

func NewScanHandler(scanService attendance.ScanService) ScanHandler {
	return &scanHandlerImpl{
		scanService: scanService,
	}
}

// List implements ScanHandler.
func (h *scanHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ScanFilter{
		PersonName: queryString(r, "person_name"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.scanService.ListScans(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Import implements ScanHandler. Expects a multipart form with the scanner
// export in "file" and an optional "mode" of append or replace.
func (h *scanHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := attendance.ImportScansRequest{Mode: r.FormValue("mode")}

	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	req.File = file
	req.FileHeader = header

	if err := req.Validate(); err != nil {
		if file != nil {
			file.Close()
		}
		response.HandleError(w, err)
		return
	}

	result, err := h.scanService.ImportScans(r.Context(), req)
	if err != nil {
		slog.Error("ImportScans service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Scans imported", "mode", result.Mode, "imported", result.Imported, "skipped", result.Skipped)
	response.Created(w, "Scans imported successfully", result)
}

// Replace implements ScanHandler.
func (h *scanHandlerImpl) Replace(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReplaceScansRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReplaceScans decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	count, err := h.scanService.ReplaceScans(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Scan table replaced", "rows", count)
	response.SuccessWithMessage(w, "Scan table replaced successfully", map[string]int{"rows": count})
}
