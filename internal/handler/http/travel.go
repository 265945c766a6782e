package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

type TravelHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
}

type TravelHandlerImpl struct {
	travelService travel.TravelService
}

// Create implements TravelHandler. One row is stored per traveler.
func (l *TravelHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req travel.CreateTravelRequest

	file, header, ok := decodeSubmission(w, r, &req)
	if !ok {
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

	record, err := l.travelService.CreateTravel(r.Context(), req)
	if err != nil {
		slog.Error("CreateTravel service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Travel group created successfully", record)
}

// Get implements TravelHandler.
func (l *TravelHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Travel ID is required", nil)
		return
	}

	record, err := l.travelService.GetTravel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements TravelHandler.
func (l *TravelHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := travel.TravelFilter{
		PersonName: queryString(r, "person_name"),
		WorkGroup:  queryString(r, "work_group"),
		GroupID:    queryString(r, "group_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.travelService.ListTravels(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements TravelHandler.
func (l *TravelHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req travel.UpdateTravelRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateTravel decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := l.travelService.UpdateTravel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Travel record updated successfully", record)
}

// Delete implements TravelHandler.
func (l *TravelHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Travel ID is required", nil)
		return
	}

	if err := l.travelService.DeleteTravel(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Travel record deleted successfully", nil)
}

// Replace implements TravelHandler. The whole travel table is swapped for the
// submitted rows.
func (l *TravelHandlerImpl) Replace(w http.ResponseWriter, r *http.Request) {
	var req travel.ReplaceTravelsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReplaceTravels decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	count, err := l.travelService.ReplaceTravels(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Travel table replaced", "rows", count)
	response.SuccessWithMessage(w, "Travel table replaced successfully", map[string]int{"rows": count})
}

func NewTravelHandler(travelService travel.TravelService) TravelHandler {
	return &TravelHandlerImpl{
		travelService: travelService,
	}
}
