package http

import (
	"net/http"

	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

type MetaHandler interface {
	ListWorkGroups(w http.ResponseWriter, r *http.Request)
	ListLeaveCategories(w http.ResponseWriter, r *http.Request)
}

type metaHandlerImpl struct{}

func NewMetaHandler() MetaHandler {
	return metaHandlerImpl{}
}

type leaveCategoryResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ListWorkGroups implements MetaHandler.
func (metaHandlerImpl) ListWorkGroups(w http.ResponseWriter, r *http.Request) {
	response.Success(w, meta.WorkGroups)
}

// ListLeaveCategories implements MetaHandler.
func (metaHandlerImpl) ListLeaveCategories(w http.ResponseWriter, r *http.Request) {
	categories := make([]leaveCategoryResponse, 0, len(leave.Categories))
	for _, c := range leave.Categories {
		categories = append(categories, leaveCategoryResponse{Code: string(c), Label: c.ThaiLabel()})
	}
	response.Success(w, categories)
}
