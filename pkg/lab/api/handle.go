package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-lab/pkg/lab"
	"github.com/tendant/simple-lab/pkg/utils"
)

type Handle struct {
	labService *lab.LabService
}

func NewHandle(labService *lab.LabService) *Handle {
	return &Handle{
		labService: labService,
	}
}

// LabRequest is the body of create and update calls
type LabRequest struct {
	Name string `json:"name"`
}

// LabResponse is the public representation of a lab
type LabResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Handler returns the lab routes, meant to be mounted at /api/labs
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Post)
	r.Get("/", h.Get)
	r.Get("/{id}", h.GetID)
	r.Put("/{id}", h.PutID)
	r.Delete("/{id}", h.DeleteID)
	return r
}

// Post creates a lab
// (POST /)
func (h *Handle) Post(w http.ResponseWriter, r *http.Request) {
	var req LabRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.labService.CreateLab(r.Context(), req.Name)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusCreated, toResponse(created))
}

// Get lists labs
// (GET /)
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	labs, err := h.labService.FindLabs(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	response := make([]LabResponse, 0, len(labs))
	for _, l := range labs {
		response = append(response, toResponse(l))
	}
	utils.RenderJSON(w, r, http.StatusOK, response)
}

// GetID returns a single lab
// (GET /{id})
func (h *Handle) GetID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	found, err := h.labService.GetLab(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, toResponse(found))
}

// PutID renames a lab
// (PUT /{id})
func (h *Handle) PutID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	var req LabRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	updated, err := h.labService.UpdateLab(r.Context(), id, req.Name)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, toResponse(updated))
}

// DeleteID removes a lab
// (DELETE /{id})
func (h *Handle) DeleteID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.labService.DeleteLab(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponse(l lab.Lab) LabResponse {
	return LabResponse{ID: l.ID, Name: l.Name}
}
