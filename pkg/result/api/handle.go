package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"

	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/result"
	"github.com/tendant/simple-lab/pkg/utils"
)

type Handle struct {
	resultService *result.ResultService
}

func NewHandle(resultService *result.ResultService) *Handle {
	return &Handle{
		resultService: resultService,
	}
}

// ResultRequest is the body of create and update calls
type ResultRequest struct {
	UserID     *int64      `json:"userId"`
	LabID      *int64      `json:"labId"`
	TestType   string      `json:"testType"`
	ValueJSON  string      `json:"valueJson"`
	Status     string      `json:"status"`
	ResultDate result.Date `json:"resultDate"`
}

// ResultResponse is the public representation of a result
type ResultResponse struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"userId"`
	LabID      int64       `json:"labId"`
	LabName    *string     `json:"labName"`
	TestType   string      `json:"testType"`
	ValueJSON  string      `json:"valueJson"`
	Status     string      `json:"status"`
	ResultDate result.Date `json:"resultDate"`
}

// LabResponse is a lab as listed by the results service
type LabResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Handler returns the result routes, meant to be mounted at /api/results
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()
	r.Get("/labs", h.GetLabs)
	r.Get("/by-user/{userId}", h.GetByUser)
	r.Post("/", h.Post)
	r.Get("/", h.Get)
	r.Get("/{id}", h.GetID)
	r.Put("/{id}", h.PutID)
	r.Delete("/{id}", h.DeleteID)
	return r
}

// GetLabs lists the labs known to the result ledger
// (GET /labs)
func (h *Handle) GetLabs(w http.ResponseWriter, r *http.Request) {
	labs, err := h.resultService.FindLabs(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	response := make([]LabResponse, 0, len(labs))
	for _, l := range labs {
		response = append(response, LabResponse{ID: l.ID, Name: l.Name})
	}
	utils.RenderJSON(w, r, http.StatusOK, response)
}

// Post records a result
// (POST /)
func (h *Handle) Post(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.resultService.CreateResult(r.Context(), params)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	h.renderResult(w, r, http.StatusCreated, created)
}

// Get lists every result
// (GET /)
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	results, err := h.resultService.FindResults(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	h.renderResults(w, r, results)
}

// GetByUser lists the results of one user
// (GET /by-user/{userId})
func (h *Handle) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.Int64Param(r, "userId")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	results, err := h.resultService.FindResultsByUser(r.Context(), userID)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	h.renderResults(w, r, results)
}

// GetID returns a single result
// (GET /{id})
func (h *Handle) GetID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	found, err := h.resultService.GetResult(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	h.renderResult(w, r, http.StatusOK, found)
}

// PutID replaces a result
// (PUT /{id})
func (h *Handle) PutID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	params, err := decodeParams(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	updated, err := h.resultService.UpdateResult(r.Context(), id, params)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	h.renderResult(w, r, http.StatusOK, updated)
}

// DeleteID removes a result
// (DELETE /{id})
func (h *Handle) DeleteID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.resultService.DeleteResult(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, utils.MessageResponse{Message: "result deleted"})
}

func decodeParams(r *http.Request) (result.ResultParams, error) {
	var req ResultRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return result.ResultParams{}, err
	}

	var params result.ResultParams
	if err := copier.Copy(&params, &req); err != nil {
		return result.ResultParams{}, apperrors.InternalWrap(err, "failed to map result request")
	}
	return params, nil
}

func (h *Handle) renderResult(w http.ResponseWriter, r *http.Request, status int, res result.Result) {
	var response ResultResponse
	if err := copier.Copy(&response, &res); err != nil {
		utils.RenderError(w, r, apperrors.InternalWrap(err, "failed to map result"))
		return
	}
	utils.RenderJSON(w, r, status, response)
}

func (h *Handle) renderResults(w http.ResponseWriter, r *http.Request, results []result.Result) {
	response := make([]ResultResponse, 0, len(results))
	if err := copier.Copy(&response, &results); err != nil {
		utils.RenderError(w, r, apperrors.InternalWrap(err, "failed to map results"))
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, response)
}
