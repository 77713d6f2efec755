package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	rolepkg "github.com/tendant/simple-lab/pkg/role"
	"github.com/tendant/simple-lab/pkg/utils"
)

type Handle struct {
	roleService *rolepkg.RoleService
}

func NewHandle(roleService *rolepkg.RoleService) *Handle {
	return &Handle{
		roleService: roleService,
	}
}

// RoleRequest is the body of a create call
type RoleRequest struct {
	Name string `json:"name"`
}

// Handler returns the role routes, meant to be mounted at /api/roles
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Post("/", h.Post)
	r.Get("/{id}", h.GetID)
	return r
}

// Get handles retrieving a list of roles
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.FindRoles(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, roles)
}

// GetID handles retrieving a role by id
func (h *Handle) GetID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusOK, role)
}

// Post handles creating a role
func (h *Handle) Post(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	role, err := h.roleService.CreateRole(r.Context(), req.Name)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	utils.RenderJSON(w, r, http.StatusCreated, role)
}
