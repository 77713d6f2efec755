package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"

	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/user"
	"github.com/tendant/simple-lab/pkg/utils"
)

// Login outcomes reported to a LoginObserver
const (
	LoginSucceeded = "success"
	LoginFailed    = "failure"
)

// LoginObserver is told the outcome of every login attempt
type LoginObserver func(outcome string)

type Handle struct {
	userService   *user.UserService
	loginObserver LoginObserver
	loginLimiter  func(http.Handler) http.Handler
}

// HandleOption configures a Handle
type HandleOption func(*Handle)

// WithLoginObserver reports login outcomes, e.g. to metrics
func WithLoginObserver(observer LoginObserver) HandleOption {
	return func(h *Handle) {
		h.loginObserver = observer
	}
}

// WithLoginLimiter wraps the login route in a rate limiting middleware
func WithLoginLimiter(mw func(http.Handler) http.Handler) HandleOption {
	return func(h *Handle) {
		h.loginLimiter = mw
	}
}

func NewHandle(userService *user.UserService, opts ...HandleOption) *Handle {
	h := &Handle{
		userService: userService,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler returns the user routes, meant to be mounted at /api/users
func Handler(h *Handle) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Post)
	r.Get("/", h.Get)
	r.Get("/{id}", h.GetID)
	r.Put("/{id}", h.PutID)
	r.Delete("/{id}", h.DeleteID)

	r.Group(func(r chi.Router) {
		if h.loginLimiter != nil {
			r.Use(h.loginLimiter)
		}
		r.Post("/auth/login", h.PostLogin)
	})
	return r
}

// Post registers a user
// (POST /)
func (h *Handle) Post(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.userService.CreateUser(r.Context(), params)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusCreated, h.toResponse(created))
}

// Get lists users
// (GET /)
func (h *Handle) Get(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindUsers(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, h.toResponse(u))
	}
	utils.RenderJSON(w, r, http.StatusOK, response)
}

// GetID returns a single user
// (GET /{id})
func (h *Handle) GetID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	found, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, h.toResponse(found))
}

// PutID updates a user
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

	updated, err := h.userService.UpdateUser(r.Context(), id, params)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, h.toResponse(updated))
}

// DeleteID removes a user
// (DELETE /{id})
func (h *Handle) DeleteID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.Int64Param(r, "id")
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	utils.RenderJSON(w, r, http.StatusOK, utils.MessageResponse{Message: "user deleted"})
}

// PostLogin verifies credentials
// (POST /auth/login)
func (h *Handle) PostLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	loggedIn, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeInvalidCredentials) {
			h.observeLogin(LoginFailed)
		}
		utils.RenderError(w, r, err)
		return
	}

	h.observeLogin(LoginSucceeded)
	utils.RenderJSON(w, r, http.StatusOK, LoginResponse{
		UserResponse: h.toResponse(loggedIn),
		Message:      "login successful",
	})
}

func (h *Handle) observeLogin(outcome string) {
	if h.loginObserver != nil {
		h.loginObserver(outcome)
	}
}

func decodeParams(r *http.Request) (user.UserParams, error) {
	var req UserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return user.UserParams{}, err
	}

	var params user.UserParams
	if err := copier.Copy(&params, &req); err != nil {
		return user.UserParams{}, apperrors.InternalWrap(err, "failed to map user request")
	}
	params.FullName = req.fullName()
	params.Role = req.roleSelector()
	return params, nil
}

func (h *Handle) toResponse(u user.User) UserResponse {
	nombre, apellido := splitFullName(u.FullName)
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Nombre:   nombre,
		Apellido: apellido,
		Roles:    h.userService.PresentedRoles(u),
		Rol:      h.userService.PrimaryRole(u),
	}
}
