package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"outlethub-api/internal/middleware"
	"outlethub-api/internal/model"
	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// OutletHandler handles outlet identity HTTP requests.
type OutletHandler struct {
	outletSvc *service.OutletService
}

// NewOutletHandler creates an outlet handler.
func NewOutletHandler(outletSvc *service.OutletService) *OutletHandler {
	return &OutletHandler{outletSvc: outletSvc}
}

// LoginRequest is the outlet login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the sanitized profile.
type LoginResponse struct {
	JWT    string               `json:"jwt"`
	Outlet *model.OutletProfile `json:"outlet"`
}

// Login handles POST /outlet/login
func (h *OutletHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		response.Error(w, apierror.BadRequest("Username and password are required"))
		return
	}

	token, profile, err := h.outletSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, LoginResponse{JWT: token, Outlet: profile})
}

// Register handles POST /outlet/register
func (h *OutletHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterOutletInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	profile, err := h.outletSvc.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, profile)
}

// Me handles GET /outlet/me
func (h *OutletHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		response.Error(w, apierror.Unauthorized("Invalid outlet token"))
		return
	}

	profile, err := h.outletSvc.Get(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, profile)
}

// Update handles PUT /outlet/{id}
func (h *OutletHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid outlet id"))
		return
	}

	var patch model.OutletPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	profile, err := h.outletSvc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, profile)
}
