package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"outlethub-api/internal/model"
	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// AuthHandler handles platform registration HTTP requests.
type AuthHandler struct {
	registrationSvc *service.RegistrationService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(registrationSvc *service.RegistrationService) *AuthHandler {
	return &AuthHandler{registrationSvc: registrationSvc}
}

// RegisterResponse carries the issued token and the sanitized user.
type RegisterResponse struct {
	JWT  string               `json:"jwt"`
	User *model.SanitizedUser `json:"user"`
}

// CustomerRegister handles POST /auth/local/customer/register
func (h *AuthHandler) CustomerRegister(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, model.RoleCustomer)
}

// SellerRegister handles POST /auth/local/seller/register
func (h *AuthHandler) SellerRegister(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, model.RoleSeller)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, role string) {
	var input service.RegisterUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	token, user, err := h.registrationSvc.Register(r.Context(), input, role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, RegisterResponse{JWT: token, User: user})
}

// CreateOutletForSeller handles POST /auth/create-outlet/{userId}
func (h *AuthHandler) CreateOutletForSeller(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid user id"))
		return
	}

	outlet, err := h.registrationSvc.ProvisionOutletForSeller(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "Outlet created successfully",
		"outlet":  outlet,
	})
}

// CreateOutletsForAllSellers handles POST /auth/create-outlets-for-all-sellers
func (h *AuthHandler) CreateOutletsForAllSellers(w http.ResponseWriter, r *http.Request) {
	results, err := h.registrationSvc.ProvisionAllSellers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message":      "Processed all sellers",
		"totalSellers": len(results),
		"results":      results,
	})
}
