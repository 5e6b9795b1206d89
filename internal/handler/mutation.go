package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"outlethub-api/internal/model"
	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// MutationHandler exposes the envelope-style mutation surface. Unlike the
// REST routes, domain failures come back as HTTP 200 with success=false and a
// message, mirroring a query-language payload contract.
type MutationHandler struct {
	outletSvc       *service.OutletService
	registrationSvc *service.RegistrationService
	tokens          *service.TokenService
}

// NewMutationHandler creates a mutation handler.
func NewMutationHandler(outletSvc *service.OutletService, registrationSvc *service.RegistrationService, tokens *service.TokenService) *MutationHandler {
	return &MutationHandler{outletSvc: outletSvc, registrationSvc: registrationSvc, tokens: tokens}
}

// OutletEnvelope is the typed payload of outlet mutations.
type OutletEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	JWT     *string              `json:"jwt"`
	Outlet  *model.OutletProfile `json:"outlet"`
}

// UserEnvelope is the typed payload of platform registration mutations.
type UserEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	JWT     *string              `json:"jwt"`
	User    *model.SanitizedUser `json:"user"`
}

// mutationInput wraps the body the way query-language transports nest
// arguments under "input"; a bare body is accepted too.
type mutationInput struct {
	Input json.RawMessage `json:"input"`
}

// Dispatch handles POST /mutation/{name}
func (h *MutationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeMutationBody(r)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	switch chi.URLParam(r, "name") {
	case "outletLogin":
		h.outletLogin(w, r, raw)
	case "outletRegister":
		h.outletRegister(w, r, raw)
	case "customerRegister":
		h.userRegister(w, r, raw, model.RoleCustomer)
	case "sellerRegister":
		h.userRegister(w, r, raw, model.RoleSeller)
	case "updateProfile":
		h.updateProfile(w, r, raw)
	default:
		response.Error(w, apierror.NotFound("unknown mutation"))
	}
}

func decodeMutationBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []byte("{}"), nil
	}

	var wrapper mutationInput
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Input) > 0 && string(wrapper.Input) != "null" {
		return wrapper.Input, nil
	}
	return raw, nil
}

func (h *MutationHandler) outletLogin(w http.ResponseWriter, r *http.Request, raw []byte) {
	var req LoginRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		response.Error(w, apierror.BadRequest("invalid mutation input"))
		return
	}

	if req.Username == "" || req.Password == "" {
		response.OK(w, OutletEnvelope{Message: "Username and password are required"})
		return
	}

	token, profile, err := h.outletSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.OK(w, OutletEnvelope{Message: err.Error()})
		return
	}

	response.OK(w, OutletEnvelope{
		Success: true,
		Message: "Login successful",
		JWT:     &token,
		Outlet:  profile,
	})
}

func (h *MutationHandler) outletRegister(w http.ResponseWriter, r *http.Request, raw []byte) {
	var input service.RegisterOutletInput
	if err := json.Unmarshal(raw, &input); err != nil {
		response.Error(w, apierror.BadRequest("invalid mutation input"))
		return
	}

	profile, err := h.outletSvc.Register(r.Context(), input)
	if err != nil {
		response.OK(w, OutletEnvelope{Message: err.Error()})
		return
	}

	response.OK(w, OutletEnvelope{
		Success: true,
		Message: "Outlet created successfully",
		Outlet:  profile,
	})
}

func (h *MutationHandler) userRegister(w http.ResponseWriter, r *http.Request, raw []byte, role string) {
	var input service.RegisterUserInput
	if err := json.Unmarshal(raw, &input); err != nil {
		response.Error(w, apierror.BadRequest("invalid mutation input"))
		return
	}

	token, user, err := h.registrationSvc.Register(r.Context(), input, role)
	if err != nil {
		response.OK(w, UserEnvelope{Message: err.Error()})
		return
	}

	response.OK(w, UserEnvelope{
		Success: true,
		Message: "Registration successful",
		JWT:     &token,
		User:    user,
	})
}

// updateProfile applies a profile update to the account the bearer token
// identifies: outlet tokens patch the outlet record, user tokens patch the
// platform user and sync the seller's default outlet. Authentication failures
// follow the envelope contract rather than the REST 401/403 split.
func (h *MutationHandler) updateProfile(w http.ResponseWriter, r *http.Request, raw []byte) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		response.OK(w, OutletEnvelope{Message: "No token provided"})
		return
	}

	claims, err := h.tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		response.OK(w, OutletEnvelope{Message: "Invalid token"})
		return
	}

	switch claims.Type {
	case service.KindOutlet:
		var patch model.OutletPatch
		if err := json.Unmarshal(raw, &patch); err != nil {
			response.Error(w, apierror.BadRequest("invalid mutation input"))
			return
		}

		profile, err := h.outletSvc.Update(r.Context(), claims.ID, patch)
		if err != nil {
			response.OK(w, OutletEnvelope{Message: err.Error()})
			return
		}
		response.OK(w, OutletEnvelope{
			Success: true,
			Message: "Profile updated successfully",
			Outlet:  profile,
		})
	case service.KindUser:
		var patch model.UserPatch
		if err := json.Unmarshal(raw, &patch); err != nil {
			response.Error(w, apierror.BadRequest("invalid mutation input"))
			return
		}

		user, err := h.registrationSvc.UpdateProfile(r.Context(), claims.ID, patch)
		if err != nil {
			response.OK(w, UserEnvelope{Message: err.Error()})
			return
		}
		response.OK(w, UserEnvelope{
			Success: true,
			Message: "Profile updated successfully",
			User:    user,
		})
	default:
		response.OK(w, OutletEnvelope{Message: "Invalid token type"})
	}
}
