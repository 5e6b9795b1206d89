package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"outlethub-api/internal/model"
	"outlethub-api/internal/repository"
)

// tempOutletPassword seeds outlets provisioned in bulk for sellers that were
// registered before provisioning existed. TODO: replace with a forced
// password-reset flow once outlets get one.
const tempOutletPassword = "tempPassword123"

// RegistrationService coordinates platform user creation with role assignment
// and conditional outlet auto-provisioning for sellers.
type RegistrationService struct {
	users         repository.UserRepository
	outletSvc     *OutletService
	tokens        *TokenService
	allowRegister bool
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(users repository.UserRepository, outletSvc *OutletService, tokens *TokenService, allowRegister bool) *RegistrationService {
	return &RegistrationService{
		users:         users,
		outletSvc:     outletSvc,
		tokens:        tokens,
		allowRegister: allowRegister,
	}
}

// RegisterUserInput is the platform signup payload.
type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
	State    string `json:"state"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
}

// Register creates a platform user with the named role and issues a
// user-kind token. For sellers, a default outlet is provisioned with the
// same password; provisioning failure is logged and never fails the
// registration.
func (s *RegistrationService) Register(ctx context.Context, input RegisterUserInput, roleName string) (string, *model.SanitizedUser, error) {
	if !s.allowRegister {
		return "", nil, ErrRegistrationDisabled
	}
	if input.Password == "" {
		return "", nil, ErrPasswordRequired
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return "", nil, emailTaken(input.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return "", nil, usernameTaken(input.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		return "", nil, fmt.Errorf("role %q not found: %w", roleName, err)
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashed,
		Provider:  "local",
		Confirmed: true,
		RoleID:    role.ID,
		City:      input.City,
		State:     input.State,
		Address:   input.Address,
		Pincode:   input.Pincode,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a concurrent race after the probes passed.
			return "", nil, usernameTaken(input.Username)
		}
		return "", nil, err
	}

	if roleName == model.RoleSeller {
		if _, err := s.outletSvc.ProvisionForSeller(ctx, created, input.Password); err != nil {
			log.Printf("[RegistrationService] Warning: outlet provisioning failed for seller %q: %v",
				created.Username, err)
		}
	}

	token, err := s.tokens.Issue(created.ID, KindUser, created.Username)
	if err != nil {
		return "", nil, err
	}
	return token, created.Sanitize(role), nil
}

// UpdateProfile applies a partial profile update to a platform user and
// propagates the changed fields onto the seller's default outlet. The outlet
// sync is best-effort: users without outlets are normal, and a sync failure
// never fails the profile update.
func (s *RegistrationService) UpdateProfile(ctx context.Context, userID int64, patch model.UserPatch) (*model.SanitizedUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.City != nil {
		user.City = *patch.City
	}
	if patch.State != nil {
		user.State = *patch.State
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.Pincode != nil {
		user.Pincode = *patch.Pincode
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.outletSvc.SyncDefaultOutlet(ctx, user); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("[RegistrationService] Warning: default outlet sync failed for user %q: %v",
			user.Username, err)
	}

	role, err := s.users.FindRoleByID(ctx, user.RoleID)
	if err != nil {
		role = nil
	}
	return user.Sanitize(role), nil
}

// ProvisionOutletForSeller creates an outlet for an existing seller that owns
// none yet. Rejects unknown users, non-sellers, and sellers with outlets.
func (s *RegistrationService) ProvisionOutletForSeller(ctx context.Context, userID int64) (*model.OutletProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.users.FindRoleByID(ctx, user.RoleID)
	if err != nil || role.Name != model.RoleSeller {
		return nil, ErrNotSeller
	}

	existing, err := s.outletSvc.outlets.FindBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyHasOutlet
	}

	outlet, err := s.outletSvc.ProvisionForSeller(ctx, user, tempOutletPassword)
	if err != nil {
		return nil, err
	}
	return outlet.Profile(), nil
}

// SellerProvisionResult is the per-seller outcome of a bulk provisioning run.
type SellerProvisionResult struct {
	UserID   int64                `json:"userId"`
	Username string               `json:"username"`
	Outlet   *model.OutletProfile `json:"outlet,omitempty"`
	Message  string               `json:"message"`
	Success  bool                 `json:"success,omitempty"`
	Skipped  bool                 `json:"skipped,omitempty"`
}

// ProvisionAllSellers creates outlets for every seller without one, with a
// temporary password. A single seller's failure never aborts the batch.
func (s *RegistrationService) ProvisionAllSellers(ctx context.Context) ([]SellerProvisionResult, error) {
	sellers, err := s.users.FindByRole(ctx, model.RoleSeller)
	if err != nil {
		return nil, err
	}

	results := make([]SellerProvisionResult, 0, len(sellers))
	for _, seller := range sellers {
		result := SellerProvisionResult{UserID: seller.ID, Username: seller.Username}

		existing, err := s.outletSvc.outlets.FindBySeller(ctx, seller.ID)
		if err != nil {
			result.Message = "Error checking outlets: " + err.Error()
			results = append(results, result)
			continue
		}
		if len(existing) > 0 {
			result.Message = "Already has outlets"
			result.Skipped = true
			results = append(results, result)
			continue
		}

		outlet, err := s.outletSvc.ProvisionForSeller(ctx, seller, tempOutletPassword)
		if err != nil {
			result.Message = "Error creating outlet: " + err.Error()
			results = append(results, result)
			continue
		}

		result.Outlet = outlet.Profile()
		result.Message = "Outlet created successfully"
		result.Success = true
		results = append(results, result)
	}
	return results, nil
}
