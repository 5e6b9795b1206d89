package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"outlethub-api/internal/model"
	"outlethub-api/internal/repository"
)

// OutletService owns the outlet account lifecycle: login, registration,
// profile updates, and auto-provisioning for seller accounts.
type OutletService struct {
	outlets repository.OutletRepository
	tokens  *TokenService
}

// NewOutletService creates an outlet service.
func NewOutletService(outlets repository.OutletRepository, tokens *TokenService) *OutletService {
	return &OutletService{outlets: outlets, tokens: tokens}
}

// RegisterOutletInput is the outlet signup payload.
type RegisterOutletInput struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	City         string `json:"city"`
	State        string `json:"state"`
	Address      string `json:"address"`
	Pincode      string `json:"pincode"`
	UserSellerID int64  `json:"user_seller,omitempty"`
}

// Login verifies outlet credentials and issues an outlet-kind token. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials. Stored
// credentials are always bcrypt hashes; a plaintext-equal stored password
// fails like any other mismatch.
func (s *OutletService) Login(ctx context.Context, username, password string) (string, *model.OutletProfile, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	outlet, err := s.outlets.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("outlet lookup failed: %w", err)
	}

	if !CheckPassword(password, outlet.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(outlet.ID, KindOutlet, outlet.Username)
	if err != nil {
		return "", nil, err
	}
	return token, outlet.Profile(), nil
}

// Register creates a new outlet account with a hashed password. A username
// collision is reported as a ConflictError naming the colliding value.
func (s *OutletService) Register(ctx context.Context, input RegisterOutletInput) (*model.OutletProfile, error) {
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	outlet := &model.Outlet{
		Name:         input.Name,
		Username:     input.Username,
		Password:     hashed,
		City:         input.City,
		State:        input.State,
		Address:      input.Address,
		Pincode:      input.Pincode,
		UserSellerID: input.UserSellerID,
	}

	created, err := s.outlets.Create(ctx, outlet)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Username: input.Username}
		}
		return nil, err
	}
	return created.Profile(), nil
}

// Get fetches an outlet by id, sanitized.
func (s *OutletService) Get(ctx context.Context, id int64) (*model.OutletProfile, error) {
	outlet, err := s.outlets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return outlet.Profile(), nil
}

// Update applies a partial profile update. A patched password is re-hashed
// before persistence; everything else passes through.
func (s *OutletService) Update(ctx context.Context, id int64, patch model.OutletPatch) (*model.OutletProfile, error) {
	outlet, err := s.outlets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		outlet.Name = *patch.Name
	}
	if patch.City != nil {
		outlet.City = *patch.City
	}
	if patch.State != nil {
		outlet.State = *patch.State
	}
	if patch.Address != nil {
		outlet.Address = *patch.Address
	}
	if patch.Pincode != nil {
		outlet.Pincode = *patch.Pincode
	}
	if patch.Password != nil && *patch.Password != "" {
		hashed, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		outlet.Password = hashed
	}

	if err := s.outlets.Update(ctx, outlet); err != nil {
		return nil, err
	}
	return outlet.Profile(), nil
}

// ProvisionForSeller creates the default outlet for a freshly registered
// seller, deriving a free username from outlet_<username>, outlet_<username>_1,
// and so on. The probe-then-create is not atomic; concurrent provisioning for
// the same base name can race, and callers must tolerate a uniqueness failure
// from the store.
func (s *OutletService) ProvisionForSeller(ctx context.Context, user *model.User, password string) (*model.Outlet, error) {
	username, err := s.freeUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	outlet := &model.Outlet{
		Name:         fmt.Sprintf("%s's Outlet", user.Username),
		Username:     username,
		Password:     hashed,
		City:         user.City,
		State:        user.State,
		Address:      user.Address,
		Pincode:      user.Pincode,
		UserSellerID: user.ID,
	}

	created, err := s.outlets.Create(ctx, outlet)
	if err != nil {
		return nil, fmt.Errorf("failed to provision outlet %q: %w", username, err)
	}

	log.Printf("[OutletService] Provisioned outlet %q for seller %q", created.Username, user.Username)
	return created, nil
}

// freeUsername probes outlet usernames until one does not exist.
func (s *OutletService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := fmt.Sprintf("outlet_%s", base)
	for counter := 1; ; counter++ {
		_, err := s.outlets.FindByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("username probe failed: %w", err)
		}
		candidate = fmt.Sprintf("outlet_%s_%d", base, counter)
	}
}

// SyncDefaultOutlet copies updated user profile fields onto the seller's
// first outlet. Returns repository.ErrNotFound when the seller owns none.
func (s *OutletService) SyncDefaultOutlet(ctx context.Context, user *model.User) (*model.OutletProfile, error) {
	outlets, err := s.outlets.FindBySeller(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(outlets) == 0 {
		return nil, repository.ErrNotFound
	}

	outlet := outlets[0]
	if user.Username != "" {
		outlet.Name = fmt.Sprintf("%s's Outlet", user.Username)
	}
	if user.City != "" {
		outlet.City = user.City
	}
	if user.State != "" {
		outlet.State = user.State
	}
	if user.Address != "" {
		outlet.Address = user.Address
	}
	if user.Pincode != "" {
		outlet.Pincode = user.Pincode
	}

	if err := s.outlets.Update(ctx, outlet); err != nil {
		return nil, err
	}
	return outlet.Profile(), nil
}
