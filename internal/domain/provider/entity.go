// Package provider provides domain logic for service providers and their verification.
package provider

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile holds the editable profile fields of a provider.
type Profile struct {
	CPF         string
	RG          string
	Address     string
	Phone       string
	ServiceName string
	Description string
	Categories  []string
}

// Provider is the aggregate root for a service-offering entity owned by exactly one user.
type Provider struct {
	id                uuid.UUID
	userID            uuid.UUID
	cpf               string
	rg                string
	address           string
	phone             string
	serviceName       string
	description       string
	categories        []string
	documentPhotoURLs []string
	isActive          bool
	isVerified        bool
	createdAt         time.Time
	updatedAt         *time.Time
}

// NewProvider creates a provider for the given user. New providers start
// unverified and inactive.
func NewProvider(userID uuid.UUID, profile Profile) (*Provider, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if strings.TrimSpace(profile.ServiceName) == "" {
		return nil, ErrEmptyServiceName
	}

	return &Provider{
		id:          uuid.New(),
		userID:      userID,
		cpf:         profile.CPF,
		rg:          profile.RG,
		address:     profile.Address,
		phone:       profile.Phone,
		serviceName: profile.ServiceName,
		description: profile.Description,
		categories:  NormalizeCategories(profile.Categories),
		isActive:    false,
		isVerified:  false,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructProvider reconstructs a Provider entity from persistence data.
// This is used by repository implementations to rebuild the entity from database.
func ReconstructProvider(
	id uuid.UUID,
	userID uuid.UUID,
	profile Profile,
	documentPhotoURLs []string,
	isActive bool,
	isVerified bool,
	createdAt time.Time,
	updatedAt *time.Time,
) *Provider {
	return &Provider{
		id:                id,
		userID:            userID,
		cpf:               profile.CPF,
		rg:                profile.RG,
		address:           profile.Address,
		phone:             profile.Phone,
		serviceName:       profile.ServiceName,
		description:       profile.Description,
		categories:        profile.Categories,
		documentPhotoURLs: documentPhotoURLs,
		isActive:          isActive,
		isVerified:        isVerified,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// =============================================================================
// Getters - Expose internal state read-only
// =============================================================================

// ID returns the unique identifier.
func (p *Provider) ID() uuid.UUID { return p.id }

// UserID returns the owning user.
func (p *Provider) UserID() uuid.UUID { return p.userID }

// CPF returns the individual taxpayer registry number.
func (p *Provider) CPF() string { return p.cpf }

// RG returns the general registry (identity card) number.
func (p *Provider) RG() string { return p.rg }

// Address returns the address.
func (p *Provider) Address() string { return p.address }

// Phone returns the contact phone.
func (p *Provider) Phone() string { return p.phone }

// ServiceName returns the name of the offered service.
func (p *Provider) ServiceName() string { return p.serviceName }

// Description returns the description.
func (p *Provider) Description() string { return p.description }

// Categories returns a copy of the service categories.
func (p *Provider) Categories() []string { return slices.Clone(p.categories) }

// DocumentPhotoURLs returns a copy of the uploaded document photo URLs.
func (p *Provider) DocumentPhotoURLs() []string { return slices.Clone(p.documentPhotoURLs) }

// IsActive returns whether the provider is active.
func (p *Provider) IsActive() bool { return p.isActive }

// IsVerified returns whether the provider passed verification.
func (p *Provider) IsVerified() bool { return p.isVerified }

// CreatedAt returns the creation timestamp.
func (p *Provider) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp.
func (p *Provider) UpdatedAt() *time.Time { return p.updatedAt }

// Profile returns the editable profile fields.
func (p *Provider) Profile() Profile {
	return Profile{
		CPF:         p.cpf,
		RG:          p.rg,
		Address:     p.address,
		Phone:       p.phone,
		ServiceName: p.serviceName,
		Description: p.description,
		Categories:  p.Categories(),
	}
}

// IsOwnedBy reports whether userID owns this provider.
func (p *Provider) IsOwnedBy(userID uuid.UUID) bool { return p.userID == userID }

// =============================================================================
// Domain Behavior Methods
// =============================================================================

// Verify performs the one-way transition to verified and active.
func (p *Provider) Verify() error {
	if p.isVerified {
		return ErrAlreadyVerified
	}
	p.isVerified = true
	p.isActive = true
	p.touch()
	return nil
}

// Deactivate marks the provider inactive. There is no way back except verification.
func (p *Provider) Deactivate() error {
	if !p.isActive {
		return ErrAlreadyInactive
	}
	p.isActive = false
	p.touch()
	return nil
}

// UpdateProfile overwrites the profile. Only verified providers may edit their profile.
func (p *Provider) UpdateProfile(profile Profile) error {
	if !p.isVerified {
		return ErrNotVerified
	}
	if strings.TrimSpace(profile.ServiceName) == "" {
		return ErrEmptyServiceName
	}

	p.cpf = profile.CPF
	p.rg = profile.RG
	p.address = profile.Address
	p.phone = profile.Phone
	p.serviceName = profile.ServiceName
	p.description = profile.Description
	p.categories = NormalizeCategories(profile.Categories)
	p.touch()
	return nil
}

// AddDocumentPhoto appends an uploaded document photo URL.
func (p *Provider) AddDocumentPhoto(url string) error {
	if url == "" {
		return ErrEmptyDocumentURL
	}
	if slices.Contains(p.documentPhotoURLs, url) {
		return nil
	}
	p.documentPhotoURLs = append(slices.Clone(p.documentPhotoURLs), url)
	p.touch()
	return nil
}

func (p *Provider) touch() {
	now := time.Now().UTC()
	p.updatedAt = &now
}

// NormalizeCategories trims, drops empty values and removes duplicates
// case-insensitively while keeping the first spelling and the input order.
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
