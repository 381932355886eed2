package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// AllClaimants is the filter sentinel that matches every claim.
const AllClaimants = "All Claims"

// ErrCorruptClaims is returned when the claims key holds undecodable data.
// An absent key is not an error; it reads as an empty list.
var ErrCorruptClaims = errors.New("corrupt claims data")

// ClaimsStore is the typed view over the local store that owns the claim
// records. The full ordered list (newest first) is serialized under one key.
type ClaimsStore struct {
	kv *LocalStore
}

// NewClaimsStore constructs a ClaimsStore over the given local store.
func NewClaimsStore(kv *LocalStore) *ClaimsStore {
	return &ClaimsStore{kv: kv}
}

// Claims returns the stored list, newest first. A never-written key yields an
// empty list; present but undecodable data yields ErrCorruptClaims.
func (s *ClaimsStore) Claims() ([]models.Claim, error) {
	raw, ok := s.kv.Get(keyClaims)
	if !ok {
		return []models.Claim{}, nil
	}
	var claims []models.Claim
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptClaims, err)
	}
	return claims, nil
}

// Save serializes the full list and replaces the stored collection.
func (s *ClaimsStore) Save(claims []models.Claim) error {
	raw, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	return s.kv.Set(keyClaims, string(raw))
}

// Add validates the fields, builds the claim and prepends it to the stored
// list. This is a read-modify-write; the store assumes a single writer.
func (s *ClaimsStore) Add(claimType models.ClaimType, date time.Time, claimant string, amount float64) (models.Claim, error) {
	if err := ValidateClaimant(claimant); err != nil {
		return models.Claim{}, err
	}
	if err := ValidateAmount(amount); err != nil {
		return models.Claim{}, err
	}
	if err := ValidateDate(date); err != nil {
		return models.Claim{}, err
	}

	claim := models.Claim{
		ID:       uuid.NewString(),
		Type:     claimType,
		Date:     FormatDate(date),
		Claimant: claimant,
		Amount:   amount,
		Status:   models.StatusPending,
	}

	existing, err := s.Claims()
	if err != nil {
		return models.Claim{}, err
	}
	if err := s.Save(append([]models.Claim{claim}, existing...)); err != nil {
		return models.Claim{}, err
	}
	return claim, nil
}

// ByClaimant returns the claims for one claimant in stored order, or every
// claim when claimant is the AllClaimants sentinel.
func (s *ClaimsStore) ByClaimant(claimant string) ([]models.Claim, error) {
	claims, err := s.Claims()
	if err != nil {
		return nil, err
	}
	if claimant == "" || claimant == AllClaimants {
		return claims, nil
	}
	filtered := make([]models.Claim, 0, len(claims))
	for _, c := range claims {
		if c.Claimant == claimant {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// ByID returns the claim with the given ID, or nil if not found.
func (s *ClaimsStore) ByID(id string) (*models.Claim, error) {
	claims, err := s.Claims()
	if err != nil {
		return nil, err
	}
	for _, c := range claims {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}
