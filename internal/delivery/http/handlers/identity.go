package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

// callerIdentity reads the identity established by the out-of-scope auth
// layer in front of this service.
func callerIdentity(r *http.Request) (domain.Identity, error) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing X-User-ID header", domain.ErrValidation)
	}

	capability := domain.CapabilityUser
	switch strings.ToUpper(r.Header.Get("X-User-Role")) {
	case "", "USER":
	case "MODERATOR":
		capability = domain.CapabilityModerator
	case "ADMIN":
		capability = domain.CapabilityAdmin
	default:
		return domain.Identity{}, fmt.Errorf("%w: unknown X-User-Role", domain.ErrValidation)
	}

	return domain.Identity{UserID: userID, Capability: capability}, nil
}

func requireStaff(r *http.Request) (domain.Identity, error) {
	caller, err := callerIdentity(r)
	if err != nil {
		return domain.Identity{}, err
	}
	if !caller.Capability.IsStaff() {
		return domain.Identity{}, fmt.Errorf("%w: staff capability required", domain.ErrUnauthorized)
	}
	return caller, nil
}
