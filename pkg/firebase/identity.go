package firebase

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/ripplegram/backend/internal/service"
)

// IdentityProvider adapts the Firebase auth client to the identity lookup
// the sync flow needs.
type IdentityProvider struct {
	client *auth.Client
}

// NewIdentityProvider creates an IdentityProvider over the auth client.
func NewIdentityProvider(client *auth.Client) *IdentityProvider {
	return &IdentityProvider{client: client}
}

// Lookup fetches the subject's profile attributes from Firebase. The
// display name splits into first name and the rest.
func (p *IdentityProvider) Lookup(ctx context.Context, externalID string) (*service.IdentityAttributes, error) {
	record, err := p.client.GetUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	first, last := splitDisplayName(record.DisplayName)
	return &service.IdentityAttributes{
		Email:     record.Email,
		FirstName: first,
		LastName:  last,
		PhotoURL:  record.PhotoURL,
	}, nil
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

var _ service.IdentityProvider = (*IdentityProvider)(nil)
