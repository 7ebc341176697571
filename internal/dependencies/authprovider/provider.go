package authprovider

import (
	"context"
	"errors"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

// ErrNoSession is returned by GetSession when nobody is signed in.
var ErrNoSession = errors.New("no provider session")

// ErrProviderDisabled is returned by the disabled provider for operations
// that require a configured identity provider.
var ErrProviderDisabled = errors.New("identity provider not configured")

// Handler receives auth-state change events. A nil identity means the
// provider session ended (sign-out or expiry).
type Handler func(identity *model.ExternalIdentity)

// Provider abstracts the external identity provider's session management.
// Implementations normalize provider payloads into model.ExternalIdentity
// at this boundary so field-name drift never reaches the resolver.
type Provider interface {
	// GetSession returns the current provider session, or ErrNoSession.
	GetSession(ctx context.Context) (*model.ExternalIdentity, error)

	// OnAuthStateChange registers a handler called on every auth-state
	// change (login, token refresh, logout). The returned function
	// unregisters the handler; callers must invoke it on teardown.
	OnAuthStateChange(handler Handler) (unsubscribe func())

	// SignIn starts a sign-in with the named external provider.
	SignIn(ctx context.Context, providerName string) error

	// SignOut ends the provider session.
	SignOut(ctx context.Context) error
}

// NormalizeIdentity builds an ExternalIdentity from raw provider metadata.
// Different providers disagree on the avatar field name; the drift is
// absorbed here, once.
func NormalizeIdentity(id, email, name string, metadata map[string]string) model.ExternalIdentity {
	ident := model.ExternalIdentity{
		ID:    id,
		Email: email,
		Name:  name,
	}
	if ident.Name == "" {
		if full := metadata["full_name"]; full != "" {
			ident.Name = full
		}
	}
	if avatar := metadata["avatar_url"]; avatar != "" {
		ident.AvatarURL = avatar
	} else if picture := metadata["picture"]; picture != "" {
		ident.AvatarURL = picture
	}
	return ident
}

// Disabled is a Provider for deployments with no external identity
// provider configured. PIN login still works; external flows error.
type Disabled struct{}

// NewDisabled creates a Disabled provider
func NewDisabled() *Disabled {
	return &Disabled{}
}

var _ Provider = (*Disabled)(nil)

func (d *Disabled) GetSession(ctx context.Context) (*model.ExternalIdentity, error) {
	return nil, ErrNoSession
}

func (d *Disabled) OnAuthStateChange(handler Handler) func() {
	return func() {}
}

func (d *Disabled) SignIn(ctx context.Context, providerName string) error {
	return ErrProviderDisabled
}

func (d *Disabled) SignOut(ctx context.Context) error {
	return nil
}
