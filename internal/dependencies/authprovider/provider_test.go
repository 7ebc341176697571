package authprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

func TestNormalizeIdentity(t *testing.T) {
	ident := NormalizeIdentity("ext-1", "phil@example.com", "Phil", nil)
	assert.Equal(t, "ext-1", ident.ID)
	assert.Equal(t, "phil@example.com", ident.Email)
	assert.Equal(t, "Phil", ident.Name)
	assert.Empty(t, ident.AvatarURL)
}

func TestNormalizeIdentityNameFromMetadata(t *testing.T) {
	ident := NormalizeIdentity("ext-1", "phil@example.com", "", map[string]string{
		"full_name": "Phil M",
	})
	assert.Equal(t, "Phil M", ident.Name)
}

func TestNormalizeIdentityAvatarFieldDrift(t *testing.T) {
	ident := NormalizeIdentity("ext-1", "", "", map[string]string{
		"avatar_url": "https://cdn/avatar.png",
	})
	assert.Equal(t, "https://cdn/avatar.png", ident.AvatarURL)

	ident = NormalizeIdentity("ext-1", "", "", map[string]string{
		"picture": "https://cdn/picture.png",
	})
	assert.Equal(t, "https://cdn/picture.png", ident.AvatarURL)

	// avatar_url wins when both are present
	ident = NormalizeIdentity("ext-1", "", "", map[string]string{
		"avatar_url": "https://cdn/avatar.png",
		"picture":    "https://cdn/picture.png",
	})
	assert.Equal(t, "https://cdn/avatar.png", ident.AvatarURL)
}

func TestDisabledProvider(t *testing.T) {
	p := NewDisabled()
	ctx := context.Background()

	_, err := p.GetSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.ErrorIs(t, p.SignIn(ctx, "google"), ErrProviderDisabled)
	assert.NoError(t, p.SignOut(ctx))

	unsubscribe := p.OnAuthStateChange(func(identity *model.ExternalIdentity) {})
	unsubscribe()
}
