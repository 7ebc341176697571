package model

// ExternalIdentity is an account from a third-party identity provider,
// distinct from the PIN-based local login. It must be resolved to, or
// linked to, exactly one player.
type ExternalIdentity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
