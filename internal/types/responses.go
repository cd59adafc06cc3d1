package types

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Headline  string `json:"headline,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
