package models

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries the credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountUpdateRequest is a partial self-service update. Empty fields are
// left unchanged.
type AccountUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PageCreateRequest is the payload for creating a page. Empty optional
// fields are replaced by configured defaults.
type PageCreateRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Photo           string `json:"photo"`
	FontColor       string `json:"fontColor"`
	BackgroundType  string `json:"backgroundType"`
	BackgroundValue string `json:"backgroundValue"`
}

// PageUpdateRequest is a partial page update. Only non-nil fields are applied.
type PageUpdateRequest struct {
	Slug            *string `json:"slug"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Photo           *string `json:"photo"`
	FontColor       *string `json:"fontColor"`
	BackgroundType  *string `json:"backgroundType"`
	BackgroundValue *string `json:"backgroundValue"`
}
