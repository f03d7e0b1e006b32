package dto

type TokenRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	APIKey      string `json:"api_key" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
