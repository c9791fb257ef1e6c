package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type PlanRequest struct {
	DisplayNumber   int    `json:"display_number"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	CreditsRequired int    `json:"credits_required"`
	DurationDays    int    `json:"duration_days"`
	DeviceLimit     int    `json:"device_limit"`
	IsActive        *bool  `json:"is_active"`
}

type AddKeysRequest struct {
	// One key per line; blank lines are skipped.
	Keys string `json:"keys"`
}

type AddKeysResponse struct {
	Added int `json:"added"`
}

type GenerateKeysRequest struct {
	Count  int `json:"count"`
	Length int `json:"length"`
}

type GenerateKeysResponse struct {
	Keys []string `json:"keys"`
}

type TopupOptionRequest struct {
	Credits  int   `json:"credits"`
	PriceMMK int   `json:"price_mmk"`
	IsActive *bool `json:"is_active"`
}

type PaymentMethodRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type ContactRequest struct {
	ContactValue string `json:"contact_value"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
