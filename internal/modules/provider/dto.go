package provider

type UpsertProviderRequest struct {
	CompanyName  string `json:"company_name" validate:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	WorkCategory string `json:"work_category"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
}
