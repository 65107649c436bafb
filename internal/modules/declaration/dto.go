package declaration

// SubmitRequest is the tenant incident form. Files ride alongside in
// the multipart body.
type SubmitRequest struct {
	Name        string `form:"name" json:"name" validate:"required"`
	Email       string `form:"email" json:"email" validate:"required,email"`
	Phone       string `form:"phone" json:"phone"`
	NIF         string `form:"nif" json:"nif"`
	Property    string `form:"property" json:"property" validate:"required"`
	City        string `form:"city" json:"city"`
	PostalCode  string `form:"postal_code" json:"postal_code"`
	IssueType   string `form:"issue_type" json:"issue_type" validate:"required"`
	Description string `form:"description" json:"description"`
	Urgency     string `form:"urgency" json:"urgency"`
}
