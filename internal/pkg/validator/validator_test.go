package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	errs := Validate(loginForm{Email: "not-an-email"})

	assert.Equal(t, "email", errs["email"])
	assert.Equal(t, "required", errs["password"])
}

func TestValidate_NilOnSuccess(t *testing.T) {
	errs := Validate(loginForm{Email: "ines@imogest.pt", Password: "s3cret"})
	assert.Nil(t, errs)
}
