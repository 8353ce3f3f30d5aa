package accounts

import (
	"strings"

	"github.com/dmitrijs2005/accountd/internal/common"
)

// Validator checks an account against structural and business rules before
// it is persisted. An empty result means the account is acceptable.
type Validator interface {
	Validate(a *Account) []common.ValidationError
}

// RuleValidator is the default Validator. It enforces the invariants the
// store relies on: credentials present, secrets generated, roles non-empty.
type RuleValidator struct{}

func NewRuleValidator() *RuleValidator { return &RuleValidator{} }

func (v *RuleValidator) Validate(a *Account) []common.ValidationError {
	var errs []common.ValidationError

	if strings.TrimSpace(a.Username) == "" {
		errs = append(errs, common.ValidationError{Field: "username", Message: "username is required"})
	}
	if strings.TrimSpace(a.Email) == "" {
		errs = append(errs, common.ValidationError{Field: "email", Message: "email is required"})
	} else if !strings.Contains(a.Email, "@") {
		errs = append(errs, common.ValidationError{Field: "email", Message: "email is not valid"})
	}
	if len(a.PasswordHash) == 0 {
		errs = append(errs, common.ValidationError{Field: "password", Message: "password is required"})
	}
	if a.Salt == "" {
		errs = append(errs, common.ValidationError{Field: "salt", Message: "salt is missing"})
	}
	if a.SecretKey == "" {
		errs = append(errs, common.ValidationError{Field: "secretKey", Message: "secret key is missing"})
	}
	if a.APIKey == "" {
		errs = append(errs, common.ValidationError{Field: "apiKey", Message: "api key is missing"})
	}
	if len(a.Roles) == 0 {
		errs = append(errs, common.ValidationError{Field: "roles", Message: "at least one role is required"})
	}

	return errs
}
