package chi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// inputRules bounds free-form fields before normalization. Status and coordinates
// are checked by the domain, which knows their aliases.
type inputRules struct {
	Name          string   `json:"name" validate:"max=200"`
	Color         string   `json:"color" validate:"max=100"`
	Breed         string   `json:"breed" validate:"max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Address       string   `json:"address" validate:"max=500"`
	PhotoURLs     []string `json:"photoUrls" validate:"max=50,dive,required,max=4096"`
	OwnerEmail    string   `json:"ownerEmail" validate:"omitempty,email"`
	ReporterEmail string   `json:"reporterEmail" validate:"omitempty,email"`
}

// validateInput returns a domain.ValidationError for the first violated rule.
func validateInput(in *report.Input) error {
	rules := inputRules{
		Name:          firstNonEmpty(in.Name, in.PetName),
		Color:         in.Color,
		Breed:         in.Breed,
		Description:   firstNonEmpty(in.Description, in.Notes),
		Address:       in.Address,
		PhotoURLs:     in.PhotoURLs,
		OwnerEmail:    strings.TrimSpace(in.OwnerEmail),
		ReporterEmail: strings.TrimSpace(in.ReporterEmail),
	}
	return translate(validate.Struct(rules))
}

// validateStatusParam checks an optional lost|found query parameter.
func validateStatusParam(name, value string) error {
	if err := validate.Var(value, "omitempty,oneof=lost found"); err != nil {
		return domain.NewValidationError(name, "must be lost or found")
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return domain.NewValidationError("body", err.Error())
	}

	fe := errs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "email":
		return domain.NewValidationError(field, "must be a valid email")
	case "required":
		return domain.NewValidationError(field, "must not be empty")
	case "max":
		return domain.NewValidationError(field, fmt.Sprintf("must be at most %s", fe.Param()))
	default:
		return domain.NewValidationError(field, fmt.Sprintf("failed %q rule", fe.Tag()))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
