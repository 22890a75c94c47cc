package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/util"
)

// Validator checks route tables before they are applied.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new route table validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlFieldName)
	return &Validator{validate: v}
}

// ValidateConfig validates a route table.
func ValidateConfig(table *RouteTable) error {
	return NewValidator().Validate(table)
}

// Validate checks the document structure and then compiles every route of
// the table. All problems are reported in one *util.ValidationError keyed
// by the YAML path of the offending field.
func (v *Validator) Validate(table *RouteTable) error {
	errs := util.NewValidationError("invalid route table")

	if table == nil {
		errs.AddField("", "route table is nil")
		return errs
	}

	v.validateStruct(table, errs)
	validateNames(table.Spec.Routes, "spec.routes", make(map[string]string), errs)
	if !errs.HasErrors() {
		validateRoutes(table, errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (v *Validator) validateStruct(table *RouteTable, errs *util.ValidationError) {
	err := v.validate.Struct(table)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.AddField("", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		errs.AddField(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
}

// validateNames rejects route names declared twice anywhere in the table.
func validateNames(defs []matcher.RouteDefinition, path string, seen map[string]string, errs *util.ValidationError) {
	for i := range defs {
		defPath := fmt.Sprintf("%s[%d]", path, i)
		if name := defs[i].Name; name != "" {
			if first, ok := seen[name]; ok {
				errs.AddField(defPath+".name", fmt.Sprintf("duplicate route name %q, first declared at %s", name, first))
			} else {
				seen[name] = defPath
			}
		}
		validateNames(defs[i].Children, defPath+".children", seen, errs)
	}
}

// validateRoutes compiles the table into a scratch registry.
func validateRoutes(table *RouteTable, errs *util.ValidationError) {
	scratch := matcher.New(
		matcher.WithOptions(table.PathOptions()),
		matcher.WithWarnings(false),
	)
	for i := range table.Spec.Routes {
		if _, err := scratch.AddRoute(table.Spec.Routes[i], nil); err != nil {
			errs.AddField(fmt.Sprintf("spec.routes[%d]", i), err.Error())
		}
	}
}

func yamlFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "eq":
		return fmt.Sprintf("must be %q", fe.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
