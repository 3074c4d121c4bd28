// Package component defines the workflow component model: metadata, property
// definitions, the per-run Step context and the registry the runner uses to
// look components up.
package component

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Type is the kind of component.
type Type string

const (
	// TypeAction runs once per pipeline step.
	TypeAction Type = "action"

	// TypeSource emits events into a pipeline.
	TypeSource Type = "source"
)

// ErrInvalidProps is returned when step props or auth fail validation.
var ErrInvalidProps = errors.New("invalid props")

// Metadata describes a component.
type Metadata struct {
	Key         string `json:"key" validate:"required,max=64"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Version     string `json:"version" validate:"required,semver"`
	Type        Type   `json:"type" validate:"required,oneof=action source"`
}

// Validate checks the metadata fields.
func (m Metadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("component %q: %w", m.Key, describe(err))
	}
	return nil
}

// Component is a runnable integration step.
type Component interface {
	Metadata() Metadata
	Props() []PropDefinition
	Run(ctx context.Context, step *Step) (any, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidProps, strings.Join(msgs, ", "))
}
