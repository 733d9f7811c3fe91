package validation

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/model"
)

// GenderLister supplies the reference data the gender rule checks against.
type GenderLister interface {
	ListGenders(ctx context.Context) ([]model.Gender, error)
}

// Validator checks request payloads before they reach the services. Field
// failures come back as validator.ValidationErrors.
type Validator struct {
	validate *validator.Validate
	genders  GenderLister

	mu       sync.Mutex
	genderID map[uuid.UUID]struct{}
}

func New(genders GenderLister) (*Validator, error) {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), genders: genders}
	// report json names so messages match the request body
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.validate.RegisterValidationCtx("gender", v.validGender); err != nil {
		return nil, fmt.Errorf("register gender rule: %w", err)
	}
	return v, nil
}

func (v *Validator) Validate(ctx context.Context, req any) error {
	return v.validate.StructCtx(ctx, req)
}

func (v *Validator) validGender(ctx context.Context, fl validator.FieldLevel) bool {
	id, ok := fl.Field().Interface().(uuid.UUID)
	if !ok {
		return false
	}

	known, err := v.knownGenders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load genders for validation")
		return false
	}
	_, ok = known[id]
	return ok
}

// knownGenders loads the gender ids on first use and keeps them. A failed
// load is retried on the next call.
func (v *Validator) knownGenders(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.genderID != nil {
		return v.genderID, nil
	}

	genders, err := v.genders.ListGenders(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(genders))
	for _, g := range genders {
		known[g.ID] = struct{}{}
	}
	v.genderID = known
	return known, nil
}
