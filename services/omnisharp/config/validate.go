// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/omnihost/services/omnisharp/hostresolver"
)

// ErrInvalidConfig indicates a configuration that failed to parse or
// validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// optionsValidate is initialized in init() with custom validators.
var optionsValidate *validator.Validate

func init() {
	optionsValidate = validator.New()
	_ = optionsValidate.RegisterValidation("semver", validateSemver)
}

// validateSemver accepts versions hostresolver can compare.
func validateSemver(fl validator.FieldLevel) bool {
	_, ok := hostresolver.Canonical(fl.Field().String())
	return ok
}

// Validate checks o against its struct tags.
//
// Outputs:
//
//	error - Wraps ErrInvalidConfig and names every failing field
func (o Options) Validate() error {
	err := optionsValidate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
