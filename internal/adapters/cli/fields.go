package cli

import (
	"github.com/agilstore/core/internal/domain/validation"
)

// field describes one prompt: what to ask, what to print when the answer is
// rejected, and how to store an accepted answer.
type field struct {
	prompt  string
	invalid string
	apply   func(input string) bool
}

// optionalField is a field guarded by a s/N question
type optionalField struct {
	question string
	field
}

// collectFields asks every field in order and stops at the first invalid answer.
func collectFields(c *Console, fields []field) bool {
	for _, f := range fields {
		if !f.apply(c.Ask(f.prompt)) {
			c.Println(f.invalid)
			return false
		}
	}
	return true
}

// collectOptionalFields asks each guard question; a rejected answer only skips
// that field.
func collectOptionalFields(c *Console, fields []optionalField) {
	for _, f := range fields {
		if !validation.IsAffirmative(c.Ask(f.question)) {
			continue
		}
		if !f.apply(c.Ask(f.prompt)) {
			c.Println(f.invalid)
		}
	}
}

func textField(prompt, invalid string, dst *string) field {
	return field{
		prompt:  prompt,
		invalid: invalid,
		apply: func(input string) bool {
			if validation.IsBlank(input) {
				return false
			}
			*dst = input
			return true
		},
	}
}

func intField(prompt, invalid string, dst *int) field {
	return field{
		prompt:  prompt,
		invalid: invalid,
		apply: func(input string) bool {
			n, ok := validation.ParseNonNegativeInt(input)
			if ok {
				*dst = n
			}
			return ok
		},
	}
}

func realField(prompt, invalid string, dst *float64) field {
	return field{
		prompt:  prompt,
		invalid: invalid,
		apply: func(input string) bool {
			n, ok := validation.ParseNonNegativeReal(input)
			if ok {
				*dst = n
			}
			return ok
		},
	}
}
