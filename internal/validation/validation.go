// Package validation checks request bodies and path parameters before
// they reach the store. Checks are pure and report every failure.
package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxTitleLength = 255

var ErrInvalidJSON = errors.New("invalid JSON in request body")

type Result struct {
	IsValid bool
	Errors  []string
}

func newResult(errs []string) Result {
	return Result{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidateCreateRequest validates a decoded create request body. Any
// JSON value is accepted; values that are not objects carry no title.
func ValidateCreateRequest(body any) Result {
	if body == nil {
		return newResult([]string{"Request body is required"})
	}

	var errs []string
	fields, _ := body.(map[string]any)
	title, ok := fields["title"]
	switch {
	case !ok || title == nil:
		errs = append(errs, "Title is required")
	default:
		s, isString := title.(string)
		switch {
		case !isString:
			errs = append(errs, "Title must be a string")
		case SanitizeString(s) == "":
			errs = append(errs, "Title cannot be empty")
		case utf8.RuneCountInString(s) > MaxTitleLength:
			errs = append(errs, "Title cannot exceed 255 characters")
		}
	}
	return newResult(errs)
}

// Title returns the sanitized title of a body that passed
// ValidateCreateRequest.
func Title(body any) string {
	fields, _ := body.(map[string]any)
	title, _ := fields["title"].(string)
	return SanitizeString(title)
}

// ValidateID accepts any non-blank string. No format is imposed on ids.
func ValidateID(value any) Result {
	var errs []string
	switch v := value.(type) {
	case nil:
		errs = append(errs, "Todo ID is required")
	case string:
		if v == "" {
			errs = append(errs, "Todo ID is required")
		} else if SanitizeString(v) == "" {
			errs = append(errs, "Todo ID cannot be empty")
		}
	default:
		errs = append(errs, "Todo ID must be a string")
	}
	return newResult(errs)
}

// SanitizeString trims leading and trailing white space, including the
// byte order mark.
func SanitizeString(s string) string {
	return strings.TrimFunc(s, isTrimmable)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ParseBody decodes a JSON body. An absent body and the JSON values
// null, false, 0 and "" all yield nil and no error. Only input that is
// not JSON yields ErrInvalidJSON.
func ParseBody(raw *string) (any, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	var body any
	err := json.Unmarshal([]byte(*raw), &body)
	if err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}

	switch v := body.(type) {
	case bool:
		if !v {
			return nil, nil
		}
	case float64:
		if v == 0 {
			return nil, nil
		}
	case string:
		if v == "" {
			return nil, nil
		}
	}
	return body, nil
}
