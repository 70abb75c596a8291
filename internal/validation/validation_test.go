package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateCreateRequest(t *testing.T) {
	tests := []struct {
		name string
		body any
		want []string
	}{
		{"nil body", nil, []string{"Request body is required"}},
		{"number body", 42.0, []string{"Title is required"}},
		{"array body", []any{1.0}, []string{"Title is required"}},
		{"string body", "x", []string{"Title is required"}},
		{"true body", true, []string{"Title is required"}},
		{"empty object", map[string]any{}, []string{"Title is required"}},
		{"null title", map[string]any{"title": nil}, []string{"Title is required"}},
		{"numeric title", map[string]any{"title": 42.0}, []string{"Title must be a string"}},
		{"array title", map[string]any{"title": []any{"a"}}, []string{"Title must be a string"}},
		{"empty title", map[string]any{"title": ""}, []string{"Title cannot be empty"}},
		{"whitespace title", map[string]any{"title": " \t\n "}, []string{"Title cannot be empty"}},
		{"byte order mark title", map[string]any{"title": "\uFEFF\uFEFF"}, []string{"Title cannot be empty"}},
		{"no-break space title", map[string]any{"title": "\u00A0\u2028"}, []string{"Title cannot be empty"}},
		{"max length", map[string]any{"title": strings.Repeat("a", 255)}, nil},
		{"too long", map[string]any{"title": strings.Repeat("a", 256)}, []string{"Title cannot exceed 255 characters"}},
		{"multibyte max length", map[string]any{"title": strings.Repeat("é", 255)}, nil},
		{"valid", map[string]any{"title": "Buy milk"}, nil},
		{"extra fields ignored", map[string]any{"title": "Buy milk", "status": "completed"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCreateRequest(tt.body)
			if got.IsValid != (len(tt.want) == 0) {
				t.Errorf("IsValid: got %v, want %v", got.IsValid, len(tt.want) == 0)
			}
			if !reflect.DeepEqual(got.Errors, tt.want) {
				t.Errorf("Errors: got %q, want %q", got.Errors, tt.want)
			}
		})
	}
}

func TestValidateCreateRequestLengthCountsUntrimmed(t *testing.T) {
	title := " " + strings.Repeat("a", 255)
	got := ValidateCreateRequest(map[string]any{"title": title})
	if got.IsValid {
		t.Fatalf("IsValid: got true for %d raw characters", len(title))
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"nil", nil, []string{"Todo ID is required"}},
		{"empty", "", []string{"Todo ID is required"}},
		{"whitespace", "   ", []string{"Todo ID cannot be empty"}},
		{"byte order mark", "\uFEFF", []string{"Todo ID cannot be empty"}},
		{"number", 123, []string{"Todo ID must be a string"}},
		{"uuid", "0190b1c2-7d1e-7c4a-9f4e-2b1a3c4d5e6f", nil},
		{"arbitrary", "not-a-uuid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateID(tt.value)
			if got.IsValid != (len(tt.want) == 0) {
				t.Errorf("IsValid: got %v, want %v", got.IsValid, len(tt.want) == 0)
			}
			if !reflect.DeepEqual(got.Errors, tt.want) {
				t.Errorf("Errors: got %q, want %q", got.Errors, tt.want)
			}
		})
	}
}

func TestParseBody(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		raw     *string
		wantNil bool
		wantErr bool
	}{
		{"nil", nil, true, false},
		{"empty", str(""), true, false},
		{"null literal", str("null"), true, false},
		{"false literal", str("false"), true, false},
		{"zero", str("0"), true, false},
		{"empty string literal", str(`""`), true, false},
		{"object", str(`{"title":"a"}`), false, false},
		{"array", str(`["a"]`), false, false},
		{"string", str(`"a"`), false, false},
		{"number", str("42"), false, false},
		{"true literal", str("true"), false, false},
		{"malformed", str(`{"title":`), true, true},
		{"whitespace only", str("   "), true, true},
		{"bare word", str("title"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBody(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidJSON) {
				t.Errorf("err: got %v, want ErrInvalidJSON", err)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("body: got %v, wantNil %v", got, tt.wantNil)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Buy milk \n", "Buy milk"},
		{"\uFEFFBuy milk\uFEFF", "Buy milk"},
		{"\u00A0Buy\u00A0milk\u3000", "Buy\u00A0milk"},
		{"\uFEFF \uFEFF", ""},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title(map[string]any{"title": "\uFEFF Buy milk "}); got != "Buy milk" {
		t.Errorf("Title: got %q, want %q", got, "Buy milk")
	}
	if got := Title(42.0); got != "" {
		t.Errorf("Title: got %q, want empty", got)
	}
}
