package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		assert.Equal(t, "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		assert.Equal(t, "parse error", err.Error())
	})

	t.Run("Error message with path only", func(t *testing.T) {
		err := &ParseError{Path: "api.yaml"}
		assert.Equal(t, "parse error in api.yaml", err.Error())
	})

	t.Run("Error message with line only", func(t *testing.T) {
		err := &ParseError{Line: 10}
		assert.Equal(t, "parse error at line 10", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("Unwrap returns nil when no cause", func(t *testing.T) {
		err := &ParseError{}
		assert.Nil(t, err.Unwrap())
	})

	t.Run("Is matches ErrParse", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		assert.True(t, errors.Is(err, ErrParse), "ParseError should match ErrParse")
	})

	t.Run("Is does not match other sentinels", func(t *testing.T) {
		err := &ParseError{}
		assert.False(t, errors.Is(err, ErrReference))
		assert.False(t, errors.Is(err, ErrConfig))
	})

	t.Run("errors.Is finds wrapped cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := &ParseError{Cause: cause}
		assert.True(t, errors.Is(err, cause))
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("not found")
		err := &ReferenceError{
			Ref:     "#/components/schemas/Missing",
			Message: "target absent",
			Cause:   cause,
		}

		assert.Equal(t, "reference error: #/components/schemas/Missing: target absent: not found", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ReferenceError{}
		assert.Equal(t, "reference error", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ReferenceError{Cause: cause}
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("Is matches ErrReference", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/components/schemas/X"}
		assert.True(t, errors.Is(err, ErrReference))
	})

	t.Run("Is does not match other sentinels", func(t *testing.T) {
		err := &ReferenceError{}
		assert.False(t, errors.Is(err, ErrParse))
		assert.False(t, errors.Is(err, ErrConfig))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("bad input")
		err := &ConfigError{
			Option:  "method",
			Value:   "FETCH",
			Message: "not a recognized HTTP method",
			Cause:   cause,
		}

		assert.Equal(t, "configuration error for method (value: FETCH): not a recognized HTTP method: bad input", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ConfigError{}
		assert.Equal(t, "configuration error", err.Error())
	})

	t.Run("Error message with option only", func(t *testing.T) {
		err := &ConfigError{Option: "path"}
		assert.Equal(t, "configuration error for path", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ConfigError{Cause: cause}
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("Is matches ErrConfig", func(t *testing.T) {
		err := &ConfigError{Option: "tag"}
		assert.True(t, errors.Is(err, ErrConfig))
	})

	t.Run("Is does not match other sentinels", func(t *testing.T) {
		err := &ConfigError{}
		assert.False(t, errors.Is(err, ErrParse))
		assert.False(t, errors.Is(err, ErrReference))
	})
}

func TestErrorChaining(t *testing.T) {
	t.Run("fmt.Errorf %w preserves sentinel matching", func(t *testing.T) {
		inner := &ConfigError{Option: "method", Value: "FETCH"}
		wrapped := fmt.Errorf("filter: %w", inner)

		assert.True(t, errors.Is(wrapped, ErrConfig))

		var cfgErr *ConfigError
		assert.True(t, errors.As(wrapped, &cfgErr))
		assert.Equal(t, "method", cfgErr.Option)
	})

	t.Run("nested causes unwrap to the root", func(t *testing.T) {
		root := errors.New("disk on fire")
		parseErr := &ParseError{Path: "api.yaml", Cause: root}
		wrapped := fmt.Errorf("reading document: %w", parseErr)

		assert.True(t, errors.Is(wrapped, ErrParse))
		assert.True(t, errors.Is(wrapped, root))
	})
}
