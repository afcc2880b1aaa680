package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSpec = `openapi: 3.0.3
info:
  title: T
  version: "1"
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
`

func TestSpecInput_Resolve_Content(t *testing.T) {
	specCache.reset()

	s := specInput{Content: minimalSpec}
	resolved, err := s.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, specFormatYAML, resolved.format)
	assert.NotNil(t, resolved.root)
}

func TestSpecInput_Resolve_JSONContent(t *testing.T) {
	specCache.reset()

	s := specInput{Content: `{"openapi":"3.0.3","info":{"title":"T","version":"1"},"paths":{}}`}
	resolved, err := s.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, specFormatJSON, resolved.format)
}

func TestSpecInput_Resolve_File(t *testing.T) {
	specCache.reset()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalSpec), 0o600))

	s := specInput{File: path}
	resolved, err := s.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, specFormatYAML, resolved.format)
	assert.Equal(t, 1, specCache.size(), "file input should be cached")
}

func TestSpecInput_Resolve_InputCountValidation(t *testing.T) {
	cases := []struct {
		name string
		s    specInput
	}{
		{"none", specInput{}},
		{"file and content", specInput{File: "x.yaml", Content: minimalSpec}},
		{"file and url", specInput{File: "x.yaml", URL: "https://example.com/x.yaml"}},
		{"all three", specInput{File: "x.yaml", URL: "https://example.com/x.yaml", Content: minimalSpec}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.s.resolve(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exactly one of file, url, or content")
		})
	}
}

func TestSpecInput_Resolve_InvalidContent(t *testing.T) {
	specCache.reset()

	s := specInput{Content: "key: [unclosed"}
	_, err := s.resolve(context.Background())
	assert.Error(t, err)
}

func TestSpecInput_Resolve_ContentCached(t *testing.T) {
	specCache.reset()

	s := specInput{Content: minimalSpec}
	first, err := s.resolve(context.Background())
	require.NoError(t, err)

	second, err := s.resolve(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second, "identical content should hit the cache")
}

func TestSpecCache_Eviction(t *testing.T) {
	specCache.reset()
	oldMax := specCache.maxSize
	specCache.maxSize = 2
	defer func() { specCache.maxSize = oldMax }()

	for i := range 3 {
		specCache.putWithTTL(fmt.Sprintf("key-%d", i), &resolvedSpec{}, time.Minute)
	}
	assert.Equal(t, 2, specCache.size(), "cache should evict down to max size")
}

func TestSpecCache_TTLExpiry(t *testing.T) {
	specCache.reset()

	specCache.putWithTTL("short-lived", &resolvedSpec{}, time.Nanosecond)
	time.Sleep(time.Millisecond)
	assert.Nil(t, specCache.get("short-lived"), "expired entry should not be returned")
}

func TestMakeCacheKey(t *testing.T) {
	t.Run("content keys are stable hashes", func(t *testing.T) {
		a := makeCacheKey(specInput{Content: minimalSpec})
		b := makeCacheKey(specInput{Content: minimalSpec})
		assert.Equal(t, a, b)
		assert.Contains(t, a, "content:")
	})

	t.Run("url keys embed the url", func(t *testing.T) {
		key := makeCacheKey(specInput{URL: "https://example.com/api.yaml"})
		assert.Equal(t, "url:https://example.com/api.yaml", key)
	})

	t.Run("unstattable file yields no key", func(t *testing.T) {
		key := makeCacheKey(specInput{File: filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Empty(t, key)
	})
}

func TestDetectSpecFormat(t *testing.T) {
	assert.Equal(t, specFormatJSON, detectSpecFormat([]byte(`{"a":1}`)))
	assert.Equal(t, specFormatJSON, detectSpecFormat([]byte("  [1]")))
	assert.Equal(t, specFormatYAML, detectSpecFormat([]byte("a: 1\n")))
	assert.Equal(t, specFormatYAML, detectSpecFormat([]byte("")))
}
