//nolint:lll // readablity
package traefik

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		jsonData string
		domain   string
		cert     string
		key      string
		wantErr  bool
	}{
		{
			name:     "Success",
			jsonData: `{"dummy":{"Certificates":[{"domain":{"main":"example.com"}, "certificate": "cert1", "key": "key1"}]}}`,
			domain:   "example.com",
			cert:     "cert1",
			key:      "key1",
		},
		{
			name:     "Wildcard domain",
			jsonData: `{"myresolver":{"Certificates":[{"domain":{"main":"*.example.com"}, "certificate": "cert1", "key": "key1"}]}}`,
			domain:   "*.example.com",
			cert:     "cert1",
			key:      "key1",
		},
		{
			name:     "Second resolver",
			jsonData: `{"a":{"Certificates":[{"domain":{"main":"a.com"}, "certificate": "cert1", "key": "key1"}]},"b":{"Certificates":[{"domain":{"main":"b.com"}, "certificate": "cert2", "key": "key2"}]}}`,
			domain:   "b.com",
			cert:     "cert2",
			key:      "key2",
		},
		{
			name:     "Domain not found",
			jsonData: `{"dummy":{"Certificates":[{"domain":{"main":"example.com"}, "certificate": "cert1", "key": "key1"}]}}`,
			domain:   "notfound.com",
			wantErr:  true,
		},
		{
			name:     "Empty json",
			jsonData: `{}`,
			domain:   "notfound.com",
			wantErr:  true,
		},
		{
			name:     "Invalid json",
			jsonData: `{"dummy":`,
			domain:   "example.com",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert, key, err := lookup(tt.jsonData, tt.domain)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cert, cert)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestParseInvalidBase64(t *testing.T) {
	_, err := Parse(`{"r":{"Certificates":[{"domain":{"main":"x.com"}, "certificate": "%%%", "key": "key1"}]}}`, "x.com")
	assert.ErrorContains(t, err, "certificate")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "acme.json"), "x.com")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
