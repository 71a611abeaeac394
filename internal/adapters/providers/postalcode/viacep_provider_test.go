package postalcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

func newViaCEPServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var lastPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &lastPath
}

func TestViaCEPProvider_LookupPostalCode(t *testing.T) {
	server, path := newViaCEPServer(t, http.StatusOK, `{
  "cep": "01001-000",
  "logradouro": "Praça da Sé",
  "complemento": "lado ímpar",
  "bairro": "Sé",
  "localidade": "São Paulo",
  "uf": "SP"
}`)
	provider := NewViaCEPProvider(server.URL, server.Client())

	addr, err := provider.LookupPostalCode(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "/01001000/json", *path)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Equal(t, "01001000", addr.PostalCode)
}

func TestViaCEPProvider_NotFound(t *testing.T) {
	bodies := []string{`{"erro": true}`, `{"erro": "true"}`}
	for _, body := range bodies {
		server, _ := newViaCEPServer(t, http.StatusOK, body)
		provider := NewViaCEPProvider(server.URL, server.Client())

		_, err := provider.LookupPostalCode(context.Background(), "99999999")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound), body)
	}
}

func TestViaCEPProvider_BadRequestIsNotFound(t *testing.T) {
	server, _ := newViaCEPServer(t, http.StatusBadRequest, `<html>Bad Request</html>`)
	provider := NewViaCEPProvider(server.URL, server.Client())

	_, err := provider.LookupPostalCode(context.Background(), "00000000")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestViaCEPProvider_UpstreamFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server, _ := newViaCEPServer(t, http.StatusInternalServerError, `oops`)
		provider := NewViaCEPProvider(server.URL, server.Client())

		_, err := provider.LookupPostalCode(context.Background(), "01001000")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	})

	t.Run("malformed body", func(t *testing.T) {
		server, _ := newViaCEPServer(t, http.StatusOK, `{"cep": `)
		provider := NewViaCEPProvider(server.URL, server.Client())

		_, err := provider.LookupPostalCode(context.Background(), "01001000")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	})

	t.Run("transport error", func(t *testing.T) {
		server, _ := newViaCEPServer(t, http.StatusOK, `{}`)
		server.Close()
		provider := NewViaCEPProvider(server.URL, nil)

		_, err := provider.LookupPostalCode(context.Background(), "01001000")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	})
}

func TestViaCEPProvider_InvalidCode(t *testing.T) {
	provider := NewViaCEPProvider("http://127.0.0.1:0", nil)

	_, err := provider.LookupPostalCode(context.Background(), "123")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
