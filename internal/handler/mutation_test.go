package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body string) []byte {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/mutation/outletLogin", bytes.NewBufferString(body))
	raw, err := decodeMutationBody(req)
	require.NoError(t, err)
	return raw
}

func TestDecodeMutationBody(t *testing.T) {
	t.Run("wrapped input", func(t *testing.T) {
		raw := decodeBody(t, `{"input":{"username":"mut","password":"pw"}}`)
		assert.JSONEq(t, `{"username":"mut","password":"pw"}`, string(raw))
	})

	t.Run("bare body", func(t *testing.T) {
		raw := decodeBody(t, `{"username":"mut","password":"pw"}`)
		assert.JSONEq(t, `{"username":"mut","password":"pw"}`, string(raw))
	})

	t.Run("null input falls back to the body", func(t *testing.T) {
		raw := decodeBody(t, `{"input":null,"username":"mut"}`)
		assert.JSONEq(t, `{"input":null,"username":"mut"}`, string(raw))
	})

	t.Run("empty body", func(t *testing.T) {
		raw := decodeBody(t, "")
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mutation/outletLogin", bytes.NewBufferString("{"))
		_, err := decodeMutationBody(req)
		assert.Error(t, err)
	})
}
