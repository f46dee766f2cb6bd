package outbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

func TestFormClientSubmit(t *testing.T) {
	var got map[string][]string
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = r.MultipartForm.Value
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"next":"/thanks"}`))
	}))
	defer srv.Close()

	c := NewFormClient(srv.URL, srv.Client())
	resp, err := c.Submit(context.Background(), []Field{
		{Name: "email", Value: "keeper@example.com"},
		{Name: "order_summary", Value: "Rack A x3"},
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, "/thanks", resp.Next)
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, []string{"keeper@example.com"}, got["email"])
	assert.Equal(t, []string{"Rack A x3"}, got["order_summary"])
}

func TestFormClientRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"field":"email","message":"should be an email"}]}`))
	}))
	defer srv.Close()

	_, err := NewFormClient(srv.URL, srv.Client()).Submit(context.Background(), []Field{{Name: "email", Value: "nope"}})
	require.Error(t, err)
	assert.True(t, errx.IsRemote(err))
	assert.Contains(t, err.Error(), "should be an email")
}

func TestFormClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFormClient(url, nil).Submit(context.Background(), nil)
	assert.True(t, errx.IsRemote(err))

	_, err = NewFormClient("", nil).Submit(context.Background(), nil)
	assert.True(t, errx.IsRemote(err))
}

func TestEmailClientSend(t *testing.T) {
	var req emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewEmailClient(model.EmailConfig{APIURL: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk"}, srv.Client())
	require.True(t, c.Configured())
	require.NoError(t, c.Send(context.Background(), map[string]string{"to_email": "keeper@example.com"}))

	assert.Equal(t, "svc", req.ServiceID)
	assert.Equal(t, "tpl", req.TemplateID)
	assert.Equal(t, "pk", req.UserID)
	assert.Equal(t, "keeper@example.com", req.TemplateParams["to_email"])
}

func TestEmailClientFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The user ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewEmailClient(model.EmailConfig{APIURL: srv.URL, ServiceID: "svc", TemplateID: "tpl"}, srv.Client())
	err := c.Send(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errx.IsRemote(err))

	assert.False(t, NewEmailClient(model.EmailConfig{APIURL: srv.URL}, nil).Configured())
}
