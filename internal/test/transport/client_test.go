package transport_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/transport"
)

func snapshot() models.OrderSnapshot {
	return models.OrderSnapshot{
		Customer: models.CustomerProfile{Name: "Anna", Email: "anna@example.com", Phone: "555-0101"},
		Lines: []models.OrderLine{
			{ID: "p1", Name: "beach.jpg", Format: "10x15", Quantity: 2, UnitPrice: 0.79, LineTotal: 1.58},
			{ID: "p2", Name: "city.jpg", Format: "21x30", Quantity: 1, UnitPrice: 5.99, LineTotal: 5.99},
		},
		TotalPrice: 7.57,
		Content: map[string][]byte{
			"p1": []byte("beach-bytes"),
			"p2": []byte("city-bytes"),
		},
	}
}

func TestSendBuildsMultipartPayload(t *testing.T) {
	var (
		gotPath  string
		form     map[string][]string
		files    []string
		contents [][]byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		form = r.MultipartForm.Value
		for _, header := range r.MultipartForm.File["images"] {
			files = append(files, header.Filename)
			src, err := header.Open()
			require.NoError(t, err)
			buf, err := io.ReadAll(src)
			require.NoError(t, err)
			src.Close()
			contents = append(contents, buf)
		}
		json.NewEncoder(w).Encode(models.OrderConfirmation{
			Success:    true,
			Customer:   models.CustomerInfo{Name: "Anna", Email: "anna@example.com", Phone: "555-0101"},
			TotalPrice: "7.57",
		})
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, zap.NewNop())
	confirmation, err := client.Send(context.Background(), snapshot())
	require.NoError(t, err)

	assert.Equal(t, "/upload", gotPath)
	assert.Equal(t, []string{"beach.jpg", "city.jpg"}, files)
	assert.Equal(t, [][]byte{[]byte("beach-bytes"), []byte("city-bytes")}, contents)

	assert.Equal(t, "Anna", form["customerName"][0])
	assert.Equal(t, "anna@example.com", form["customerEmail"][0])
	assert.Equal(t, "555-0101", form["customerPhone"][0])
	assert.Equal(t, "7.57", form["totalPrice"][0])

	var meta models.OrderLine
	require.NoError(t, json.Unmarshal([]byte(form["photoMeta[0]"][0]), &meta))
	assert.Equal(t, "p1", meta.ID)
	assert.Equal(t, "10x15", meta.Format)
	assert.Equal(t, 2, meta.Quantity)
	assert.Equal(t, 0.79, meta.UnitPrice)
	assert.Equal(t, 1.58, meta.LineTotal)

	require.NoError(t, json.Unmarshal([]byte(form["photoMeta[1]"][0]), &meta))
	assert.Equal(t, "p2", meta.ID)

	assert.True(t, confirmation.Success)
	assert.Equal(t, "7.57", confirmation.TotalPrice)
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{Success: false, Message: "boom"})
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, zap.NewNop())
	_, err := client.Send(context.Background(), snapshot())
	assert.ErrorIs(t, err, common.ErrServer)
	assert.True(t, common.IsSubmissionFailure(err))
}

func TestSendMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL, zap.NewNop())
	_, err := client.Send(context.Background(), snapshot())
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
	assert.True(t, common.IsSubmissionFailure(err))
}

func TestSendNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := transport.NewClient(server.URL, zap.NewNop())
	_, err := client.Send(context.Background(), snapshot())
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.True(t, common.IsSubmissionFailure(err))
}
