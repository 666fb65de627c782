package syncproto

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
)

func TestClientSyncRoundTripsRequestAndResponse(t *testing.T) {
	var gotReq Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := Response{SyncID: 7, More: false, Uploaded: 1}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	key, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	upload := []actionlog.StoredAction{{ID: uuid.New(), Payload: actionlog.DeleteSolve{SolveID: uuid.New()}}}
	req := NewRequest(key, 3, upload)

	client := NewClient(server.URL)
	resp, err := client.Sync(context.Background(), req)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.SyncID != 7 || resp.Uploaded != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotReq.APIVersion != APIVersion || gotReq.SyncKey != key.String() || gotReq.SyncID != 3 {
		t.Fatalf("unexpected request echoed: %+v", gotReq)
	}
	if gotReq.Upload == "" {
		t.Fatalf("expected non-empty upload field")
	}
}

func TestClientSyncReturnsAPIVersionMismatchOn400VersionMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "API version mismatch, please update the client",
		})
	}))
	defer server.Close()

	key, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	client := NewClient(server.URL)
	_, err = client.Sync(context.Background(), NewRequest(key, 0, nil))
	if !errors.Is(err, ErrAPIVersionMismatch) {
		t.Fatalf("expected ErrAPIVersionMismatch, got %v", err)
	}
}

func TestClientSyncReturnsGenericErrorOnOtherBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "sync key is not valid",
		})
	}))
	defer server.Close()

	key, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	client := NewClient(server.URL)
	_, err = client.Sync(context.Background(), NewRequest(key, 0, nil))
	if err == nil || errors.Is(err, ErrAPIVersionMismatch) {
		t.Fatalf("expected a generic error, got %v", err)
	}
}

func TestResponseNewActionsDecodesPayload(t *testing.T) {
	action := actionlog.StoredAction{ID: uuid.New(), Payload: actionlog.DeleteSolve{SolveID: uuid.New()}}
	req := NewRequest(mustKey(t), 0, []actionlog.StoredAction{action})

	// Round-trip the upload field itself as if it were server data, to
	// exercise NewActions against the same wire encoding used for uploads.
	resp := Response{Data: req.Upload}
	actions, err := resp.NewActions()
	if err != nil {
		t.Fatalf("NewActions: %v", err)
	}
	if len(actions) != 1 || actions[0].ID != action.ID {
		t.Fatalf("unexpected decoded actions: %+v", actions)
	}
}

func mustKey(t *testing.T) SyncKey {
	t.Helper()
	k, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return k
}
