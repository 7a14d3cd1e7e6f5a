package services

import (
	"context"
	"errors"
	"testing"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven/mocks"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

func newConnectionFixture() (*mocks.MockConnectionStore, *mocks.MockSecretCipher, *mocks.MockERPClientFactory, *mocks.MockERPClient) {
	store := mocks.NewMockConnectionStore()
	cipher := mocks.NewMockSecretCipher()
	factory := mocks.NewMockERPClientFactory()
	erp := mocks.NewMockERPClient()
	factory.SetClient(erp)
	return store, cipher, factory, erp
}

func TestConnectionCreateEncryptsKey(t *testing.T) {
	store, cipher, factory, _ := newConnectionFixture()
	svc := NewConnectionService(store, cipher, factory)

	conn, err := svc.Create(context.Background(), "admin-1", createConnectionRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if conn.ID == "" || !conn.Enabled || conn.CreatedBy != "admin-1" {
		t.Errorf("connection = %+v", conn)
	}
	if string(conn.APIKeyBlob) == "secret-key" {
		t.Error("api key stored in plaintext")
	}
	if cipher.DecryptString(conn.APIKeyBlob) != "secret-key" {
		t.Error("blob does not decrypt back to the api key")
	}

	stored, err := store.Get(context.Background(), conn.ID)
	if err != nil {
		t.Fatalf("connection not persisted: %v", err)
	}
	if stored.Name != "quito" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestConnectionCreateDuplicateName(t *testing.T) {
	store, cipher, factory, _ := newConnectionFixture()
	svc := NewConnectionService(store, cipher, factory)

	if _, err := svc.Create(context.Background(), "admin-1", createConnectionRequest()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(context.Background(), "admin-1", createConnectionRequest())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestConnectionCreateMissingFields(t *testing.T) {
	store, cipher, factory, _ := newConnectionFixture()
	svc := NewConnectionService(store, cipher, factory)

	req := createConnectionRequest()
	req.APIKey = ""
	_, err := svc.Create(context.Background(), "admin-1", req)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestConnectionUpdateReencryptsKey(t *testing.T) {
	store, cipher, factory, _ := newConnectionFixture()
	svc := NewConnectionService(store, cipher, factory)

	conn, err := svc.Create(context.Background(), "admin-1", createConnectionRequest())
	if err != nil {
		t.Fatal(err)
	}

	newKey := "rotated-key"
	updated, err := svc.Update(context.Background(), conn.ID, updateConnectionRequest(&newKey))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cipher.DecryptString(updated.APIKeyBlob) != "rotated-key" {
		t.Error("api key was not re-encrypted")
	}
}

func TestConnectionTest(t *testing.T) {
	store, cipher, factory, erp := newConnectionFixture()
	erp.AuthenticateFn = func(ctx context.Context) (int64, error) { return 9, nil }
	erp.SearchReadFn = func(ctx context.Context, uid int64, model string, filter []any, fields []string) ([]map[string]any, error) {
		if model != "res.company" {
			t.Errorf("model = %q, want res.company", model)
		}
		return []map[string]any{
			{"id": int64(1), "name": "Andina Quito"},
			{"id": int64(2), "name": "Andina Guayaquil"},
		}, nil
	}
	svc := NewConnectionService(store, cipher, factory)

	result, err := svc.Test(context.Background(), domain.ConnectionParams{
		BaseURL:  "https://erp.example.com",
		Database: "prod",
		Username: "sync@andina.ec",
		APIKey:   "k",
	})
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if result.UserID != 9 || len(result.Companies) != 2 {
		t.Errorf("result = %+v", result)
	}
	if result.Companies[0].Name != "Andina Quito" {
		t.Errorf("companies = %+v", result.Companies)
	}
}

func TestConnectionTestBadCredentials(t *testing.T) {
	store, cipher, factory, erp := newConnectionFixture()
	erp.AuthenticateFn = func(ctx context.Context) (int64, error) {
		return 0, domain.ErrAuthenticationFailed
	}
	svc := NewConnectionService(store, cipher, factory)

	_, err := svc.Test(context.Background(), domain.ConnectionParams{
		BaseURL:  "https://erp.example.com",
		Database: "prod",
		Username: "sync@andina.ec",
		APIKey:   "wrong",
	})
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Errorf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestConnectionTestStored(t *testing.T) {
	store, cipher, factory, erp := newConnectionFixture()
	erp.AuthenticateFn = func(ctx context.Context) (int64, error) { return 3, nil }
	svc := NewConnectionService(store, cipher, factory)

	conn, err := svc.Create(context.Background(), "admin-1", createConnectionRequest())
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.TestStored(context.Background(), conn.ID)
	if err != nil {
		t.Fatalf("TestStored: %v", err)
	}
	if result.UserID != 3 {
		t.Errorf("uid = %d", result.UserID)
	}
	// The factory must have received the decrypted key, not the blob.
	last := factory.Params[len(factory.Params)-1]
	if last.APIKey != "secret-key" {
		t.Errorf("factory received key %q", last.APIKey)
	}
}

func createConnectionRequest() driving.CreateConnectionRequest {
	return driving.CreateConnectionRequest{
		Name:     "quito",
		BaseURL:  "https://erp.example.com",
		Database: "prod",
		Username: "sync@andina.ec",
		APIKey:   "secret-key",
	}
}

func updateConnectionRequest(apiKey *string) driving.UpdateConnectionRequest {
	return driving.UpdateConnectionRequest{APIKey: apiKey}
}
