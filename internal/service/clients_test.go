package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
)

func TestClientCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   ClientInput
	}{
		{"без имени", ClientInput{Email: "a@example.com", Bucket: "b"}},
		{"только пробелы", ClientInput{Name: "   ", Email: "a@example.com", Bucket: "b"}},
		{"без email", ClientInput{Name: "a", Bucket: "b"}},
		{"плохой email", ClientInput{Name: "a", Email: "not-an-email", Bucket: "b"}},
		{"без bucket", ClientInput{Name: "a", Email: "a@example.com"}},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.clients.Create(context.Background(), tt.in); !errors.Is(err, ErrValidation) {
				t.Errorf("ожидалась ErrValidation, получено: %v", err)
			}
		})
	}
	if env.writes() != 0 {
		t.Errorf("writes = %d, ожидалось 0", env.writes())
	}
}

func TestClientCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, err := env.clients.Create(ctx, ClientInput{Name: " Acme ", Email: "ops@acme.example", Bucket: "acme"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == 0 || c.Name != "Acme" {
		t.Errorf("Create = %+v", c)
	}

	updated, err := env.clients.Update(ctx, c.ID, ClientInput{Name: "Acme Corp", Email: "ops@acme.example", Bucket: "acme-2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Bucket != "acme-2" {
		t.Errorf("Bucket = %q", updated.Bucket)
	}

	if _, err := env.clients.Update(ctx, 999, ClientInput{Name: "x", Email: "x@example.com", Bucket: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(999): %v", err)
	}

	list, err := env.clients.List(ctx, model.ClientFilter{Name: strPtr("Corp")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d", len(list))
	}

	if err := env.clients.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.clients.Get(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get после удаления: %v", err)
	}
}

func TestClientDelete_WithDependents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := createTestClient(t, env, "Busy")

	if _, err := env.vendors.Add(ctx, c.ID, VendorInput{Name: "v", Host: "h", Port: 22}); err != nil {
		t.Fatalf("Add vendor: %v", err)
	}
	if err := env.clients.Delete(ctx, c.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("ожидалась ErrConflict, получено: %v", err)
	}
	if _, err := env.clients.Get(ctx, c.ID); err != nil {
		t.Errorf("клиент удалён несмотря на конфликт: %v", err)
	}
}

func TestFromRepo(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantMsg string
	}{
		{"nil", nil, nil, ""},
		{"not found", fmt.Errorf("%w: клиент 5", repository.ErrNotFound), ErrNotFound, "ресурс не найден: клиент 5"},
		{"conflict", fmt.Errorf("%w: дубликат", repository.ErrConflict), ErrConflict, "конфликт: дубликат"},
		{"cancel", context.Canceled, context.Canceled, "op: context canceled"},
		{"database", errors.New("connection reset"), ErrDatabase, "ошибка базы данных: op: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromRepo("op", tt.err)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ожидался nil, получено: %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", got, tt.want)
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, ожидалось %q", got.Error(), tt.wantMsg)
			}
		})
	}
}
