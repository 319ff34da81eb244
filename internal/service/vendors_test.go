package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// testVendorKey возвращает приватный ключ вендора в формате OpenSSH.
func testVendorKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "vendor")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "vendor", []byte(passphrase))
	}
	if err != nil {
		t.Fatalf("MarshalPrivateKey: %v", err)
	}
	return string(pem.EncodeToMemory(block))
}

func TestVendorAdd_MissingClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vendors.Add(context.Background(), 999, VendorInput{Name: "v", Host: "sftp.example.com", Port: 22})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
	if len(env.store.vendors) != 0 {
		t.Error("вендор создан для несуществующего клиента")
	}
}

func TestVendorAdd_SecretsSealed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := createTestClient(t, env, "Vend")
	key := testVendorKey(t, "")

	id, err := env.vendors.Add(ctx, c.ID, VendorInput{
		Name:     "Globex",
		Host:     "sftp.globex.example",
		Port:     2222,
		Username: strPtr("acme"),
		Password: strPtr("hunter2"),
		SSHKey:   &key,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	row := env.store.vendors[id]
	if row.Password == nil || *row.Password == "hunter2" {
		t.Fatal("пароль хранится в открытом виде")
	}
	if pw := env.open(t, *row.Password); pw != "hunter2" {
		t.Errorf("расшифрованный пароль = %q", pw)
	}
	if row.SSHKey == nil || *row.SSHKey == key {
		t.Fatal("SSH-ключ хранится в открытом виде")
	}
	if row.SSHKeyPassword != nil {
		t.Error("пароль к ключу не задавался")
	}

	got, err := env.vendors.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.HasPassword || !got.HasSSHKey || got.Port != 2222 {
		t.Errorf("overview = %+v", got)
	}
}

func TestVendorAdd_EncryptedKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := createTestClient(t, env, "EncKey")
	key := testVendorKey(t, "s3cret")

	_, err := env.vendors.Add(ctx, c.ID, VendorInput{Name: "v", Host: "h", Port: 22, SSHKey: &key})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("ключ без пароля: ожидалась ErrValidation, получено: %v", err)
	}

	_, err = env.vendors.Add(ctx, c.ID, VendorInput{Name: "v", Host: "h", Port: 22, SSHKey: &key, SSHKeyPassword: strPtr("wrong")})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("неверный пароль: ожидалась ErrValidation, получено: %v", err)
	}

	if _, err := env.vendors.Add(ctx, c.ID, VendorInput{Name: "v", Host: "h", Port: 22, SSHKey: &key, SSHKeyPassword: strPtr("s3cret")}); err != nil {
		t.Errorf("верный пароль: %v", err)
	}
}

func TestVendorInput_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   VendorInput
	}{
		{"без имени", VendorInput{Host: "h", Port: 22}},
		{"без хоста", VendorInput{Name: "v", Port: 22}},
		{"порт 0", VendorInput{Name: "v", Host: "h", Port: 0}},
		{"порт 70000", VendorInput{Name: "v", Host: "h", Port: 70000}},
		{"пароль ключа без ключа", VendorInput{Name: "v", Host: "h", Port: 22, SSHKeyPassword: strPtr("x")}},
		{"мусор вместо ключа", VendorInput{Name: "v", Host: "h", Port: 22, SSHKey: strPtr("not a key")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("ожидалась ErrValidation, получено: %v", err)
			}
		})
	}
}

func TestVendorUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := createTestClient(t, env, "Owner")
	other := createTestClient(t, env, "Other")

	id, err := env.vendors.Add(ctx, owner.ID, VendorInput{Name: "v1", Host: "h1", Port: 22, Password: strPtr("p")})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Полная замена: пароль не передан — пароль снимается.
	if err := env.vendors.Update(ctx, owner.ID, id, VendorInput{Name: "v2", Host: "h2", Port: 2022}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := env.vendors.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "v2" || got.Host != "h2" || got.Port != 2022 || got.HasPassword {
		t.Errorf("после обновления: %+v", got)
	}

	err = env.vendors.Update(ctx, other.ID, id, VendorInput{Name: "x", Host: "x", Port: 22})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("чужой клиент: ожидалась ErrNotFound, получено: %v", err)
	}
}

func TestVendorListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := createTestClient(t, env, "VA")
	b := createTestClient(t, env, "VB")

	idA, err := env.vendors.Add(ctx, a.ID, VendorInput{Name: "alpha", Host: "h", Port: 22})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := env.vendors.Add(ctx, b.ID, VendorInput{Name: "beta", Host: "h", Port: 22}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	list, err := env.vendors.List(ctx, model.VendorFilter{ClientID: &a.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != idA {
		t.Errorf("фильтр по клиенту: %+v", list)
	}
	list, err = env.vendors.List(ctx, model.VendorFilter{Name: strPtr("et")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "beta" {
		t.Errorf("фильтр по имени: %+v", list)
	}

	if err := env.vendors.Delete(ctx, idA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := env.vendors.Delete(ctx, idA); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторное удаление: %v", err)
	}
}
