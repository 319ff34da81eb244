// vendors.go — сервис управления вендорами клиента.
// Пароль, SSH-ключ и пароль к ключу шифруются до записи в БД.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
	"github.com/nicflores/user-manager-api/internal/secrets"
)

// VendorService — CRUD вендоров.
type VendorService struct {
	repo   repository.VendorRepository
	sealer *secrets.Sealer
	logger *slog.Logger
}

// NewVendorService создаёт сервис вендоров.
func NewVendorService(repo repository.VendorRepository, sealer *secrets.Sealer, logger *slog.Logger) *VendorService {
	return &VendorService{
		repo:   repo,
		sealer: sealer,
		logger: logger.With(slog.String("component", "vendor_service")),
	}
}

// VendorInput — параметры подключения к вендору в открытом виде.
type VendorInput struct {
	Name           string
	Host           string
	Port           int
	Username       *string
	Password       *string
	SSHKey         *string
	SSHKeyPassword *string
}

func (in VendorInput) validate() error {
	if err := firstError(required("name", in.Name), required("host", in.Host)); err != nil {
		return err
	}
	if in.Port < 1 || in.Port > 65535 {
		return validationError("поле port: значение %d вне диапазона 1-65535", in.Port)
	}
	if in.SSHKeyPassword != nil && in.SSHKey == nil {
		return validationError("ssh_key_password задан без ssh_key")
	}
	if in.SSHKey != nil {
		return validateVendorKey(*in.SSHKey, in.SSHKeyPassword)
	}
	return nil
}

// validateVendorKey проверяет, что SSH-ключ вендора разбирается (с паролем, если он задан).
func validateVendorKey(key string, passphrase *string) error {
	var err error
	if passphrase != nil {
		_, err = ssh.ParsePrivateKeyWithPassphrase([]byte(key), []byte(*passphrase))
	} else {
		_, err = ssh.ParsePrivateKey([]byte(key))
	}
	if err == nil {
		return nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		return validationError("ssh_key зашифрован, требуется ssh_key_password")
	}
	return validationError("ssh_key: ключ не разбирается")
}

// seal шифрует секреты и возвращает модель для репозитория.
func (s *VendorService) seal(in VendorInput) (*model.Vendor, error) {
	v := &model.Vendor{
		Name:     strings.TrimSpace(in.Name),
		Host:     strings.TrimSpace(in.Host),
		Port:     in.Port,
		Username: in.Username,
	}

	var err error
	if v.Password, err = s.sealer.SealPtr(in.Password); err != nil {
		return nil, err
	}
	if v.SSHKey, err = s.sealer.SealPtr(in.SSHKey); err != nil {
		return nil, err
	}
	if v.SSHKeyPassword, err = s.sealer.SealPtr(in.SSHKeyPassword); err != nil {
		return nil, err
	}
	return v, nil
}

// List возвращает вендоров (без секретов) по фильтрам.
func (s *VendorService) List(ctx context.Context, f model.VendorFilter) ([]*model.VendorOverview, error) {
	vendors, err := s.repo.List(ctx, f)
	return vendors, fromRepo("получение списка вендоров", err)
}

// Get возвращает вендора по id.
func (s *VendorService) Get(ctx context.Context, id int64) (*model.VendorOverview, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("получение вендора", err)
	}
	return v, nil
}

// Add создаёт вендора клиента. Клиента нет — ErrNotFound, запись не выполняется.
func (s *VendorService) Add(ctx context.Context, clientID int64, in VendorInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	v, err := s.seal(in)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Create(ctx, clientID, v); err != nil {
		return 0, fromRepo("создание вендора", err)
	}

	s.logger.Info("Вендор добавлен",
		slog.Int64("client_id", clientID),
		slog.Int64("vendor_id", v.ID),
		slog.String("host", v.Host),
	)
	return v.ID, nil
}

// Update перезаписывает параметры вендора vendorID клиента clientID.
func (s *VendorService) Update(ctx context.Context, clientID, vendorID int64, in VendorInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	v, err := s.seal(in)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, clientID, vendorID, v); err != nil {
		return fromRepo("обновление вендора", err)
	}

	s.logger.Info("Вендор обновлён",
		slog.Int64("client_id", clientID),
		slog.Int64("vendor_id", vendorID),
	)
	return nil
}

// Delete удаляет вендора.
func (s *VendorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo("удаление вендора", err)
	}
	s.logger.Info("Вендор удалён", slog.Int64("vendor_id", id))
	return nil
}
