// provisioning.go — выдача SFTP-учёток и ротация ключей.
//
// Жизненный цикл учётки клиента:
//
//	нет учётки --Provision--> активна (key_version=1) --RotateKeys--> активна (key_version=n+1)
//
// Приватный ключ в открытом виде возвращается только из Provision и RotateKeys
// и никогда не пишется в лог. В БД он хранится зашифрованным.
// Ротация необратима: предыдущий приватный ключ перезаписывается.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
	"github.com/nicflores/user-manager-api/internal/secrets"
	"github.com/nicflores/user-manager-api/internal/sshkey"
)

// ProvisioningService — SFTP-учётки клиентов.
type ProvisioningService struct {
	clients repository.ClientRepository
	sftp    repository.SFTPRepository
	keys    sshkey.KeyGenerator
	sealer  *secrets.Sealer
	logger  *slog.Logger
}

// NewProvisioningService создаёт сервис выдачи SFTP-учёток.
func NewProvisioningService(
	clients repository.ClientRepository,
	sftp repository.SFTPRepository,
	keys sshkey.KeyGenerator,
	sealer *secrets.Sealer,
	logger *slog.Logger,
) *ProvisioningService {
	return &ProvisioningService{
		clients: clients,
		sftp:    sftp,
		keys:    keys,
		sealer:  sealer,
		logger:  logger.With(slog.String("component", "provisioning")),
	}
}

// ProvisionRequest — параметры новой SFTP-учётки.
type ProvisionRequest struct {
	Username   string
	BucketName string
	RoleARN    string
}

// normalized убирает пробелы по краям полей.
func (r ProvisionRequest) normalized() ProvisionRequest {
	return ProvisionRequest{
		Username:   strings.TrimSpace(r.Username),
		BucketName: strings.TrimSpace(r.BucketName),
		RoleARN:    strings.TrimSpace(r.RoleARN),
	}
}

func (r ProvisionRequest) validate() error {
	if err := firstError(
		required("username", r.Username),
		required("bucket_name", r.BucketName),
		required("role_arn", r.RoleARN),
	); err != nil {
		return err
	}
	if strings.ContainsAny(r.Username, " \t\r\n") {
		return validationError("поле username не может содержать пробелы")
	}
	return validateRoleARN(r.RoleARN)
}

// validateRoleARN проверяет формат ARN роли: arn:<partition>:iam::<account>:role/<name>.
func validateRoleARN(arn string) error {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "iam" || !strings.HasPrefix(parts[5], "role/") {
		return validationError("поле role_arn: ожидается arn:<partition>:iam::<account>:role/<name>")
	}
	return nil
}

// ProvisionedCredential — результат выдачи. Содержит приватный ключ.
type ProvisionedCredential struct {
	ID          int64
	ClientID    int64
	Username    string
	BucketName  string
	RoleARN     string
	PrivateKey  string
	PublicKey   string
	Fingerprint string
	KeyVersion  int
}

// RotatedKeys — результат ротации. Содержит приватный ключ.
type RotatedKeys struct {
	ClientID    int64
	PrivateKey  string
	PublicKey   string
	Fingerprint string
	KeyVersion  int
	RotatedAt   time.Time
}

// Provision создаёт SFTP-учётку клиента с новой ключевой парой.
// Клиента нет — ErrNotFound, ключ не генерируется и ничего не пишется.
// У клиента уже есть учётка — ErrConflict, ключ тоже не генерируется.
func (s *ProvisioningService) Provision(ctx context.Context, clientID int64, req ProvisionRequest) (*ProvisionedCredential, error) {
	req = req.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}
	existing, err := s.clientCredential(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: у клиента %d уже есть SFTP-учётка (id %d)", ErrConflict, clientID, existing.ID)
	}

	pair, fingerprint, sealed, err := s.newKeys(ctx)
	if err != nil {
		return nil, err
	}

	cred := &model.SFTPCredential{
		Username:    req.Username,
		PrivateKey:  sealed,
		PublicKey:   pair.PublicKey,
		Fingerprint: fingerprint,
		BucketName:  req.BucketName,
		RoleARN:     req.RoleARN,
	}
	if err := s.sftp.Create(ctx, clientID, cred); err != nil {
		return nil, fromRepo("создание SFTP-учётки", err)
	}

	sftpProvisionedTotal.Inc()
	s.logger.Info("SFTP-учётка выдана",
		slog.Int64("client_id", clientID),
		slog.Int64("sftp_id", cred.ID),
		slog.String("username", cred.Username),
		slog.String("fingerprint", fingerprint),
	)

	return &ProvisionedCredential{
		ID:          cred.ID,
		ClientID:    clientID,
		Username:    cred.Username,
		BucketName:  cred.BucketName,
		RoleARN:     cred.RoleARN,
		PrivateKey:  pair.PrivateKey,
		PublicKey:   pair.PublicKey,
		Fingerprint: fingerprint,
		KeyVersion:  cred.KeyVersion,
	}, nil
}

// RotateKeys заменяет ключевую пару учётки клиента.
// Клиента нет или у клиента нет учётки — ErrNotFound; новая строка не создаётся.
func (s *ProvisioningService) RotateKeys(ctx context.Context, clientID int64) (*RotatedKeys, error) {
	if err := s.requireClient(ctx, clientID); err != nil {
		sftpRotationsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	existing, err := s.clientCredential(ctx, clientID)
	if err != nil {
		sftpRotationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing == nil {
		sftpRotationsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: у клиента %d нет SFTP-учётки", ErrNotFound, clientID)
	}

	pair, fingerprint, sealed, err := s.newKeys(ctx)
	if err != nil {
		sftpRotationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	overview, err := s.sftp.RotateKeys(ctx, clientID, model.SFTPKeys{
		PrivateKey:  sealed,
		PublicKey:   pair.PublicKey,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sftpRotationsTotal.WithLabelValues("not_found").Inc()
		} else {
			sftpRotationsTotal.WithLabelValues("error").Inc()
		}
		return nil, fromRepo("ротация ключей", err)
	}

	sftpRotationsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Ключи SFTP ротированы",
		slog.Int64("client_id", clientID),
		slog.Int64("sftp_id", overview.ID),
		slog.Int("key_version", overview.KeyVersion),
		slog.String("fingerprint", fingerprint),
	)

	rotatedAt := overview.UpdatedAt
	if overview.RotatedAt != nil {
		rotatedAt = *overview.RotatedAt
	}
	return &RotatedKeys{
		ClientID:    clientID,
		PrivateKey:  pair.PrivateKey,
		PublicKey:   pair.PublicKey,
		Fingerprint: fingerprint,
		KeyVersion:  overview.KeyVersion,
		RotatedAt:   rotatedAt,
	}, nil
}

// List возвращает учётки без ключевого материала.
func (s *ProvisioningService) List(ctx context.Context, f model.SFTPFilter) ([]*model.SFTPOverview, error) {
	list, err := s.sftp.List(ctx, f)
	return list, fromRepo("получение списка SFTP-учёток", err)
}

// Get возвращает учётку без ключевого материала.
func (s *ProvisioningService) Get(ctx context.Context, id int64) (*model.SFTPOverview, error) {
	o, err := s.sftp.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("получение SFTP-учётки", err)
	}
	return o, nil
}

// Update меняет только заданные поля учётки (атомарно).
// Поля нормализуются так же, как в Provision.
func (s *ProvisioningService) Update(ctx context.Context, id int64, upd model.SFTPUpdate) (*model.SFTPOverview, error) {
	upd.Username = trimPtr(upd.Username)
	upd.BucketName = trimPtr(upd.BucketName)
	upd.RoleARN = trimPtr(upd.RoleARN)

	if upd.Username != nil {
		if err := required("username", *upd.Username); err != nil {
			return nil, err
		}
		if strings.ContainsAny(*upd.Username, " \t\r\n") {
			return nil, validationError("поле username не может содержать пробелы")
		}
	}
	if upd.BucketName != nil {
		if err := required("bucket_name", *upd.BucketName); err != nil {
			return nil, err
		}
	}
	if upd.RoleARN != nil {
		if err := validateRoleARN(*upd.RoleARN); err != nil {
			return nil, err
		}
	}

	if err := s.sftp.Update(ctx, id, upd); err != nil {
		return nil, fromRepo("обновление SFTP-учётки", err)
	}
	s.logger.Info("SFTP-учётка обновлена", slog.Int64("sftp_id", id))

	return s.Get(ctx, id)
}

// Delete удаляет учётку.
func (s *ProvisioningService) Delete(ctx context.Context, id int64) error {
	if err := s.sftp.Delete(ctx, id); err != nil {
		return fromRepo("удаление SFTP-учётки", err)
	}
	s.logger.Info("SFTP-учётка удалена", slog.Int64("sftp_id", id))
	return nil
}

// requireClient возвращает ErrNotFound, если клиента нет.
func (s *ProvisioningService) requireClient(ctx context.Context, clientID int64) error {
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return fromRepo("проверка клиента", err)
	}
	if !ok {
		return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
	}
	return nil
}

// clientCredential возвращает учётку клиента или nil, если её нет.
func (s *ProvisioningService) clientCredential(ctx context.Context, clientID int64) (*model.SFTPOverview, error) {
	o, err := s.sftp.GetByClientID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fromRepo("поиск SFTP-учётки клиента", err)
	}
	return o, nil
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// newKeys генерирует пару, считает отпечаток и шифрует приватный ключ.
func (s *ProvisioningService) newKeys(ctx context.Context) (pair *sshkey.KeyPair, fingerprint, sealed string, err error) {
	pair, err = s.keys.Generate(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", "", fmt.Errorf("генерация ключей прервана: %w", ctxErr)
		}
		s.logger.Error("Ошибка генерации ключей", slog.String("error", err.Error()))
		return nil, "", "", fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	fingerprint, err = sshkey.Fingerprint(pair.PublicKey)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	sealed, err = s.sealer.Seal(pair.PrivateKey)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: шифрование приватного ключа: %w", ErrKeyGeneration, err)
	}
	return pair, fingerprint, sealed, nil
}
