// clients.go — сервис управления клиентами.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
)

// ClientService — CRUD клиентов с валидацией.
type ClientService struct {
	repo   repository.ClientRepository
	logger *slog.Logger
}

// NewClientService создаёт сервис клиентов.
func NewClientService(repo repository.ClientRepository, logger *slog.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		logger: logger.With(slog.String("component", "client_service")),
	}
}

// ClientInput — поля клиента, задаваемые пользователем.
type ClientInput struct {
	Name   string
	Email  string
	Bucket string
}

func (in ClientInput) validate() error {
	return firstError(
		required("name", in.Name),
		email("email", in.Email),
		required("bucket", in.Bucket),
	)
}

func (in ClientInput) model() *model.Client {
	return &model.Client{
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Bucket: strings.TrimSpace(in.Bucket),
	}
}

// List возвращает клиентов по фильтрам (AND).
func (s *ClientService) List(ctx context.Context, f model.ClientFilter) ([]*model.Client, error) {
	clients, err := s.repo.List(ctx, f)
	return clients, fromRepo("получение списка клиентов", err)
}

// Get возвращает клиента по id.
func (s *ClientService) Get(ctx context.Context, id int64) (*model.Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("получение клиента", err)
	}
	return c, nil
}

// Create создаёт клиента и возвращает его с назначенным id.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*model.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := in.model()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fromRepo("создание клиента", err)
	}

	s.logger.Info("Клиент создан",
		slog.Int64("client_id", c.ID),
		slog.String("name", c.Name),
	)
	return c, nil
}

// Update перезаписывает поля клиента.
func (s *ClientService) Update(ctx context.Context, id int64, in ClientInput) (*model.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := in.model()
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fromRepo("обновление клиента", err)
	}

	s.logger.Info("Клиент обновлён", slog.Int64("client_id", id))
	return c, nil
}

// Delete удаляет клиента. Пока у клиента есть вендоры или SFTP-учётка — ErrConflict.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo("удаление клиента", err)
	}
	s.logger.Info("Клиент удалён", slog.Int64("client_id", id))
	return nil
}
