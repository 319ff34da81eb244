// agents.go — сервис управления агентами и их связями с клиентами.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
)

// AgentService — CRUD агентов.
type AgentService struct {
	repo   repository.AgentRepository
	logger *slog.Logger
}

// NewAgentService создаёт сервис агентов.
func NewAgentService(repo repository.AgentRepository, logger *slog.Logger) *AgentService {
	return &AgentService{
		repo:   repo,
		logger: logger.With(slog.String("component", "agent_service")),
	}
}

// AgentInput — поля агента.
type AgentInput struct {
	Name  string
	Email string
}

func (in AgentInput) validate() error {
	return firstError(required("name", in.Name), email("email", in.Email))
}

func (s *AgentService) List(ctx context.Context, f model.AgentFilter) ([]*model.Agent, error) {
	agents, err := s.repo.List(ctx, f)
	return agents, fromRepo("получение списка агентов", err)
}

func (s *AgentService) Get(ctx context.Context, id int64) (*model.Agent, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("получение агента", err)
	}
	return a, nil
}

func (s *AgentService) Create(ctx context.Context, in AgentInput) (*model.Agent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &model.Agent{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fromRepo("создание агента", err)
	}
	s.logger.Info("Агент создан", slog.Int64("agent_id", a.ID))
	return a, nil
}

func (s *AgentService) Update(ctx context.Context, id int64, in AgentInput) (*model.Agent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &model.Agent{ID: id, Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fromRepo("обновление агента", err)
	}
	s.logger.Info("Агент обновлён", slog.Int64("agent_id", id))
	return a, nil
}

func (s *AgentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo("удаление агента", err)
	}
	s.logger.Info("Агент удалён", slog.Int64("agent_id", id))
	return nil
}

// Clients возвращает клиентов агента.
func (s *AgentService) Clients(ctx context.Context, agentID int64) ([]*model.Client, error) {
	clients, err := s.repo.ListClients(ctx, agentID)
	if err != nil {
		return nil, fromRepo("получение клиентов агента", err)
	}
	return clients, nil
}

// AssignClient закрепляет клиента за агентом.
func (s *AgentService) AssignClient(ctx context.Context, agentID, clientID int64) error {
	if err := s.repo.AddClient(ctx, agentID, clientID); err != nil {
		return fromRepo("закрепление клиента за агентом", err)
	}
	s.logger.Info("Клиент закреплён за агентом",
		slog.Int64("agent_id", agentID),
		slog.Int64("client_id", clientID),
	)
	return nil
}
