package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// AgentRepository — интерфейс CRUD для таблиц agents и agent_clients.
type AgentRepository interface {
	List(ctx context.Context, f model.AgentFilter) ([]*model.Agent, error)
	GetByID(ctx context.Context, id int64) (*model.Agent, error)
	Create(ctx context.Context, a *model.Agent) error
	Update(ctx context.Context, a *model.Agent) error
	// Delete удаляет агента вместе с его связями.
	Delete(ctx context.Context, id int64) error
	// ListClients возвращает клиентов агента. Агента нет — ErrNotFound.
	ListClients(ctx context.Context, agentID int64) ([]*model.Client, error)
	// AddClient связывает агента с клиентом. Повторная связь — не ошибка.
	AddClient(ctx context.Context, agentID, clientID int64) error
}

// agentRepo — реализация AgentRepository.
type agentRepo struct {
	db DBTX
}

// NewAgentRepository создаёт репозиторий агентов.
func NewAgentRepository(db DBTX) AgentRepository {
	return &agentRepo{db: db}
}

const agentColumns = `id, name, email, created_at, updated_at`

func scanAgent(row pgx.Row) (*model.Agent, error) {
	a := &model.Agent{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *agentRepo) List(ctx context.Context, f model.AgentFilter) ([]*model.Agent, error) {
	var flt filter
	if f.Name != nil {
		flt.add("strpos(name, $%d) > 0", *f.Name)
	}

	query := fmt.Sprintf(`SELECT %s FROM agents %s ORDER BY id`, agentColumns, flt.where())

	rows, err := r.db.Query(ctx, query, flt.args...)
	if err != nil {
		return nil, dbError("ошибка получения списка агентов", err)
	}
	defer rows.Close()

	result := make([]*model.Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, dbError("ошибка сканирования агента", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("ошибка чтения агентов", err)
	}
	return result, nil
}

func (r *agentRepo) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)
	a, err := scanAgent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: агент %d", ErrNotFound, id)
		}
		return nil, dbError("ошибка получения агента", err)
	}
	return a, nil
}

func (r *agentRepo) Create(ctx context.Context, a *model.Agent) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO agents (name, email) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		a.Name, a.Email,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return dbError("ошибка создания агента", err)
	}
	return nil
}

func (r *agentRepo) Update(ctx context.Context, a *model.Agent) error {
	err := r.db.QueryRow(ctx, `
		UPDATE agents SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		a.ID, a.Name, a.Email,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: агент %d", ErrNotFound, a.ID)
		}
		return dbError("ошибка обновления агента", err)
	}
	return nil
}

func (r *agentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return dbError("ошибка удаления агента", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: агент %d", ErrNotFound, id)
	}
	return nil
}

func (r *agentRepo) ListClients(ctx context.Context, agentID int64) ([]*model.Client, error) {
	ok, err := exists(ctx, r.db, "agents", agentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: агент %d", ErrNotFound, agentID)
	}

	query := `
		SELECT c.id, c.name, c.email, c.bucket, c.created_at, c.updated_at
		FROM clients c
		JOIN agent_clients ac ON ac.client_id = c.id
		WHERE ac.agent_id = $1
		ORDER BY c.id`
	return queryClients(ctx, r.db, query, agentID)
}

func (r *agentRepo) AddClient(ctx context.Context, agentID, clientID int64) error {
	ok, err := exists(ctx, r.db, "agents", agentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: агент %d", ErrNotFound, agentID)
	}
	ok, err = exists(ctx, r.db, "clients", clientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO agent_clients (agent_id, client_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, agentID, clientID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: агент %d или клиент %d", ErrNotFound, agentID, clientID)
		}
		return dbError("ошибка связывания агента с клиентом", err)
	}
	return nil
}
