package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// ClientRepository — интерфейс CRUD для таблицы clients.
type ClientRepository interface {
	// List возвращает клиентов, подходящих под все заданные фильтры.
	List(ctx context.Context, f model.ClientFilter) ([]*model.Client, error)
	// GetByID возвращает клиента по id.
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	// Exists проверяет существование клиента.
	Exists(ctx context.Context, id int64) (bool, error)
	// Create создаёт клиента; ID, CreatedAt и UpdatedAt заполняются из БД.
	Create(ctx context.Context, c *model.Client) error
	// Update обновляет name, email, bucket клиента c.ID.
	Update(ctx context.Context, c *model.Client) error
	// Delete удаляет клиента. Связи с агентами удаляются каскадом,
	// наличие вендоров или SFTP-учётки — ErrConflict.
	Delete(ctx context.Context, id int64) error
}

// clientRepo — реализация ClientRepository.
type clientRepo struct {
	db DBTX
}

// NewClientRepository создаёт репозиторий клиентов.
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, name, email, bucket, created_at, updated_at`

// scanClient сканирует строку результата в модель Client.
func scanClient(row pgx.Row) (*model.Client, error) {
	c := &model.Client{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Bucket, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *clientRepo) List(ctx context.Context, f model.ClientFilter) ([]*model.Client, error) {
	var flt filter
	if f.Name != nil {
		flt.add("strpos(name, $%d) > 0", *f.Name)
	}
	if f.Email != nil {
		flt.add("strpos(email, $%d) > 0", *f.Email)
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY id`, clientColumns, flt.where())
	return queryClients(ctx, r.db, query, flt.args...)
}

// queryClients выполняет запрос, возвращающий clientColumns.
func queryClients(ctx context.Context, db DBTX, query string, args ...any) ([]*model.Client, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("ошибка получения списка клиентов", err)
	}
	defer rows.Close()

	result := make([]*model.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, dbError("ошибка сканирования клиента", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("ошибка чтения клиентов", err)
	}
	return result, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	c, err := scanClient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: клиент %d", ErrNotFound, id)
		}
		return nil, dbError("ошибка получения клиента", err)
	}
	return c, nil
}

func (r *clientRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "clients", id)
}

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	query := `
		INSERT INTO clients (name, email, bucket)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, c.Name, c.Email, c.Bucket).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return dbError("ошибка создания клиента", err)
	}
	return nil
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, bucket = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.Bucket).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: клиент %d", ErrNotFound, c.ID)
		}
		return dbError("ошибка обновления клиента", err)
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: у клиента %d есть вендоры или SFTP-учётка", ErrConflict, id)
		}
		return dbError("ошибка удаления клиента", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: клиент %d", ErrNotFound, id)
	}
	return nil
}
