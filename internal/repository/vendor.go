package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// VendorRepository — интерфейс CRUD для таблицы vendors.
// Чтение возвращает VendorOverview: секреты вендора наружу не отдаются.
type VendorRepository interface {
	// List возвращает вендоров, подходящих под все заданные фильтры.
	List(ctx context.Context, f model.VendorFilter) ([]*model.VendorOverview, error)
	// GetByID возвращает вендора по id.
	GetByID(ctx context.Context, id int64) (*model.VendorOverview, error)
	// Create проверяет существование клиента и создаёт вендора.
	// Клиента нет — ErrNotFound, запись не выполняется.
	Create(ctx context.Context, clientID int64, v *model.Vendor) error
	// Update перезаписывает поля вендора vendorID клиента clientID.
	// Нет такого вендора у этого клиента — ErrNotFound.
	Update(ctx context.Context, clientID, vendorID int64, v *model.Vendor) error
	// Delete удаляет вендора.
	Delete(ctx context.Context, id int64) error
}

// vendorRepo — реализация VendorRepository.
type vendorRepo struct {
	db DBTX
}

// NewVendorRepository создаёт репозиторий вендоров.
func NewVendorRepository(db DBTX) VendorRepository {
	return &vendorRepo{db: db}
}

const vendorOverviewColumns = `id, client_id, name, host, port, username,
	password IS NOT NULL, ssh_key IS NOT NULL, created_at, updated_at`

// scanVendorOverview сканирует строку результата в VendorOverview.
func scanVendorOverview(row pgx.Row) (*model.VendorOverview, error) {
	v := &model.VendorOverview{}
	err := row.Scan(
		&v.ID, &v.ClientID, &v.Name, &v.Host, &v.Port, &v.Username,
		&v.HasPassword, &v.HasSSHKey, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (r *vendorRepo) List(ctx context.Context, f model.VendorFilter) ([]*model.VendorOverview, error) {
	var flt filter
	if f.ClientID != nil {
		flt.add("client_id = $%d", *f.ClientID)
	}
	if f.Name != nil {
		flt.add("strpos(name, $%d) > 0", *f.Name)
	}

	query := fmt.Sprintf(`SELECT %s FROM vendors %s ORDER BY id`, vendorOverviewColumns, flt.where())

	rows, err := r.db.Query(ctx, query, flt.args...)
	if err != nil {
		return nil, dbError("ошибка получения списка вендоров", err)
	}
	defer rows.Close()

	result := make([]*model.VendorOverview, 0)
	for rows.Next() {
		v, err := scanVendorOverview(rows)
		if err != nil {
			return nil, dbError("ошибка сканирования вендора", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("ошибка чтения вендоров", err)
	}
	return result, nil
}

func (r *vendorRepo) GetByID(ctx context.Context, id int64) (*model.VendorOverview, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE id = $1`, vendorOverviewColumns)
	v, err := scanVendorOverview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: вендор %d", ErrNotFound, id)
		}
		return nil, dbError("ошибка получения вендора", err)
	}
	return v, nil
}

func (r *vendorRepo) Create(ctx context.Context, clientID int64, v *model.Vendor) error {
	ok, err := exists(ctx, r.db, "clients", clientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
	}

	query := `
		INSERT INTO vendors (client_id, name, host, port, username, password, ssh_key, ssh_key_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		clientID, v.Name, v.Host, v.Port, v.Username, v.Password, v.SSHKey, v.SSHKeyPassword,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		// Клиент удалён между проверкой и вставкой.
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
		}
		return dbError("ошибка создания вендора", err)
	}
	v.ClientID = clientID
	return nil
}

func (r *vendorRepo) Update(ctx context.Context, clientID, vendorID int64, v *model.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $3, host = $4, port = $5, username = $6, password = $7,
			ssh_key = $8, ssh_key_password = $9, updated_at = NOW()
		WHERE id = $1 AND client_id = $2
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		vendorID, clientID, v.Name, v.Host, v.Port, v.Username, v.Password, v.SSHKey, v.SSHKeyPassword,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: вендор %d клиента %d", ErrNotFound, vendorID, clientID)
		}
		return dbError("ошибка обновления вендора", err)
	}
	v.ID = vendorID
	v.ClientID = clientID
	return nil
}

func (r *vendorRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return dbError("ошибка удаления вендора", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: вендор %d", ErrNotFound, id)
	}
	return nil
}
