package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nicflores/user-manager-api/internal/domain/model"
)

// SFTPRepository — интерфейс для таблицы sftp_credentials.
// Чтение возвращает SFTPOverview без ключевого материала.
type SFTPRepository interface {
	// List возвращает учётки, подходящие под фильтр.
	List(ctx context.Context, f model.SFTPFilter) ([]*model.SFTPOverview, error)
	// GetByID возвращает учётку по id.
	GetByID(ctx context.Context, id int64) (*model.SFTPOverview, error)
	// GetByClientID возвращает учётку клиента.
	GetByClientID(ctx context.Context, clientID int64) (*model.SFTPOverview, error)
	// Create проверяет существование клиента и создаёт учётку с key_version = 1.
	// Клиента нет — ErrNotFound, запись не выполняется.
	// У клиента уже есть учётка — ErrConflict.
	Create(ctx context.Context, clientID int64, cred *model.SFTPCredential) error
	// Update записывает только заданные поля, всё в одной транзакции.
	Update(ctx context.Context, id int64, upd model.SFTPUpdate) error
	// RotateKeys перезаписывает ключи учётки клиента и увеличивает key_version.
	// Учётки нет — ErrNotFound, новая строка не создаётся.
	RotateKeys(ctx context.Context, clientID int64, keys model.SFTPKeys) (*model.SFTPOverview, error)
	// Delete удаляет учётку.
	Delete(ctx context.Context, id int64) error
}

// sftpRepo — реализация SFTPRepository.
type sftpRepo struct {
	db DBTX
}

// NewSFTPRepository создаёт репозиторий SFTP-учёток.
func NewSFTPRepository(db DBTX) SFTPRepository {
	return &sftpRepo{db: db}
}

const sftpOverviewColumns = `id, client_id, username, bucket_name, aws_role_arn,
	fingerprint, key_version, rotated_at, created_at, updated_at`

// scanSFTPOverview сканирует строку результата в SFTPOverview.
func scanSFTPOverview(row pgx.Row) (*model.SFTPOverview, error) {
	s := &model.SFTPOverview{}
	err := row.Scan(
		&s.ID, &s.ClientID, &s.Username, &s.BucketName, &s.RoleARN,
		&s.Fingerprint, &s.KeyVersion, &s.RotatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *sftpRepo) List(ctx context.Context, f model.SFTPFilter) ([]*model.SFTPOverview, error) {
	var flt filter
	if f.ClientID != nil {
		flt.add("client_id = $%d", *f.ClientID)
	}

	query := fmt.Sprintf(`SELECT %s FROM sftp_credentials %s ORDER BY id`, sftpOverviewColumns, flt.where())

	rows, err := r.db.Query(ctx, query, flt.args...)
	if err != nil {
		return nil, dbError("ошибка получения списка SFTP-учёток", err)
	}
	defer rows.Close()

	result := make([]*model.SFTPOverview, 0)
	for rows.Next() {
		s, err := scanSFTPOverview(rows)
		if err != nil {
			return nil, dbError("ошибка сканирования SFTP-учётки", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("ошибка чтения SFTP-учёток", err)
	}
	return result, nil
}

func (r *sftpRepo) GetByID(ctx context.Context, id int64) (*model.SFTPOverview, error) {
	query := fmt.Sprintf(`SELECT %s FROM sftp_credentials WHERE id = $1`, sftpOverviewColumns)
	s, err := scanSFTPOverview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: SFTP-учётка %d", ErrNotFound, id)
		}
		return nil, dbError("ошибка получения SFTP-учётки", err)
	}
	return s, nil
}

func (r *sftpRepo) GetByClientID(ctx context.Context, clientID int64) (*model.SFTPOverview, error) {
	query := fmt.Sprintf(`SELECT %s FROM sftp_credentials WHERE client_id = $1`, sftpOverviewColumns)
	s, err := scanSFTPOverview(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: SFTP-учётка клиента %d", ErrNotFound, clientID)
		}
		return nil, dbError("ошибка получения SFTP-учётки", err)
	}
	return s, nil
}

func (r *sftpRepo) Create(ctx context.Context, clientID int64, cred *model.SFTPCredential) error {
	ok, err := exists(ctx, r.db, "clients", clientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
	}

	query := `
		INSERT INTO sftp_credentials (client_id, username, private_key, public_key, fingerprint,
			bucket_name, aws_role_arn)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, key_version, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		clientID, cred.Username, cred.PrivateKey, cred.PublicKey, cred.Fingerprint,
		cred.BucketName, cred.RoleARN,
	).Scan(&cred.ID, &cred.KeyVersion, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: у клиента %d уже есть SFTP-учётка", ErrConflict, clientID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: клиент %d", ErrNotFound, clientID)
		}
		return dbError("ошибка создания SFTP-учётки", err)
	}
	cred.ClientID = clientID
	return nil
}

func (r *sftpRepo) Update(ctx context.Context, id int64, upd model.SFTPUpdate) error {
	return runInTx(ctx, r.db, func(tx pgx.Tx) error {
		// Блокируем строку: параллельная ротация или обновление ждут фиксации.
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM sftp_credentials WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: SFTP-учётка %d", ErrNotFound, id)
			}
			return dbError("ошибка блокировки SFTP-учётки", err)
		}

		if upd.Empty() {
			return nil
		}

		var sets []string
		args := []any{id}
		argNum := 2

		if upd.Username != nil {
			sets = append(sets, fmt.Sprintf("username = $%d", argNum))
			args = append(args, *upd.Username)
			argNum++
		}
		if upd.BucketName != nil {
			sets = append(sets, fmt.Sprintf("bucket_name = $%d", argNum))
			args = append(args, *upd.BucketName)
			argNum++
		}
		if upd.RoleARN != nil {
			sets = append(sets, fmt.Sprintf("aws_role_arn = $%d", argNum))
			args = append(args, *upd.RoleARN)
		}
		sets = append(sets, "updated_at = NOW()")

		query := fmt.Sprintf(`UPDATE sftp_credentials SET %s WHERE id = $1`, strings.Join(sets, ", "))
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return dbError("ошибка обновления SFTP-учётки", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: SFTP-учётка %d", ErrNotFound, id)
		}
		return nil
	})
}

func (r *sftpRepo) RotateKeys(ctx context.Context, clientID int64, keys model.SFTPKeys) (*model.SFTPOverview, error) {
	query := fmt.Sprintf(`
		UPDATE sftp_credentials
		SET private_key = $2, public_key = $3, fingerprint = $4,
			key_version = key_version + 1, rotated_at = NOW(), updated_at = NOW()
		WHERE client_id = $1
		RETURNING %s`, sftpOverviewColumns)

	s, err := scanSFTPOverview(r.db.QueryRow(ctx, query,
		clientID, keys.PrivateKey, keys.PublicKey, keys.Fingerprint,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: SFTP-учётка клиента %d", ErrNotFound, clientID)
		}
		return nil, dbError("ошибка ротации ключей", err)
	}
	return s, nil
}

func (r *sftpRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sftp_credentials WHERE id = $1`, id)
	if err != nil {
		return dbError("ошибка удаления SFTP-учётки", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: SFTP-учётка %d", ErrNotFound, id)
	}
	return nil
}
