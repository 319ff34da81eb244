package model

import "time"

// Client — клиент, корневая сущность.
// Хранится в таблице clients. Вендоры и SFTP-учётка ссылаются на него по client_id.
type Client struct {
	// ID — назначается БД при создании (BIGSERIAL), не переиспользуется
	ID int64
	// Name — отображаемое имя
	Name string
	// Email — контактный адрес
	Email string
	// Bucket — идентификатор бакета объектного хранилища
	Bucket string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// ClientFilter — фильтры списка клиентов. nil — без ограничения.
type ClientFilter struct {
	Name  *string
	Email *string
}
