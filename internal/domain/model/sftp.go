package model

import "time"

// SFTPCredential — SFTP-учётка клиента: ключевая пара и параметры доступа к бакету.
// Хранится в таблице sftp_credentials, не более одной записи на клиента.
type SFTPCredential struct {
	ID       int64
	ClientID int64
	// Username — логин на SFTP-мосту
	Username string
	// PrivateKey — PEM PKCS#8, в БД зашифрован
	PrivateKey string
	// PublicKey — "ssh-rsa <base64>"
	PublicKey string
	// Fingerprint — SHA256-отпечаток публичного ключа
	Fingerprint string
	// KeyVersion — 1 после выдачи, +1 после каждой ротации
	KeyVersion int
	BucketName string
	// RoleARN — роль AWS с доступом к бакету
	RoleARN   string
	RotatedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SFTPOverview — SFTP-учётка без ключевого материала.
// Приватный ключ возвращается только при выдаче и ротации.
type SFTPOverview struct {
	ID          int64
	ClientID    int64
	Username    string
	BucketName  string
	RoleARN     string
	Fingerprint string
	KeyVersion  int
	RotatedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SFTPUpdate — частичное обновление учётки. nil — поле не меняется.
type SFTPUpdate struct {
	Username   *string
	BucketName *string
	RoleARN    *string
}

// Empty сообщает, что ни одно поле не задано.
func (u SFTPUpdate) Empty() bool {
	return u.Username == nil && u.BucketName == nil && u.RoleARN == nil
}

// SFTPKeys — новые ключи для ротации.
type SFTPKeys struct {
	// PrivateKey — уже зашифрованный приватный ключ
	PrivateKey  string
	PublicKey   string
	Fingerprint string
}

// SFTPFilter — фильтры списка SFTP-учёток.
type SFTPFilter struct {
	ClientID *int64
}
