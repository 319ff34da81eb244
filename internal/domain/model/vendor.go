package model

import "time"

// Vendor — контрагент клиента с параметрами подключения к его SFTP/FTP.
// Хранится в таблице vendors, client_id NOT NULL.
// Password, SSHKey и SSHKeyPassword хранятся зашифрованными (см. пакет secrets).
type Vendor struct {
	ID       int64
	ClientID int64
	Name     string
	Host     string
	Port     int
	// Username — логин на стороне вендора (опционально)
	Username *string
	// Password — пароль (опционально, зашифрован)
	Password *string
	// SSHKey — приватный SSH-ключ для подключения к вендору (опционально, зашифрован)
	SSHKey *string
	// SSHKeyPassword — пароль к SSHKey (опционально, зашифрован)
	SSHKeyPassword *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VendorOverview — вендор без секретов, для списков и чтения.
type VendorOverview struct {
	ID          int64
	ClientID    int64
	Name        string
	Host        string
	Port        int
	Username    *string
	HasPassword bool
	HasSSHKey   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VendorFilter — фильтры списка вендоров.
type VendorFilter struct {
	ClientID *int64
	Name     *string
}
