package model

import "time"

// Agent — сотрудник, обслуживающий клиентов.
// Связь с клиентами — через таблицу agent_clients (многие ко многим).
type Agent struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgentFilter — фильтры списка агентов.
type AgentFilter struct {
	Name *string
}
