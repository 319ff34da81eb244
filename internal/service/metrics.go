// metrics.go — Prometheus метрики выдачи и ротации SFTP-учёток.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sftpProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "um_sftp_provisioned_total",
		Help: "Количество выданных SFTP-учёток",
	})
	sftpRotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "um_sftp_key_rotations_total",
		Help: "Количество ротаций ключей SFTP по результату",
	}, []string{"result"})
)
