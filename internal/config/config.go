package config

import "time"

type Config struct {
	Service     *ServiceConfig
	Redis       *RedisConfig
	Postgres    *PostgresConfig
	Realtime    *RealtimeConfig
	Worker      *WorkerConfig
	Logger      *LoggerConfig
	Tracer      *TracerConfig
	SecretToken string
}

type ServiceConfig struct {
	Name string
	Env  string
	Addr string
}

type RedisConfig struct {
	// URL empty disables Redis: no presence mirror, no ingest worker.
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PingTimeout  time.Duration
}

type PostgresConfig struct {
	// DSN empty disables the notification read-state store.
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

type RealtimeConfig struct {
	// SuppressionWindow is the minimum gap between two delivered
	// notifications for one (recipient, sender) pair.
	SuppressionWindow time.Duration
	// SendBuffer is the per-connection outbound queue length.
	SendBuffer int
}

type WorkerConfig struct {
	NotificationGroup string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TracerConfig struct {
	// Address empty disables the OTLP exporter.
	Address string
}
