package config

type AppConfig struct {
	DBDriver   string          `yaml:"db_driver" env:"CRIMEDESK_DB_DRIVER" env-default:"sqlite"`
	DBURL      string          `yaml:"db_url" env:"CRIMEDESK_DB_URL" env-default:""`
	DBPath     string          `yaml:"db_path" env:"CRIMEDESK_DB_PATH" env-default:"data/crimedesk.db"`
	ListenAddr string          `yaml:"listen_addr" env:"CRIMEDESK_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	AppEnv     string          `yaml:"app_env" env:"CRIMEDESK_APP_ENV" env-default:"development"`
	SMTP       SMTPConfig      `yaml:"smtp"`
	Scheduler  SchedulerConfig `yaml:"scheduler"`
}

type SMTPConfig struct {
	Sender string `yaml:"sender" env:"CRIMEDESK_SMTP_SENDER" env-default:"log"`
	Host   string `yaml:"host" env:"CRIMEDESK_SMTP_HOST" env-default:"localhost"`
	Port   int    `yaml:"port" env:"CRIMEDESK_SMTP_PORT" env-default:"587"`
	User   string `yaml:"user" env:"CRIMEDESK_SMTP_USER"`
	Pass   string `yaml:"pass" env:"CRIMEDESK_SMTP_PASS"`
	From   string `yaml:"from" env:"CRIMEDESK_SMTP_FROM" env-default:"noreply@crimedesk.local"`
}

type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled" env:"CRIMEDESK_SCHEDULER_ENABLED" env-default:"true"`
	CronSpec string `yaml:"cron_spec" env:"CRIMEDESK_SCHEDULER_CRON" env-default:"0 9 * * *"`
}
