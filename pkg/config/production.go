package config

func loadProductionConfig(cfg *Config) {
	cfg.DatabaseFilePath = "/data/kasten.sqlite"
	cfg.ServerHost = "0.0.0.0"
}
