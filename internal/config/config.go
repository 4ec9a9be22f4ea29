package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config reúne tudo que o servidor lê do ambiente na subida.
type Config struct {
	// Endereço HTTP/WebSocket. Ex: ":3001".
	ListenAddr string

	// Diretório com os arquivos do cliente do jogo. Vazio desliga o
	// servimento de estáticos.
	StaticDir string

	// URL do NATS para o stream de eventos de partida. Vazio desliga a
	// telemetria.
	NATSURL string

	// Tempo máximo que uma partida pode ficar sem atualização antes de ser
	// descartada pelo sweeper. Zero desliga o sweeper (comportamento
	// original: partida abandonada vive para sempre).
	MatchIdleTimeout time.Duration

	// Frequência da varredura do sweeper.
	SweepInterval time.Duration

	// Nível do zerolog: debug, info, warn, error.
	LogLevel string
}

// Load carrega o .env (se existir) e monta a configuração com defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading environment variables directly")
	}

	return Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":3001"),
		StaticDir:        os.Getenv("STATIC_DIR"),
		NATSURL:          os.Getenv("NATS_URL"),
		MatchIdleTimeout: getDuration("MATCH_IDLE_TIMEOUT", 0),
		SweepInterval:    getDuration("SWEEP_INTERVAL", time.Minute),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
