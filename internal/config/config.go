package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	HTTPAddr  string
	CORSAllow []string

	// RoomCodeLength is the number of digits in a generated room code.
	RoomCodeLength int
	// MaxTotalCells caps the cell universe a single room may request.
	MaxTotalCells  int

	WS WSConfig
}

// WSConfig tunes the per-session transport.
type WSConfig struct {
	SendBuffer      int
	WriteWait       time.Duration
	PongWait        time.Duration
	MaxMessageBytes int64
}

// PingPeriod must stay below PongWait so a healthy peer never times out.
func (w WSConfig) PingPeriod() time.Duration {
	return w.PongWait * 9 / 10
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads configuration from the environment. A local .env file is
// honoured when present.
func Load() Config {
	_ = godotenv.Load()

	addr := getenv("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + getenv("PORT", "7860")
	}

	return Config{
		Env:            getenv("APP_ENV", "dev"),
		HTTPAddr:       addr,
		CORSAllow:      splitCSV(getenv("CORS_ALLOW", "*")),
		RoomCodeLength: getenvInt("ROOM_CODE_LENGTH", 4),
		MaxTotalCells:  getenvInt("MAX_TOTAL_CELLS", 100000),
		WS: WSConfig{
			SendBuffer:      getenvInt("WS_SEND_BUFFER", 256),
			WriteWait:       getenvDuration("WS_WRITE_WAIT", 10*time.Second),
			PongWait:        getenvDuration("WS_PONG_WAIT", 60*time.Second),
			MaxMessageBytes: int64(getenvInt("WS_MAX_MESSAGE_BYTES", 4096)),
		},
	}
}
