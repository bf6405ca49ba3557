package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	ScratchDir    string // пусто — системный каталог временных файлов

	OverlapFraction  float64
	MaskThreshold    float64
	ContourThreshold float64
	DilateIterations int
	DilateKernel     int
	Magnification    float64
	RansacThreshold  float64
	RatioTest        float64
	CropPadding      int
	RansacSeed       int64 // 0 — новое зерно при каждом запуске
	AlignAttempts    int
	PageTimeout      time.Duration
	MaxFileBytes     int
}

// Default значения, с которыми бот работает без переменных окружения.
func Default() *Config {
	return &Config{
		OverlapFraction:  0.3,
		MaskThreshold:    100,
		ContourThreshold: 150,
		DilateIterations: 4,
		DilateKernel:     1,
		Magnification:    3,
		RansacThreshold:  5,
		RatioTest:        0.75,
		AlignAttempts:    1,
		MaxFileBytes:     20 << 20,
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv(os.LookupEnv)
}

// FromEnv читает конфигурацию через lookup. Некорректное значение переменной — ошибка.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	cfg.TelegramToken, _ = lookup("TELEGRAM_TOKEN")
	cfg.ScratchDir, _ = lookup("SCRATCH_DIR")

	p := parser{lookup: lookup}
	p.float("DIFF_OVERLAP_FRACTION", &cfg.OverlapFraction, 0, 10)
	p.float("DIFF_MASK_THRESHOLD", &cfg.MaskThreshold, 0, 255)
	p.float("DIFF_CONTOUR_THRESHOLD", &cfg.ContourThreshold, 0, 255)
	p.int("DIFF_DILATE_ITERATIONS", &cfg.DilateIterations, 0)
	p.int("DIFF_DILATE_KERNEL", &cfg.DilateKernel, 1)
	p.float("DIFF_MAGNIFICATION", &cfg.Magnification, 0.1, 20)
	p.float("DIFF_RANSAC_THRESHOLD", &cfg.RansacThreshold, 0.1, 1000)
	p.float("DIFF_RATIO_TEST", &cfg.RatioTest, 0.01, 1)
	p.int("DIFF_CROP_PADDING", &cfg.CropPadding, 0)
	p.int64("DIFF_RANSAC_SEED", &cfg.RansacSeed)
	p.int("DIFF_ALIGN_ATTEMPTS", &cfg.AlignAttempts, 1)
	p.duration("DIFF_PAGE_TIMEOUT", &cfg.PageTimeout)
	p.int("DIFF_MAX_FILE_BYTES", &cfg.MaxFileBytes, 0)

	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// parser запоминает первую ошибку разбора.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) value(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key, v string, err error) {
	p.err = fmt.Errorf("config: %s=%q: %w", key, v, err)
}

func (p *parser) float(key string, dst *float64, min, max float64) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	if f < min || f > max {
		p.fail(key, v, fmt.Errorf("must be in [%g, %g]", min, max))
		return
	}
	*dst = f
}

func (p *parser) int(key string, dst *int, min int) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	if n < min {
		p.fail(key, v, fmt.Errorf("must be >= %d", min))
		return
	}
	*dst = n
}

func (p *parser) int64(key string, dst *int64) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = n
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.value(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	if d < 0 {
		p.fail(key, v, fmt.Errorf("must not be negative"))
		return
	}
	*dst = d
}
