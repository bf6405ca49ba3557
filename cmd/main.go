package main

import (
	"log"

	"vision-diff/config"
	telegram "vision-diff/internal/api"
	app "vision-diff/internal/application"
	"vision-diff/internal/container"
	"vision-diff/internal/infrastructure/document"
	"vision-diff/internal/infrastructure/raster"
	"vision-diff/internal/infrastructure/scratch"
	"vision-diff/internal/infrastructure/storage"
	"vision-diff/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Хранилища пользователей и сравнений
	userRepo := storage.NewMemoryUserRepository()
	comparisonRepo := storage.NewMemoryComparisonRepository()

	// Движки конвейера
	locatorParams := vision.DefaultLocatorParams()
	locatorParams.DilateIterations = cfg.DilateIterations
	locatorParams.DilateKernel = cfg.DilateKernel

	alignerParams := vision.DefaultAlignerParams()
	alignerParams.RatioTest = cfg.RatioTest
	alignerParams.RansacThreshold = cfg.RansacThreshold
	alignerParams.Seed = cfg.RansacSeed

	differParams := vision.DefaultDifferParams()
	differParams.MaskThreshold = cfg.MaskThreshold
	differParams.ContourThreshold = cfg.ContourThreshold

	engines := app.Engines{
		Raster:     raster.NewProcessor(),
		Locator:    vision.NewLocator(locatorParams),
		Aligner:    vision.NewAligner(alignerParams, nil),
		Differ:     vision.NewDiffer(differParams),
		Rasterizer: document.NewRasterizer(cfg.Magnification),
		Assembler:  document.NewAssembler(cfg.Magnification),
		Scratch:    scratch.NewDirStorage(cfg.ScratchDir),
	}

	comparisonCfg := app.DefaultComparisonConfig()
	comparisonCfg.OverlapFraction = cfg.OverlapFraction
	comparisonCfg.CropPadding = cfg.CropPadding
	comparisonCfg.AlignAttempts = cfg.AlignAttempts
	comparisonCfg.PageTimeout = cfg.PageTimeout
	comparisonCfg.MaxInputBytes = cfg.MaxFileBytes

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, comparisonRepo, comparisonCfg, engines)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.MaxFileBytes)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
