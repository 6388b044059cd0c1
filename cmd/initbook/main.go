package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/repository/sheets"
	"github.com/mamadbah2/salesbook/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	defaultPath := os.Getenv("WORKBOOK_PATH")
	if defaultPath == "" {
		defaultPath = "sales.xlsx"
	}
	path := flag.String("path", defaultPath, "workbook to create")
	flag.Parse()

	log := logger.Must(logger.New(""))
	defer func() { _ = log.Sync() }()

	if err := sheets.CreateWorkbook(*path); err != nil {
		log.Fatal("failed to create workbook", zap.String("path", *path), zap.Error(err))
	}

	log.Info("workbook created", zap.String("path", *path))
}
