package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup настраивает стандартный логгер: вывод в stdout и, если задан файл,
// дублирование в лог с ротацией.
func Setup(file string, maxSizeMB, maxBackups, maxAgeDays int) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if file == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
}
