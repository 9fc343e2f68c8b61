package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

type Logger struct {
	LogToFile bool
	LogFile   *os.File // Optional, used if LogToFile is true
}

func NewLogger() *Logger {
	logFile := os.Getenv("FOTA_LOG")
	if logFile != "" {
		dir := filepath.Dir(logFile)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			panic(err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic(err)
		}
		return &Logger{
			LogToFile: true,
			LogFile:   file,
		}
	}

	return &Logger{
		LogToFile: false,
		LogFile:   nil,
	}
}

func (l *Logger) HandleMessage(message string) {
	if l.LogToFile {
		_, err := l.LogFile.WriteString(message + "\n")
		if err != nil {
			panic(err)
		}
	} else {
		fmt.Println(message)
	}
}

func (l *Logger) emit(prefix, color, message string) {
	if l.LogToFile {
		l.HandleMessage(prefix + message)
	} else {
		l.HandleMessage(color + prefix + message + "\033[0m")
	}
}

func (l *Logger) Debug(message string) {
	l.emit("[DEBUG] ", "\033[34m", message)
}

func (l *Logger) Info(message string) {
	l.emit("[INFO] ", "\033[32m", message)
}

func (l *Logger) Warn(message string) {
	l.emit("[WARN] ", "\033[33m", message)
}

func (l *Logger) Error(message string) {
	l.emit("[ERROR] ", "\033[31m", message)
}

func (l *Logger) Fatal(message string) {
	l.emit("[FATAL] ", "\033[35m", message)
	os.Exit(1) // Exit in fatal errors
}

var GlobalLogger = NewLogger()
