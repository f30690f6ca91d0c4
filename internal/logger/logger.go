package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer io.Writer
	path   string
	level  string
}

type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{}
}

// FromPath appends to the file at path instead of writing to stdout.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

func (build *LogBuild) Level(level string) *LogBuild {
	build.level = level
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	var w io.Writer = os.Stdout
	if build.writer != nil {
		w = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		w = zerolog.SyncWriter(logData.LogFile)
	}

	lvl := zerolog.InfoLevel
	if build.level != "" {
		lvl, err = zerolog.ParseLevel(build.level)
		if err != nil {
			logData.Close()
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	logData.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return logData, nil
}

// Close releases the log file, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}
