// Package logutil provides logging utilities.
//
// All loggers created with GetLogger share one output, which discards
// everything until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	out     = io.Discard
	closer  io.Closer
	loggers []*log.Logger
	mutex   sync.Mutex
)

// GetLogger gets a logger with the given prefix.
func GetLogger(prefix string) *log.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer, or discards logs when it is nil. If the old output was a
// file opened by SetOutputFile, it is closed.
func SetOutput(newout io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	if newout == nil {
		newout = io.Discard
	}
	setOutput(newout, nil)
}

// Rotation settings for SetOutputFile.
var (
	MaxSizeMB  = 15
	MaxBackups = 3
	MaxAgeDays = 28
)

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. The file is rotated once it reaches MaxSizeMB megabytes and
// old files are compressed. If the filename is empty, logs are discarded.
func SetOutputFile(fname string) {
	mutex.Lock()
	defer mutex.Unlock()
	if fname == "" {
		setOutput(io.Discard, nil)
		return
	}
	file := &lumberjack.Logger{
		Filename:   fname,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
		Compress:   true,
	}
	setOutput(file, file)
}

func setOutput(newout io.Writer, newcloser io.Closer) {
	if closer != nil {
		closer.Close()
	}
	out, closer = newout, newcloser
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}
