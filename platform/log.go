package platform

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// dailyWriter appends to <logPath>/<date>-<fileName>.log and switches
// files when the date changes.
type dailyWriter struct {
	mu       sync.Mutex
	writer   *os.File
	logPath  string
	fileName string
	fileDate string
	now      func() time.Time
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	timer := w.now().Format("2006-01-02")
	//需要切换日志文件
	if w.writer == nil || w.fileDate != timer {
		if w.writer != nil {
			w.writer.Close()
		}
		filename := filepath.Join(w.logPath, fmt.Sprintf("%s-%s.log", timer, w.fileName))
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			w.writer = nil
			return 0, err
		}
		w.writer = f
		w.fileDate = timer
	}
	return w.writer.Write(p)
}

func (w *dailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writer == nil {
		return nil
	}
	err := w.writer.Close()
	w.writer = nil
	return err
}

type LogFormatter struct {
}

func (m *LogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(b, "[%s] [%s] %s", timestamp, entry.Level, entry.Message)
	if err, ok := entry.Data[logrus.ErrorKey]; ok {
		fmt.Fprintf(b, ": %v", err)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// NewLogger returns a logger writing to stderr and to a daily log file
// under logPath. If the directory cannot be created only stderr is used.
func NewLogger(logPath string, fileName string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&LogFormatter{})
	logger.SetOutput(os.Stderr)

	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		logger.Warnf("create log dir %s error, %s", logPath, err)
		return logger
	}
	w := &dailyWriter{logPath: logPath, fileName: fileName, now: time.Now}
	logger.SetOutput(io.MultiWriter(os.Stderr, w))
	return logger
}
