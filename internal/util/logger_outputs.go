package util

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// ConsoleOutput writes log entries to a writer, typically stderr
type ConsoleOutput struct {
	mu     sync.Mutex
	writer io.Writer
	format LogFormat
}

// NewConsoleOutput creates a console output
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &ConsoleOutput{writer: writer, format: format}
}

func (c *ConsoleOutput) Write(entry LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, err := formatEntry(entry, c.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.writer, line)
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends log entries to a file
type FileOutput struct {
	mu     sync.Mutex
	file   *os.File
	format LogFormat
}

// NewFileOutput creates a file output, creating the file if needed
func NewFileOutput(path string, format LogFormat) (Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{file: file, format: format}, nil
}

func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, err := formatEntry(entry, f.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.file, line)
	return err
}

func (f *FileOutput) Close() error { return f.file.Close() }

func formatEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	timestamp := entry.Timestamp.Format("2006/01/02 15:04:05")
	return fmt.Sprintf("%s [%s] %s", timestamp, entry.Level, entry.Message), nil
}
