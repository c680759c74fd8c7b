// Package logfile reads Claude Code session logs directly from disk:
// project/session discovery, paginated event listing, raw payload fetch,
// full-text search, and file-edit extraction. It is the local backend the
// stream engine talks to.
package logfile

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// lineRef locates one line within a log file.
type lineRef struct {
	offset int64
	length int
}

// buildLineIndex scans a file once and records the byte offset and length
// of every line. No JSON parsing happens here; pagination only needs line
// positions.
func buildLineIndex(file *os.File) ([]lineRef, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	reader := bufio.NewReaderSize(file, 256*1024)
	var index []lineRef
	var offset int64
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			index = append(index, lineRef{offset: offset, length: len(line)})
			offset += int64(len(line))
		}
		if err != nil {
			if err == io.EOF {
				return index, nil
			}
			return nil, err
		}
	}
}

// readLineAt reads one line given its byte offset and length, with the
// trailing newline stripped.
func readLineAt(file *os.File, offset int64, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := file.ReadAt(buf, offset); err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(string(buf), "\r\n"), nil
}

// readLineFrom reads the line starting at the given byte offset without a
// known length, used for raw payload fetches keyed by offset alone.
func readLineFrom(file *os.File, offset int64) (string, error) {
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return "", err
	}
	reader := bufio.NewReader(file)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
