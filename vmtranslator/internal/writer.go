package internal

import (
	"bufio"
	"io"
	"os"
)

// FileWriter appends lines to a buffered file. Lines reach the file in the
// order they are written, at the latest when Flush or Close is called.
type FileWriter struct {
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// CreateFileWriter creates or truncates the file at path.
func CreateFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, writer: bufio.NewWriter(f)}, nil
}

func (w *FileWriter) WriteLines(lines []string) error {
	if w.closed {
		return ErrClosed
	}
	return writeLines(w.writer, lines)
}

func (w *FileWriter) Flush() error {
	return w.writer.Flush()
}

// Close flushes and closes the file. Closing it again does nothing.
func (w *FileWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.writer.Flush()
	if closeErr := w.file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// StreamWriter writes lines to any io.Writer without buffering, e.g. os.Stdout.
type StreamWriter struct {
	w io.Writer
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

func (w *StreamWriter) WriteLines(lines []string) error {
	return writeLines(w.w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
