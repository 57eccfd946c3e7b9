package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
)

// CSVWriter writes results in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"method", "url", "path", "status", "size", "redirect"})
}

func (c *CSVWriter) WriteResult(result *fuzz.Result) error {
	resp := result.Response
	if resp == nil {
		return nil
	}
	return c.w.Write([]string{
		result.Method,
		result.URL,
		result.Path,
		fmt.Sprintf("%d", resp.Status),
		fmt.Sprintf("%d", resp.Length()),
		resp.Redirect,
	})
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
