package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jmartin-dev/dirsearch-go/internal/fuzz"
)

type jsonEntry struct {
	Method      string `json:"method"`
	URL         string `json:"url"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Size        int64  `json:"size"`
	Redirect    string `json:"redirect,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// JSONWriter writes results as a JSON array.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
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
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *fuzz.Result) error {
	resp := result.Response
	if resp == nil {
		return nil
	}
	j.entries = append(j.entries, jsonEntry{
		Method:      result.Method,
		URL:         result.URL,
		Path:        result.Path,
		Status:      resp.Status,
		Size:        resp.Length(),
		Redirect:    resp.Redirect,
		ContentType: resp.ContentType(),
	})
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
