package cycles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadOptions controls row-level tolerance of the loader.
type LoadOptions struct {
	// Lenient pads rows that are short of NumColumns with absent values instead of failing.
	// Rows longer than NumColumns are rejected either way.
	Lenient bool
}

// LoadTable reads a tab-separated log, discarding skipRows leading lines.
func LoadTable(path string, skipRows int, opts LoadOptions) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &Error{Kind: KindInputAccess, Message: "input path is required"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindInputAccess, Message: "open input", Path: path, Cause: err}
	}
	defer f.Close()

	t, err := ReadTable(f, skipRows, opts)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Path == "" {
			e.Path = path
		}
		return nil, err
	}
	t.Source = path
	return t, nil
}

// ReadTable parses tab-separated rows from r.
func ReadTable(r io.Reader, skipRows int, opts LoadOptions) (*Table, error) {
	if skipRows < 0 {
		return nil, NewError(KindConfig, fmt.Sprintf("skip rows must be >= 0, got %d", skipRows), nil)
	}

	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 4*1024*1024)

	t := &Table{Records: make([]Record, 0, 1024)}
	line := 0
	for sc.Scan() {
		line++
		if line <= skipRows {
			t.Skipped++
			continue
		}
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			t.BlankLines++
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) == NumColumns+1 && strings.TrimSpace(fields[NumColumns]) == "" {
			fields = fields[:NumColumns]
			t.Trimmed++
		}
		switch {
		case len(fields) == NumColumns:
		case len(fields) < NumColumns && opts.Lenient:
			for len(fields) < NumColumns {
				fields = append(fields, "")
			}
			t.Padded++
		default:
			return nil, &Error{
				Kind:    KindSchema,
				Message: fmt.Sprintf("expected %d fields, got %d", NumColumns, len(fields)),
				Line:    line,
			}
		}
		t.Records = append(t.Records, Record{Line: line, Fields: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Kind: KindInputAccess, Message: "read input", Line: line, Cause: err}
	}
	return t, nil
}
