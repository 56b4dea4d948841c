// Package ingest reads raw preference rows from CSV and JSON files.
// Column names may be Portuguese (nome_completo, data_nascimento, ...) or
// English (full_name, birth_date, ...).
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/model"
)

type field int

const (
	fieldFullName field = iota
	fieldEmail
	fieldBirthDate
	fieldCity
	fieldState
	fieldConsoles
	fieldPreferredGames
)

var aliases = map[string]field{
	"nome_completo":    fieldFullName,
	"nome":             fieldFullName,
	"full_name":        fieldFullName,
	"name":             fieldFullName,
	"email":            fieldEmail,
	"e-mail":           fieldEmail,
	"data_nascimento":  fieldBirthDate,
	"birth_date":       fieldBirthDate,
	"cidade":           fieldCity,
	"city":             fieldCity,
	"estado":           fieldState,
	"state":            fieldState,
	"consoles":         fieldConsoles,
	"jogos_preferidos": fieldPreferredGames,
	"preferred_games":  fieldPreferredGames,
}

func lookupField(name string) (field, bool) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

type rowBuilder struct {
	row model.Row
}

func (r *rowBuilder) set(f field, v string) {
	switch f {
	case fieldFullName:
		r.row.FullName = v
	case fieldEmail:
		r.row.Email = v
	case fieldBirthDate:
		r.row.BirthDate = v
	case fieldCity:
		r.row.City = v
	case fieldState:
		r.row.State = v
	case fieldConsoles:
		r.row.Consoles = v
	case fieldPreferredGames:
		r.row.PreferredGames = v
	}
}

// ReadFile loads rows from path, choosing the format by extension.
func ReadFile(path string) ([]model.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ReadFiles loads and concatenates rows from every path in order. Missing
// files are logged and skipped; any other failure is an Import error, as is
// loading nothing at all.
func ReadFiles(paths []string, log zerolog.Logger) ([]model.Row, error) {
	const op = "ingest.read"

	var rows []model.Row
	loaded := 0
	for _, p := range paths {
		got, err := ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", p).Msg("file not found, continuing without it")
			continue
		}
		if err != nil {
			return nil, &apperr.Error{Kind: apperr.Import, Op: op, Message: p, Err: err}
		}
		log.Info().Str("file", p).Int("rows", len(got)).Msg("loaded rows")
		rows = append(rows, got...)
		loaded++
	}

	if loaded == 0 {
		return nil, apperr.New(apperr.Import, op, "no input file could be loaded")
	}
	return rows, nil
}

// ParseCSV decodes a CSV document with a header row. Input that is not valid
// UTF-8 is decoded as ISO-8859-1.
func ParseCSV(data []byte) ([]model.Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode latin1: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return []model.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make([]field, len(header))
	known := make([]bool, len(header))
	hasName := false
	for i, h := range header {
		cols[i], known[i] = lookupField(h)
		if known[i] && cols[i] == fieldFullName {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("missing name column in header %q", header)
	}

	rows := []model.Row{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		var b rowBuilder
		for i, v := range rec {
			if i < len(cols) && known[i] {
				b.set(cols[i], strings.TrimSpace(v))
			}
		}
		rows = append(rows, b.row)
	}
	return rows, nil
}

// ParseJSON decodes an array of objects. Non-string values are rendered with
// their JSON text; null becomes empty. Arrays are joined with "|".
func ParseJSON(data []byte) ([]model.Row, error) {
	var objs []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	rows := make([]model.Row, 0, len(objs))
	for _, obj := range objs {
		var b rowBuilder
		for k, raw := range obj {
			f, ok := lookupField(k)
			if !ok {
				continue
			}
			b.set(f, strings.TrimSpace(jsonText(raw)))
		}
		rows = append(rows, b.row)
	}
	return rows, nil
}

func jsonText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return model.JoinList(list)
	}

	text := string(bytes.TrimSpace(raw))
	if text == "null" {
		return ""
	}
	return text
}
