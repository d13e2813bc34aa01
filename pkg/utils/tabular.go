package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalCSV reads a delimited table with a header row and maps each row
// onto a T. Columns are matched against `csv` struct tags, then against the
// lower-cased field name. Rows that fail to parse or convert are logged and
// skipped; an error is returned only when the header is unreadable or every
// row was rejected.
func UnmarshalCSV[T any](r io.Reader, delimiter rune, logger *slog.Logger) ([]*T, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	structType := reflect.TypeOf(new(T)).Elem()
	fieldMap := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		csvTag := field.Tag.Get("csv")
		if csvTag == "-" {
			continue
		}
		if csvTag != "" {
			fieldMap[csvTag] = i
		} else {
			fieldMap[strings.ToLower(field.Name)] = i
		}
	}

	results := make([]*T, 0)
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("Skipping bad CSV row", "line", line, "error", err)
			skipped++
			continue
		}
		if len(record) != len(header) {
			logger.Warn("Skipping CSV row with wrong column count", "line", line, "columns", len(record), "expected", len(header))
			skipped++
			continue
		}

		newStruct, err := mapRowToStruct[T](record, header, fieldMap, structType)
		if err != nil {
			logger.Warn("Failed to map CSV row", "line", line, "error", err)
			skipped++
			continue
		}
		results = append(results, newStruct)
	}

	if len(results) == 0 && skipped > 0 {
		return nil, fmt.Errorf("failed to unmarshal any of %d CSV rows", skipped)
	}
	return results, nil
}

func mapRowToStruct[T any](record []string, header []string, fieldMap map[string]int, structType reflect.Type) (*T, error) {
	newStructPtr := reflect.New(structType)
	newStruct := newStructPtr.Elem()

	for i, colName := range header {
		val := strings.TrimSpace(record[i])

		fieldIdx, ok := fieldMap[colName]
		if !ok {
			fieldIdx, ok = fieldMap[strings.ToLower(colName)]
		}
		if !ok {
			continue
		}
		if err := setField(newStruct.Field(fieldIdx), val); err != nil {
			return nil, fmt.Errorf("column %s: %w", colName, err)
		}
	}
	return newStructPtr.Interface().(*T), nil
}

// setField is a helper that converts a string value and sets it on a reflect.Value field.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return errors.New("field cannot be set")
	}

	if field.Kind() == reflect.Ptr {
		if value == "" {
			return nil
		}
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		if field.OverflowInt(i) {
			return fmt.Errorf("int overflow for value %s", value)
		}
		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if field.OverflowFloat(f) {
			return fmt.Errorf("float overflow for value %s", value)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			trimmed = trimmed[1 : len(trimmed)-1]
		}
		if trimmed == "" {
			field.Set(reflect.MakeSlice(field.Type(), 0, 0))
			return nil
		}
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}

		parts := strings.Split(trimmed, ",")
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, part := range parts {
			slice.Index(i).SetString(strings.Trim(strings.TrimSpace(part), "\"'"))
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// UnmarshalYAML parses a YAML sequence into a slice of T, skipping items that
// fail to decode. An error is returned when the document is not a sequence or
// every item failed.
func UnmarshalYAML[T any](data []byte, logger *slog.Logger) ([]*T, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse YAML structure: %w", err)
	}

	results := make([]*T, 0, len(nodes))
	var firstErr error
	failed := 0
	for i, node := range nodes {
		var item T
		if err := node.Decode(&item); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to unmarshal item %d: %w", i, err)
			}
			failed++
			continue
		}
		results = append(results, &item)
	}

	if len(results) == 0 && failed > 0 {
		return nil, fmt.Errorf("failed to unmarshal any items: %w", firstErr)
	}
	if failed > 0 {
		logger.Warn("YAML items failed to parse and were skipped", "count", failed, "error", firstErr)
	}
	return results, nil
}
