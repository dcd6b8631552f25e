package site

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"pubsite/src/internal/pubs"
)

// WriteArtifacts writes records as an indented JSON array to jsonPath. When
// jsonPath ends in ".json" (case-insensitive) it also writes a sibling .js
// file assigning the compact array to cfg.JSVar, and returns that sibling
// path; otherwise it returns "".
func WriteArtifacts(records []pubs.Publication, jsonPath string, cfg Config) (string, error) {
	if records == nil {
		records = []pubs.Publication{}
	}

	b, err := marshalRecords(records, "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		return "", err
	}

	if !strings.HasSuffix(strings.ToLower(jsonPath), ".json") {
		return "", nil
	}
	jsPath := jsonPath[:len(jsonPath)-len(".json")] + ".js"

	compact, err := marshalRecords(records, "")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString(cfg.Header)
	buf.WriteByte('\n')
	buf.WriteString(cfg.JSVar)
	buf.WriteString(" = ")
	buf.Write(bytes.TrimRight(compact, "\n"))
	buf.WriteString(";\n")
	if err := os.WriteFile(jsPath, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return jsPath, nil
}

// marshalRecords leaves non-ASCII and HTML characters unescaped. The result
// ends with a newline.
func marshalRecords(records []pubs.Publication, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
