package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed zerolog JSON line.
type Entry struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	Error     string
	Fields    map[string]string
	Raw       string
}

// reserved keys are rendered explicitly and never appear in Fields.
var reserved = map[string]bool{
	"time": true, "level": true, "component": true, "message": true, "error": true,
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		entry.Message = line
		return entry
	}
	if ts, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Time = t
		}
	}
	entry.Level = stringField(raw, "level")
	entry.Component = stringField(raw, "component")
	entry.Message = stringField(raw, "message")
	entry.Error = stringField(raw, "error")
	for key, value := range raw {
		if reserved[key] {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]string)
		}
		entry.Fields[key] = fmt.Sprint(value)
	}
	return entry
}

// Format renders an entry on one line:
//
//	15:04:05 WARN  [fetch] request failed section=apod reason=rate_limited
func Format(e Entry) string {
	if e.Level == "" && e.Time.IsZero() {
		return e.Message
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Fields[k])
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	return b.String()
}

// Tail reads the last maxLines of path and parses each one.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
