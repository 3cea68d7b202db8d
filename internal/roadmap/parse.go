package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/dgallion1/studymap/internal/failure"
)

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// ErrNoPayload means no object-shaped payload was found in the text.
var ErrNoPayload = errors.New("no JSON object found in response")

// Isolate extracts the structured payload from generated text: fenced code
// blocks are unwrapped, then the span from the first '{' to the last '}' is taken.
func Isolate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// Parse turns generated text into a Tree. Any failure is a MalformedOutput
// carrying the raw text.
func Parse(raw string) (Tree, error) {
	payload, ok := Isolate(raw)
	if !ok {
		return nil, failure.MalformedOutput("roadmap.parse", raw, ErrNoPayload)
	}
	tree, err := decode([]byte(payload))
	if err != nil {
		return nil, failure.MalformedOutput("roadmap.parse", raw, err)
	}
	if len(tree) == 0 {
		return nil, failure.MalformedOutput("roadmap.parse", raw, errors.New("roadmap has no categories"))
	}
	return tree, nil
}

// decode validates data as JSON and walks it in document order.
func decode(data []byte) (Tree, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("read top level: %w", err)
	}
	if typ != jsonparser.Object {
		return nil, fmt.Errorf("top level is %s, want object", typ)
	}
	return decodeObject(value, "")
}

func decodeObject(data []byte, path string) (Tree, error) {
	var tree Tree
	index := map[string]int{}

	if isEmptyContainer(data) {
		return tree, nil
	}

	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		// ObjectEach hands keys over already unescaped.
		label := cleanText(string(key))
		if label == "" {
			return fmt.Errorf("%s: empty category label", path)
		}
		where := path + "/" + label
		if typ != jsonparser.Array {
			return fmt.Errorf("%s: category value is %s, want array", where, typ)
		}
		entries, err := decodeEntries(value, where)
		if err != nil {
			return err
		}
		if i, dup := index[label]; dup {
			tree[i].Entries = entries
			return nil
		}
		index[label] = len(tree)
		tree = append(tree, Category{Label: label, Entries: entries})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func decodeEntries(data []byte, path string) ([]Entry, error) {
	entries := []Entry{}
	if isEmptyContainer(data) {
		return entries, nil
	}

	var firstErr error
	pos := 0
	_, err := jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		defer func() { pos++ }()
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = fmt.Errorf("%s[%d]: %w", path, pos, err)
			return
		}
		switch typ {
		case jsonparser.String:
			topic, err := jsonparser.ParseString(value)
			if err != nil {
				firstErr = fmt.Errorf("%s[%d]: bad string: %w", path, pos, err)
				return
			}
			topic = cleanText(topic)
			if topic == "" {
				firstErr = fmt.Errorf("%s[%d]: empty topic", path, pos)
				return
			}
			entries = append(entries, Leaf{Topic: topic})
		case jsonparser.Object:
			sub, err := decodeObject(value, fmt.Sprintf("%s[%d]", path, pos))
			if err != nil {
				firstErr = err
				return
			}
			entries = append(entries, Branch{Tree: sub})
		default:
			firstErr = fmt.Errorf("%s[%d]: entry is %s, want string or object", path, pos, typ)
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// cleanText trims s and replaces invalid UTF-8 with U+FFFD so every label in
// a Tree is valid UTF-8.
func cleanText(s string) string {
	return strings.ToValidUTF8(strings.TrimSpace(s), "\uFFFD")
}

// isEmptyContainer reports whether data is "{}" or "[]" modulo whitespace.
func isEmptyContainer(data []byte) bool {
	s := strings.TrimSpace(string(data))
	if len(s) < 2 {
		return false
	}
	return strings.TrimSpace(s[1:len(s)-1]) == ""
}
