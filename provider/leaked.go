package provider

import (
	"strings"

	"github.com/tidwall/gjson"

	"taskchat/model"
)

// ParseLeakedJSONToolCalls recovers tool calls that a model wrote into its
// text reply instead of the structured channel, such as
// {"name": "add_task", "arguments": {"title": "Buy milk"}}. It returns
// false when nothing call-shaped is found.
func ParseLeakedJSONToolCalls(content string) ([]model.ToolCall, bool) {
	var calls []model.ToolCall
	for _, obj := range jsonObjects(content) {
		calls = append(calls, callsFromJSON(gjson.Parse(obj))...)
	}
	return calls, len(calls) > 0
}

// ParseLeakedXMLToolCalls recovers <tool_call> blocks (JSON bodies) and
// <function=name><parameter=key>value</parameter></function> blocks.
func ParseLeakedXMLToolCalls(content string) ([]model.ToolCall, bool) {
	var calls []model.ToolCall

	for _, body := range between(content, "<tool_call>", "</tool_call>") {
		if c, ok := ParseLeakedJSONToolCalls(body); ok {
			calls = append(calls, c...)
			continue
		}
		calls = append(calls, functionBlocks(body)...)
	}

	if len(calls) == 0 {
		calls = functionBlocks(content)
	}

	return calls, len(calls) > 0
}

func callsFromJSON(r gjson.Result) []model.ToolCall {
	if r.IsArray() {
		var calls []model.ToolCall
		for _, item := range r.Array() {
			calls = append(calls, callsFromJSON(item)...)
		}
		return calls
	}
	if !r.IsObject() {
		return nil
	}
	if nested := r.Get("tool_calls"); nested.IsArray() {
		return callsFromJSON(nested)
	}

	name := firstString(r, "name", "function.name", "tool")
	if name == "" {
		return nil
	}

	args := map[string]any{}
	for _, path := range []string{"arguments", "parameters", "function.arguments", "args", "input"} {
		v := r.Get(path)
		if !v.Exists() {
			continue
		}
		if v.Type == gjson.String && gjson.Valid(v.Str) {
			v = gjson.Parse(v.Str)
		}
		if m, ok := v.Value().(map[string]any); ok {
			args = m
		}
		break
	}

	return []model.ToolCall{{Name: name, Arguments: args}}
}

func firstString(r gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := r.Get(path); v.Type == gjson.String && v.Str != "" {
			return strings.TrimSpace(v.Str)
		}
	}
	return ""
}

// jsonObjects returns every top-level, syntactically valid JSON object in s.
func jsonObjects(s string) []string {
	var objects []string
	for start := strings.IndexByte(s, '{'); start >= 0 && start < len(s); {
		end := matchBrace(s, start)
		if end > 0 && gjson.Valid(s[start:end]) {
			objects = append(objects, s[start:end])
			start = end
		} else {
			start++
		}
		next := strings.IndexByte(s[start:], '{')
		if next < 0 {
			break
		}
		start += next
	}
	return objects
}

// matchBrace returns the index just past the brace closing the one at
// start, or -1. Braces inside JSON strings are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func between(s, open, close string) []string {
	var out []string
	for {
		i := strings.Index(s, open)
		if i < 0 {
			return out
		}
		s = s[i+len(open):]
		j := strings.Index(s, close)
		if j < 0 {
			return out
		}
		out = append(out, s[:j])
		s = s[j+len(close):]
	}
}

func functionBlocks(s string) []model.ToolCall {
	var calls []model.ToolCall
	for _, block := range between(s, "<function=", "</function>") {
		nameEnd := strings.IndexByte(block, '>')
		if nameEnd <= 0 {
			continue
		}
		name := strings.TrimSpace(block[:nameEnd])
		args := map[string]any{}

		for _, param := range between(block[nameEnd+1:], "<parameter=", "</parameter>") {
			keyEnd := strings.IndexByte(param, '>')
			if keyEnd <= 0 {
				continue
			}
			key := strings.TrimSpace(param[:keyEnd])
			args[key] = parameterValue(strings.TrimSpace(param[keyEnd+1:]))
		}

		calls = append(calls, model.ToolCall{Name: name, Arguments: args})
	}
	return calls
}

// parameterValue keeps numbers and other JSON literals typed and leaves
// everything else as a string.
func parameterValue(raw string) any {
	if raw != "" && gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}
