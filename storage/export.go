package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"taskchat/model"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ConversationExport is a conversation with its full history.
type ConversationExport struct {
	Conversation `yaml:",inline"`
	Turns        []model.Turn `json:"turns" yaml:"turns"`
}

// Export loads the full history of a conversation owned by userID.
func (l *Ledger) Export(ctx context.Context, userID, id string) (*ConversationExport, error) {
	c, err := l.Conversation(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	turns, err := l.Recent(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	return &ConversationExport{Conversation: c, Turns: turns}, nil
}

// MarshalExport encodes an export as JSON or YAML.
func MarshalExport(exp *ConversationExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return json.MarshalIndent(exp, "", "  ")
	case FormatYAML, "yml":
		return yaml.Marshal(exp)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteExport writes an export to path, creating parent directories.
func WriteExport(exp *ConversationExport, path, format string) error {
	data, err := MarshalExport(exp, format)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

const maxFilenameRunes = 50

// SanitizeFilename makes a conversation title safe for use in a filename
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "\"", "-",
		"<", "-", ">", "-", "|", "-", " ", "-", "\n", "-", "\r", "-",
	)
	name = strings.Trim(replacer.Replace(name), "-.")

	if utf8.RuneCountInString(name) > maxFilenameRunes {
		name = strings.TrimRight(string([]rune(name)[:maxFilenameRunes]), "-.")
	}
	if name == "" {
		name = "conversation"
	}

	return name
}

// GenerateExportPath returns the default export location in the user's
// Downloads directory.
func GenerateExportPath(title, format string) string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE")
	}

	ext := FormatJSON
	if f := strings.ToLower(format); f == FormatYAML || f == "yml" {
		ext = FormatYAML
	}

	filename := fmt.Sprintf("taskchat-%s-%s.%s", SanitizeFilename(title), time.Now().Format("20060102-150405"), ext)
	return filepath.Join(homeDir, "Downloads", filename)
}
