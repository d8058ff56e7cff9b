package fs

// File-backed list of muted token ids. A muted token is never admitted to
// the watch registry and never notified about. The file is plain JSON so it
// can be edited by hand between restarts.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "launch-radar/internal/infra/log"

	"go.uber.org/zap"
)

const mutedTokensFile = "muted_tokens.json"

type mutedTokensData struct {
	Tokens []string `json:"tokens"`
}

// LoadMutedTokens reads the muted id list from dataDir.
// A missing or empty file is not an error.
func LoadMutedTokens(dataDir string) ([]string, error) {
	filePath := filepath.Join(dataDir, mutedTokensFile)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logging.LogDebug("Muted tokens file does not exist, returning empty list", zap.String("file", filePath))
		return []string{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read muted tokens file: %w", err)
	}

	if trimmed := strings.TrimSpace(string(data)); trimmed == "" || trimmed == "{}" {
		return []string{}, nil
	}

	var tokensData mutedTokensData
	if err := json.Unmarshal(data, &tokensData); err != nil {
		return nil, fmt.Errorf("failed to parse muted tokens JSON: %w", err)
	}

	logging.LogDebug("Loaded muted tokens from file",
		zap.String("file", filePath),
		zap.Int("count", len(tokensData.Tokens)))

	return tokensData.Tokens, nil
}

// SaveMutedTokens writes the list atomically (temp file + rename).
func SaveMutedTokens(dataDir string, tokens []string) error {
	filePath := filepath.Join(dataDir, mutedTokensFile)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(mutedTokensData{Tokens: tokens}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal muted tokens JSON: %w", err)
	}

	tempFilePath := filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary muted tokens file: %w", err)
	}

	if err := os.Rename(tempFilePath, filePath); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary muted tokens file: %w", err)
	}

	logging.LogInfo("Saved muted tokens to file",
		zap.String("file", filePath),
		zap.Int("count", len(tokens)))

	return nil
}
