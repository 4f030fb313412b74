package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-orchestrator/internal/trading"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension; anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// ParseRequest decodes a request document. YAML is normalised to JSON first
// so both formats share the JSON field names and optional value handling.
func ParseRequest(data []byte, format Format) (trading.Request, error) {
	var req trading.Request

	if err := decode(data, format, &req); err != nil {
		return trading.Request{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse request", err)
	}

	return req, nil
}

// LoadRequest reads and parses a request file.
func LoadRequest(path string) (trading.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return trading.Request{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read request %s", path)
	}

	return ParseRequest(data, FormatOf(path))
}

// LoadPaperState reads a paper state file. A missing file yields nil so the
// simulator starts a fresh account.
func LoadPaperState(path string) (*types.PaperState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read paper state %s", path)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var state types.PaperState
	if err := decode(data, FormatOf(path), &state); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse paper state %s", path)
	}

	return &state, nil
}

// SavePaperState writes state in the format implied by the file extension.
// The file is replaced atomically.
func SavePaperState(path string, state *types.PaperState) error {
	if state == nil {
		return nil
	}

	var (
		data []byte
		err  error
	)

	if FormatOf(path) == FormatJSON {
		data, err = json.MarshalIndent(state, "", "  ")
	} else {
		data, err = yaml.Marshal(state)
	}

	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode paper state", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "failed to write paper state %s", path)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(errors.ErrCodeInternal, err, "failed to write paper state %s", path)
	}

	return nil
}

func decode(data []byte, format Format, out any) error {
	if format == FormatJSON {
		return json.Unmarshal(data, out)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	normalised, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return json.Unmarshal(normalised, out)
}
