// Package format moves sidebar trees between files and the supported
// encodings: JSON, YAML and the generator's sidebars.js module.
package format

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docnav/internal/jsmodule"
	xlog "docnav/internal/log"
	"docnav/internal/sidebar"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	JS   Format = "js"
)

var ErrUnknownFormat = errors.New("unknown sidebar format")

// Parse maps a user-supplied format name to a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "js", "javascript", "cjs", "mjs":
		return JS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Detect picks the format from a file extension.
func Detect(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return Parse(ext)
}

// Resolve returns the explicit format if one was given, otherwise the one
// implied by path.
func Resolve(explicit, path string) (Format, error) {
	if explicit != "" {
		return Parse(explicit)
	}
	return Detect(path)
}

// Decode reads a whole tree from r.
func Decode(ctx context.Context, r io.Reader, f Format) (*sidebar.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	t := new(sidebar.Tree)
	switch f {
	case JSON:
		err = json.Unmarshal(data, t)
	case YAML:
		// Empty and comment-only documents leave t untouched.
		err = yaml.Unmarshal(data, t)
	case JS:
		t, err = jsmodule.Parse(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err == nil && t.Len() == 0 {
		err = sidebar.ErrEmptyTree
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return t, nil
}

// Encode writes t to w. A tree without sidebars has no valid encoding.
func Encode(w io.Writer, t *sidebar.Tree, f Format) error {
	if t.Len() == 0 {
		return fmt.Errorf("encode %s: %w", f, sidebar.ErrEmptyTree)
	}
	switch f {
	case JSON:
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		_, err = out.WriteTo(w)
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case JS:
		return jsmodule.Write(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// ReadFile decodes the tree stored at path.
func ReadFile(ctx context.Context, path string, f Format) (*sidebar.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := Decode(ctx, file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteFile atomically replaces path with the encoded tree.
func WriteFile(ctx context.Context, path string, t *sidebar.Tree, f Format) error {
	logger := xlog.FromContext(ctx)

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending sidebar file")
		}
	}()

	if err := Encode(pending, t, f); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Str("format", string(f)).Msg("wrote sidebars")
	return nil
}
