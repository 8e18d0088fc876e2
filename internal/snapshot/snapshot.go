// Package snapshot reads and writes the files a reconciliation run consumes
// and produces: raw records, the subscription catalog, owned and interest
// lists, the unavailable report and the canonical library.
//
// JSON and YAML are both accepted, chosen by file extension. Optional
// snapshots that are missing load as empty.
package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/logging"
	"github.com/agentstation/gamelib/pkg/subscription"
)

// isYAML reports whether the path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decode reads path into v. YAML is converted to JSON first so both formats
// go through the same JSON field names and text unmarshalers.
func decode(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return &errors.NotFoundError{Resource: "snapshot", ID: path}
		}
		return errors.WrapIO("read", path, err)
	}

	format := "json"
	if isYAML(path) {
		format = "yaml"
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return errors.WrapParse(format, path, err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapParse(format, path, err)
	}
	return nil
}

// decodeOptional is decode with a missing file treated as empty.
func decodeOptional(path string, v any) error {
	err := decode(path, v)
	if errors.IsNotFound(err) {
		logging.Debug().Str("path", path).Msg("Snapshot not found, using empty default")
		return nil
	}
	return err
}

// encode writes v to path atomically, as YAML or indented JSON.
func encode(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false), yaml.UseJSONMarshaler())
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.WrapParse("encode", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// LoadRecords reads raw records from a file, or from every JSON and YAML
// file in a directory, in name order. Records are required: a missing path
// is a not-found error.
func LoadRecords(path string) ([]library.RawRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "records", ID: path}
		}
		return nil, errors.WrapIO("stat", path, err)
	}
	if !info.IsDir() {
		var records []library.RawRecord
		if err := decode(path, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".json" && !isYAML(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	var all []library.RawRecord
	for _, name := range names {
		var records []library.RawRecord
		if err := decode(filepath.Join(path, name), &records); err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// LoadCatalog reads the subscription catalog. Entries listed as bare
// strings are treated as available.
func LoadCatalog(path string) ([]subscription.CatalogEntry, error) {
	var raw []json.RawMessage
	if err := decodeOptional(path, &raw); err != nil {
		return nil, err
	}

	entries := make([]subscription.CatalogEntry, 0, len(raw))
	for _, item := range raw {
		var title string
		if err := json.Unmarshal(item, &title); err == nil {
			entries = append(entries, subscription.CatalogEntry{Title: title, Available: true})
			continue
		}
		var entry subscription.CatalogEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadTitles reads a list of titles, such as the owned or interest list.
func LoadTitles(path string) ([]string, error) {
	var titles []string
	if err := decodeOptional(path, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// LoadUnavailable reads the previous run's unavailable report.
func LoadUnavailable(path string) ([]subscription.UnavailableEntry, error) {
	var entries []subscription.UnavailableEntry
	if err := decodeOptional(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveUnavailable writes the unavailable report.
func SaveUnavailable(path string, entries []subscription.UnavailableEntry) error {
	if entries == nil {
		entries = []subscription.UnavailableEntry{}
	}
	return encode(path, entries)
}

// LoadLibrary reads a previously written library. A missing file yields nil,
// which callers treat as "no baseline".
func LoadLibrary(path string) ([]library.CanonicalRecord, error) {
	var lib []library.CanonicalRecord
	err := decode(path, &lib)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lib == nil {
		lib = []library.CanonicalRecord{}
	}
	return lib, nil
}

// SaveLibrary writes the canonical library.
func SaveLibrary(path string, lib []library.CanonicalRecord) error {
	if lib == nil {
		lib = []library.CanonicalRecord{}
	}
	return encode(path, lib)
}
