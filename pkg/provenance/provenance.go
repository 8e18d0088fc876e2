// Package provenance records which contributing record supplied each field of
// a canonical game, and which values lost out during a merge.
package provenance

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Provenance describes one candidate value for a field.
type Provenance struct {
	Source     sources.Type `yaml:"source"`               // Source that offered the value
	ExternalID string       `yaml:"externalId,omitempty"` // Source-scoped record ID
	Value      any          `yaml:"value"`                // The offered value
	Selected   bool         `yaml:"selected"`             // Whether the value ended up on the record
	Reason     string       `yaml:"reason,omitempty"`     // Why it was (or was not) selected
	Timestamp  utc.Time     `yaml:"timestamp"`            // When the merge ran
}

// Map tracks provenance for many records, keyed by "canonicalId/field".
type Map map[string][]Provenance

// Tracker collects provenance during reconciliation.
type Tracker interface {
	// Track records a candidate value for a field of a canonical record.
	Track(canonicalID, field string, p Provenance)

	// FindByField returns every candidate recorded for a field.
	FindByField(canonicalID, field string) []Provenance

	// FindByRecord returns all fields tracked for a canonical record.
	FindByRecord(canonicalID string) map[string][]Provenance

	// Map returns a copy of everything tracked.
	Map() Map

	// Clear removes all provenance data.
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.Mutex
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker accepts
// calls and records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records a candidate value for a field.
func (p *tracker) Track(canonicalID, field string, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Timestamp.IsZero() {
		history.Timestamp = utc.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	key := makeKey(canonicalID, field)
	p.provenance[key] = append(p.provenance[key], history)
}

// FindByField returns every candidate recorded for a field.
func (p *tracker) FindByField(canonicalID, field string) []Provenance {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.provenance[makeKey(canonicalID, field)])
}

// FindByRecord returns all fields tracked for a canonical record.
func (p *tracker) FindByRecord(canonicalID string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	result := make(map[string][]Provenance)
	prefix := canonicalID + "/"
	for key, info := range p.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = slices.Clone(info)
		}
	}
	return result
}

// Map returns a copy of everything tracked.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.provenance = make(Map)
}

// makeKey joins on "/" because canonical IDs may contain ":".
func makeKey(canonicalID, field string) string {
	return canonicalID + "/" + field
}

// splitKey reverses makeKey. Field names never contain "/".
func splitKey(key string) (canonicalID, field string, ok bool) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// Report is a per-record view of a provenance map.
type Report struct {
	Records map[string]RecordProvenance
}

// RecordProvenance contains provenance for a single canonical record.
type RecordProvenance struct {
	CanonicalID string
	Fields      map[string]Field
}

// Field summarizes the candidates for one field.
type Field struct {
	Current    Provenance   // The selected value and its source
	Candidates []Provenance // Every value offered, in priority order
	Conflict   *Conflict    // Set when contributors disagreed
}

// Conflict describes contributors offering different values for a field.
type Conflict struct {
	Sources        []sources.Type
	Values         []any
	SelectedSource sources.Type
	Resolution     string
}

// GenerateReport builds a report from a provenance map.
func GenerateReport(provenance Map) *Report {
	report := &Report{Records: make(map[string]RecordProvenance)}

	for key, infos := range provenance {
		canonicalID, field, ok := splitKey(key)
		if !ok {
			continue
		}

		rec, exists := report.Records[canonicalID]
		if !exists {
			rec = RecordProvenance{
				CanonicalID: canonicalID,
				Fields:      make(map[string]Field),
			}
		}

		candidates := slices.Clone(infos)
		slices.SortStableFunc(candidates, func(a, b Provenance) int {
			return sources.Compare(a.Source, b.Source)
		})

		f := Field{Candidates: candidates}
		for _, c := range candidates {
			if c.Selected {
				f.Current = c
				break
			}
		}
		f.Conflict = detectConflict(f.Current, candidates)

		rec.Fields[field] = f
		report.Records[canonicalID] = rec
	}

	return report
}

// detectConflict reports a conflict when candidates carry more than one
// distinct value.
func detectConflict(current Provenance, candidates []Provenance) *Conflict {
	if len(candidates) < 2 {
		return nil
	}

	conflict := &Conflict{
		SelectedSource: current.Source,
		Resolution:     current.Reason,
	}
	distinct := false
	for _, c := range candidates {
		conflict.Sources = append(conflict.Sources, c.Source)
		conflict.Values = append(conflict.Values, c.Value)
		if !reflect.DeepEqual(c.Value, candidates[0].Value) {
			distinct = true
		}
	}
	if !distinct {
		return nil
	}
	return conflict
}

// Conflicts counts fields whose contributors disagreed.
func (r *Report) Conflicts() int {
	n := 0
	for _, rec := range r.Records {
		for _, f := range rec.Fields {
			if f.Conflict != nil {
				n++
			}
		}
	}
	return n
}

// String generates a human-readable report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	ids := make([]string, 0, len(r.Records))
	for id := range r.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := r.Records[id]
		sb.WriteString(id + "\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fields := make([]string, 0, len(rec.Fields))
		for field := range rec.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			f := rec.Fields[field]
			sb.WriteString(fmt.Sprintf("  %s: %v (from %s)\n", field, f.Current.Value, f.Current.Source))
			if f.Current.Reason != "" {
				sb.WriteString(fmt.Sprintf("    Reason: %s\n", f.Current.Reason))
			}
			if f.Conflict != nil {
				sb.WriteString("    Conflict:\n")
				for i, src := range f.Conflict.Sources {
					sb.WriteString(fmt.Sprintf("      - %s: %v\n", src, f.Conflict.Values[i]))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File is the on-disk form of a provenance map.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes a provenance map as YAML.
func Save(path string, m Map) error {
	data, err := yaml.MarshalWithOptions(File{Provenance: m}, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return fmt.Errorf("failed to marshal provenance: %w", err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads a provenance file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}
