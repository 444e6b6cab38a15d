package classmate

import (
	"context"
	"sort"
	"sync"
)

// DefaultPrefix is the fallback prefix for generated names.
const DefaultPrefix = "elem"

// PrefixMode selects how the trigger derives the prefix of a generated name.
type PrefixMode string

const (
	// PrefixFixed always uses the configured prefix.
	PrefixFixed PrefixMode = "fixed"
	// PrefixElement derives the prefix from the enclosing tag name, falling
	// back to the configured prefix when no open tag is found.
	PrefixElement PrefixMode = "element"
)

// TriggerConfig gates and parameterizes automatic name insertion.
type TriggerConfig struct {
	Enabled    bool
	Prefix     string
	PrefixMode PrefixMode
}

// Change is one text insertion reported by the hosting editor. Doc carries
// the document text after the insertion.
type Change struct {
	Doc    *Document
	Offset int
	Text   string
}

// Edit is one insertion the trigger wants applied. All edits returned from a
// single change form one logical edit batch, ordered by descending offset so
// earlier splices never shift later ones.
type Edit struct {
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// Trigger watches text changes for freshly typed empty class/id attributes
// and fills each with a generated name.
type Trigger struct {
	session *Session
	cfg     TriggerConfig
	mu      sync.Mutex // reentrancy guard, try-locked per change
}

// NewTrigger builds a trigger over a session. Zero-value config fields get
// the documented defaults (prefix "elem", fixed mode).
func NewTrigger(session *Session, cfg TriggerConfig) *Trigger {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.PrefixMode == "" {
		cfg.PrefixMode = PrefixFixed
	}
	return &Trigger{session: session, cfg: cfg}
}

// HandleChange inspects one change event and returns the edit batch that
// fills every empty attribute it produced. Returns an empty batch when the
// trigger is disabled, when the change contains no insertion site, or when
// another change is still being handled: concurrent triggers are dropped,
// never queued, so a fast typist cannot double-insert.
func (t *Trigger) HandleChange(ctx context.Context, ch Change) ([]Edit, error) {
	if !t.cfg.Enabled || ch.Doc == nil {
		return nil, nil
	}
	if !t.mu.TryLock() {
		return nil, nil
	}
	defer t.mu.Unlock()

	sites := triggerSites(ch.Doc, ch.Offset, ch.Text)
	if len(sites) == 0 {
		return nil, nil
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].offset > sites[j].offset })

	edits := make([]Edit, 0, len(sites))
	for _, site := range sites {
		prefix := t.cfg.Prefix
		if t.cfg.PrefixMode == PrefixElement {
			if tag := enclosingTagName(ch.Doc.Text(), site.offset); tag != "" {
				prefix = tag
			}
		}
		name, err := t.session.GenerateName(ctx, prefix)
		if err != nil {
			// The batch is all or nothing; a failed generation drops it.
			return nil, err
		}
		edits = append(edits, Edit{Offset: site.offset, Text: name})
	}
	return edits, nil
}

// ApplyEdits splices an edit batch into text. Batches from HandleChange are
// ordered by descending offset, which keeps every splice position valid.
func ApplyEdits(text string, edits []Edit) string {
	for _, e := range edits {
		if e.Offset < 0 || e.Offset > len(text) {
			continue
		}
		text = text[:e.Offset] + e.Text + text[e.Offset:]
	}
	return text
}
