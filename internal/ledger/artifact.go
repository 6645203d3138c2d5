// Package ledger implements the versioned artifact: one tracked file's
// current content and location plus an append-only undo-log from which any
// historical version can be reconstructed. Artifacts are immutable values;
// every mutation returns a new artifact and the log is only ever prepended
// to.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vk/refmt/internal/plugin"
)

// Field names the two versioned attributes of an artifact. FieldAST is an
// accepted update input but is never logged directly: an AST update records
// the derived content change instead.
type Field string

const (
	FieldPath    Field = "path"
	FieldContent Field = "content"
	FieldAST     Field = "ast"
)

// Origin is the artifact's provenance tag.
type Origin int

const (
	OriginFile Origin = iota
	OriginText
	OriginAST
)

func (o Origin) String() string {
	switch o {
	case OriginFile:
		return "file"
	case OriginText:
		return "text"
	case OriginAST:
		return "ast"
	default:
		return "unknown"
	}
}

// Change is one undo-log entry: the previous value a field held before an
// update, and who made the update.
type Change struct {
	Field Field
	By    string
	Value any
}

// Issue is one recorded problem, pinned to the artifact version it was
// observed at.
type Issue struct {
	Version int
	Err     error
}

// DefaultOwner is recorded on updates when the caller supplies no actor.
const DefaultOwner = "ledger"

// Artifact is one tracked file. The zero value is not usable; construct via
// ReadFile, FromText or FromAST.
type Artifact struct {
	// ID is the artifact's stable identity, independent of its path.
	ID uuid.UUID

	// Path is the current project-relative location. "" means detached.
	Path string

	// Content is the current text at the current version.
	Content string

	// History is the undo-log, newest entry first. Version is always
	// len(History)+1; version 1 means unmodified.
	History []Change

	Issues    []Issue
	Origin    Origin
	Owner     string
	Timestamp time.Time

	// ast caches the structured representation; nil means derive on demand.
	ast any

	// fileHash is the (path, content) hash captured at the last disk read
	// or write; Write refuses when the disk no longer matches it.
	fileHash string

	parse  func(string) (any, error)
	render func(any) (string, error)
}

// Option configures an artifact at construction time.
type Option func(*Artifact)

// WithOwner sets the owning actor identifier.
func WithOwner(owner string) Option {
	return func(a *Artifact) { a.Owner = owner }
}

// WithConverters installs the parse (content -> structured value) and
// render (structured value -> content) hooks used when one field of an
// update must be re-derived from the other.
func WithConverters(parse func(string) (any, error), render func(any) (string, error)) Option {
	return func(a *Artifact) {
		a.parse = parse
		a.render = render
	}
}

func newArtifact(path, content string, origin Origin, opts []Option) *Artifact {
	base := plugin.NewBase()
	a := &Artifact{
		ID:        uuid.New(),
		Path:      path,
		Content:   content,
		Origin:    origin,
		Owner:     DefaultOwner,
		Timestamp: time.Now(),
		parse:     func(text string) (any, error) { return base.Parse(text, nil) },
		render:    func(v any) (string, error) { return base.RenderAST(v, nil) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.fileHash = a.Hash()
	return a
}

// ReadFile creates an artifact from a file on disk under dir. The recorded
// path is project-relative.
func ReadFile(dir, path string, opts ...Option) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return newArtifact(path, string(data), OriginFile, opts), nil
}

// FromText creates an artifact from in-memory content. path may be "" for a
// detached artifact.
func FromText(path, content string, opts ...Option) *Artifact {
	return newArtifact(path, content, OriginText, opts)
}

// FromAST creates an artifact from a structured value, deriving the initial
// content through the render hook.
func FromAST(path string, value any, opts ...Option) (*Artifact, error) {
	a := newArtifact(path, "", OriginAST, opts)
	content, err := a.render(value)
	if err != nil {
		return nil, fmt.Errorf("rendering initial value: %w", err)
	}
	a.Content = content
	a.ast = value
	a.fileHash = a.Hash()
	return a, nil
}

// Version is always len(History)+1; an artifact at version 1 is unmodified.
func (a *Artifact) Version() int {
	return len(a.History) + 1
}

// Updated reports whether the artifact has any recorded change.
func (a *Artifact) Updated() bool {
	return len(a.History) > 0
}

// Hash is the content hash of the current (path, content) pair. It is
// consistent with the current version only; historical versions are
// reconstructed, not hashed.
func (a *Artifact) Hash() string {
	h := sha256.New()
	h.Write([]byte(a.Path))
	h.Write([]byte{0})
	h.Write([]byte(a.Content))
	return hex.EncodeToString(h.Sum(nil))
}

// AST returns the structured representation at the current version,
// deriving it from the content on first use.
func (a *Artifact) AST() (any, error) {
	if a.ast != nil {
		return a.ast, nil
	}
	return a.parse(a.Content)
}

// Update applies one change by actor to field and returns the new artifact
// value. Updating with a value equal to the field's current value is a
// no-op returning the same artifact with no log entry; staleness checks
// downstream rely on that exactly.
//
// An update to FieldAST re-derives the content through the render hook and
// logs the content change; an update to FieldContent invalidates the cached
// structured form so it is re-parsed on demand. Exactly one of the two is
// authoritative per call.
func (a *Artifact) Update(by string, field Field, value any) (*Artifact, error) {
	if by == "" {
		by = DefaultOwner
	}
	switch field {
	case FieldPath:
		path, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("path value must be a string, got %T", value)
		}
		if path == a.Path {
			return a, nil
		}
		next := a.clone()
		next.History = prepend(a.History, Change{Field: FieldPath, By: by, Value: a.Path})
		next.Path = path
		next.Timestamp = time.Now()
		return next, nil

	case FieldContent:
		content, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("content value must be a string, got %T", value)
		}
		if content == a.Content {
			return a, nil
		}
		next := a.clone()
		next.History = prepend(a.History, Change{Field: FieldContent, By: by, Value: a.Content})
		next.Content = content
		next.ast = nil
		next.Timestamp = time.Now()
		return next, nil

	case FieldAST:
		content, err := a.render(value)
		if err != nil {
			return nil, fmt.Errorf("rendering updated value: %w", err)
		}
		if content == a.Content {
			return a, nil
		}
		next := a.clone()
		next.History = prepend(a.History, Change{Field: FieldContent, By: by, Value: a.Content})
		next.Content = content
		next.ast = value
		next.Timestamp = time.Now()
		return next, nil

	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
}

// At reconstructs the value of field at version, folding the most recent
// (len(History) - version + 1) log entries onto the current value. Valid
// versions are 1 through Version(); anything else is a programming error
// and panics.
func (a *Artifact) At(field Field, version int) any {
	if version < 1 || version > a.Version() {
		panic(fmt.Sprintf("ledger: version %d out of range 1..%d", version, a.Version()))
	}
	var current any
	switch field {
	case FieldPath:
		current = a.Path
	case FieldContent:
		current = a.Content
	default:
		panic(fmt.Sprintf("ledger: field %q is not versioned", field))
	}
	for _, change := range a.History[:len(a.History)-(version-1)] {
		if change.Field == field {
			current = change.Value
		}
	}
	return current
}

// AddIssue records a problem against the current version.
func (a *Artifact) AddIssue(err error) *Artifact {
	next := a.clone()
	next.Issues = append(append([]Issue(nil), a.Issues...), Issue{Version: a.Version(), Err: err})
	return next
}

func (a *Artifact) clone() *Artifact {
	next := *a
	return &next
}

// prepend builds a fresh log slice so the old artifact's history is never
// shared with a mutated backing array.
func prepend(history []Change, change Change) []Change {
	next := make([]Change, 0, len(history)+1)
	next = append(next, change)
	return append(next, history...)
}
