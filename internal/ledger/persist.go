package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileChanged reports whether the file under dir no longer matches the hash
// recorded when the artifact was last read or written. A missing file is
// not treated as an external change; there is nothing to clobber.
func (a *Artifact) FileChanged(dir string) bool {
	if a.Path == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Path)))
	if err != nil {
		return false
	}
	h := sha256.New()
	h.Write([]byte(a.Path))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)) != a.fileHash
}

// Write persists the current content under dir and returns the artifact at
// a fresh version-1 baseline: the undo-log and issue list are cleared and
// the recorded file hash is reset.
//
// It refuses with MissingPathError when the artifact is detached and with
// ExternalChangeError when the on-disk content drifted from the recorded
// hash, unless force is set. An unmodified artifact is not rewritten unless
// forced; persistence is idempotent.
func (a *Artifact) Write(dir string, force bool) (*Artifact, error) {
	if a.Path == "" {
		return nil, &MissingPathError{ID: a.ID.String()}
	}
	if !a.Updated() && !force {
		return a, nil
	}
	if !force && a.FileChanged(dir) {
		return nil, &ExternalChangeError{Path: a.Path}
	}

	full := filepath.Join(dir, filepath.FromSlash(a.Path))
	if parent := filepath.Dir(full); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", parent, err)
		}
	}
	if err := os.WriteFile(full, []byte(a.Content), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", a.Path, err)
	}

	next := a.clone()
	next.History = nil
	next.Issues = nil
	next.fileHash = next.Hash()
	return next, nil
}
