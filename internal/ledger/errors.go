package ledger

import "fmt"

// MissingPathError reports a write attempted on a detached artifact.
type MissingPathError struct {
	ID string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("artifact %s has no path to write to", e.ID)
}

// ExternalChangeError reports that the on-disk content no longer matches
// the hash recorded when the artifact was last read or written. Callers may
// force the write to overrule it.
type ExternalChangeError struct {
	Path string
}

func (e *ExternalChangeError) Error() string {
	return fmt.Sprintf("file %s was changed externally since it was read", e.Path)
}
