package bundle

import "strings"

// Tag is an ordered key/value metadata pair attached to an Envelope. Duplicate
// names are permitted; readers are expected to perform case-insensitive
// lookups.
type Tag struct {
	Name  string
	Value string
}

// Tags is an ordered list of Tag. Order is preserved through encode/decode.
type Tags []Tag

// TotalSize returns the serialized size used for the TagsSizeLimit check: the
// sum of each tag's name and value byte lengths.
func (t Tags) TotalSize() int {
	size := 0
	for _, tag := range t {
		size += len(tag.Name) + len(tag.Value)
	}
	return size
}

// Validate enforces the TagsSizeLimit invariant.
func (t Tags) Validate() error {
	if t.TotalSize() > TagsSizeLimit {
		return ErrTagsTooLarge
	}
	return nil
}

// Get returns the value of the first tag matching name, case-insensitively,
// and whether it was found.
func (t Tags) Get(name string) (string, bool) {
	for _, tag := range t {
		if strings.EqualFold(tag.Name, name) {
			return tag.Value, true
		}
	}
	return "", false
}

// With returns a copy of t with an additional tag appended.
func (t Tags) With(name, value string) Tags {
	out := make(Tags, len(t), len(t)+1)
	copy(out, t)
	return append(out, Tag{Name: name, Value: value})
}
