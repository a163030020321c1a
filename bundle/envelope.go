package bundle

import "github.com/ethereum/go-ethereum/common"

// Envelope is the user-facing input record: an opaque payload plus an
// optional target address and an ordered list of tags. An Envelope is
// immutable once built by EnvelopeBuilder.Build.
type Envelope struct {
	Data   []byte
	Target *common.Address
	Tags   Tags
}

// EnvelopeBuilder constructs an Envelope with three optional setters,
// validating invariants on Build.
type EnvelopeBuilder struct {
	data   []byte
	target *common.Address
	tags   Tags
}

// NewEnvelopeBuilder returns an empty EnvelopeBuilder.
func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{}
}

// Data sets the envelope's opaque payload.
func (b *EnvelopeBuilder) Data(data []byte) *EnvelopeBuilder {
	b.data = data
	return b
}

// Target sets the envelope's target address.
func (b *EnvelopeBuilder) Target(target common.Address) *EnvelopeBuilder {
	b.target = &target
	return b
}

// WithTag appends a single tag. It may be called multiple times to build the
// tag list incrementally, matching the original builder's add_envelope-style
// ergonomics.
func (b *EnvelopeBuilder) WithTag(name, value string) *EnvelopeBuilder {
	b.tags = append(b.tags, Tag{Name: name, Value: value})
	return b
}

// SetTags sets the envelope's full tag list in one call, replacing any tags
// added via WithTag so far.
func (b *EnvelopeBuilder) SetTags(tags Tags) *EnvelopeBuilder {
	b.tags = tags
	return b
}

// Build validates and returns the Envelope. data must be non-empty and the
// serialized tag list must be within TagsSizeLimit.
func (b *EnvelopeBuilder) Build() (*Envelope, error) {
	if len(b.data) == 0 {
		return nil, ErrDataRequired
	}
	if err := b.tags.Validate(); err != nil {
		return nil, err
	}
	return &Envelope{
		Data:   b.data,
		Target: b.target,
		Tags:   b.tags,
	}, nil
}
