package uniqueid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const EngineSegmentType = "engine"

var ErrMalformedID = errors.New("malformed unique id")

type Segment struct {
	Type  string
	Value string
}

func (s Segment) String() string {
	return "[" + encode(s.Type) + ":" + encode(s.Value) + "]"
}

// ID is safe to share between goroutines. Append never mutates the receiver.
type ID struct {
	segments []Segment
}

// ForEngine returns the root identifier of a test engine.
func ForEngine(engine string) ID {
	return ID{segments: []Segment{{Type: EngineSegmentType, Value: engine}}}
}

// Append returns a new ID extended by one segment.
func (id ID) Append(segmentType, value string) ID {
	segments := make([]Segment, len(id.segments), len(id.segments)+1)
	copy(segments, id.segments)
	return ID{segments: append(segments, Segment{Type: segmentType, Value: value})}
}

func (id ID) Segments() []Segment {
	out := make([]Segment, len(id.segments))
	copy(out, id.segments)
	return out
}

// Last returns the final segment, or false for the zero ID.
func (id ID) Last() (Segment, bool) {
	if len(id.segments) == 0 {
		return Segment{}, false
	}
	return id.segments[len(id.segments)-1], true
}

func (id ID) IsZero() bool {
	return len(id.segments) == 0
}

// HasPrefix reports whether other is id itself or one of its ancestors.
func (id ID) HasPrefix(other ID) bool {
	if len(other.segments) > len(id.segments) {
		return false
	}
	for i, s := range other.segments {
		if id.segments[i] != s {
			return false
		}
	}
	return true
}

func (id ID) Equal(other ID) bool {
	return len(id.segments) == len(other.segments) && id.HasPrefix(other)
}

func (id ID) String() string {
	parts := make([]string, len(id.segments))
	for i, s := range id.segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// Parse reverses String.
func Parse(s string) (ID, error) {
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty", ErrMalformedID)
	}
	var segments []Segment
	for _, part := range strings.Split(s, "/") {
		if !strings.HasPrefix(part, "[") || !strings.HasSuffix(part, "]") {
			return ID{}, fmt.Errorf("%w: segment %q is not bracketed", ErrMalformedID, part)
		}
		rawType, rawValue, ok := strings.Cut(part[1:len(part)-1], ":")
		if !ok {
			return ID{}, fmt.Errorf("%w: segment %q has no type", ErrMalformedID, part)
		}
		segmentType, err := url.PathUnescape(rawType)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %v", ErrMalformedID, err)
		}
		value, err := url.PathUnescape(rawValue)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %v", ErrMalformedID, err)
		}
		segments = append(segments, Segment{Type: segmentType, Value: value})
	}
	return ID{segments: segments}, nil
}

var encoder = strings.NewReplacer(
	"%", "%25",
	":", "%3A",
	"/", "%2F",
	"[", "%5B",
	"]", "%5D",
)

func encode(s string) string {
	return encoder.Replace(s)
}
