package descriptor

import (
	"encoding/binary"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Well-known field numbers from descriptor.proto, used to build the paths
// that SourceCodeInfo locations are keyed by. These are stable across the
// history of descriptor.proto.
const (
	fileMessageTypeField = 4
	fileEnumTypeField    = 5
	fileServiceField     = 6

	messageFieldField      = 2
	messageNestedTypeField = 3
	messageEnumTypeField   = 4
	messageOneofDeclField  = 8

	enumValueField = 2

	serviceMethodField = 2
)

// docIndex resolves doc comments for elements of a single file's descriptor
// tree, keyed by the element's path in the FileDescriptorProto (the same
// addressing scheme protoc's SourceCodeInfo uses).
type docIndex struct {
	byPath map[string][]*descriptorpb.SourceCodeInfo_Location
}

func newDocIndex(fdp *descriptorpb.FileDescriptorProto) *docIndex {
	idx := &docIndex{byPath: make(map[string][]*descriptorpb.SourceCodeInfo_Location)}
	for _, loc := range fdp.GetSourceCodeInfo().GetLocation() {
		key := pathKey(loc.GetPath())
		idx.byPath[key] = append(idx.byPath[key], loc)
	}
	return idx
}

// doc returns the resolved doc comment for path: leading_comments followed
// by trailing_comments, per spec.md §4.2.
func (idx *docIndex) doc(path []int32) string {
	locs := idx.byPath[pathKey(path)]
	if len(locs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, loc := range locs {
		b.WriteString(loc.GetLeadingComments())
		b.WriteString(loc.GetTrailingComments())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// pathKey converts a location path to a value suitable for use as a map
// key; int32 paths compare by value, not by slice identity, so they must
// be converted to a comparable representation first.
func pathKey(path []int32) string {
	buf := make([]byte, 4*len(path))
	for i, x := range path {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(x))
	}
	return string(buf)
}

func appendPath(path []int32, elems ...int32) []int32 {
	out := make([]int32, 0, len(path)+len(elems))
	out = append(out, path...)
	out = append(out, elems...)
	return out
}
