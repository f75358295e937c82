package docstore

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// TagName is the struct tag that maps entity fields to document keys.
// `doc:"-"` marks a field that is never stored (ids, resolved relations, derived state).
const TagName = "doc"

// fieldInfo contains pre-computed metadata about a struct field.
type fieldInfo struct {
	index     int
	key       string
	omitEmpty bool
}

// typeMetadata contains cached reflection metadata for a type.
type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

var typeCache sync.Map // map[reflect.Type]*typeMetadata

func metadataFor(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() != reflect.Struct {
		typeCache.Store(t, meta)
		return meta
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get(TagName)

		if field.Anonymous && tag == "" && field.IsExported() {
			meta.embeddedIndices = append(meta.embeddedIndices, i)
			continue
		}
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		meta.fields = append(meta.fields, fieldInfo{
			index:     i,
			key:       name,
			omitEmpty: opts == "omitempty",
		})
	}

	typeCache.Store(t, meta)
	return meta
}

// Keys lists the document keys of a struct type, embedded structs included.
func Keys[T any]() []string {
	var zero T
	return keysOf(reflect.TypeOf(zero))
}

func keysOf(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	meta := metadataFor(t)
	keys := make([]string, 0, len(meta.fields))
	for _, fi := range meta.fields {
		keys = append(keys, fi.key)
	}
	for _, idx := range meta.embeddedIndices {
		keys = append(keys, keysOf(t.Field(idx).Type)...)
	}
	return keys
}

// Encode converts an entity to a document using "doc" tags.
// Every tagged field is written; omitempty drops zero values.
func Encode(v any) Document {
	return encode(v, false)
}

// EncodePatch converts a partial update to a document, dropping unset entries.
// patch may be a map (nil values are unset) or a struct whose pointer fields
// carry "doc" tags (nil pointers are unset).
func EncodePatch(patch any) Document {
	switch p := patch.(type) {
	case nil:
		return Document{}
	case Document:
		return encodeMap(p)
	case map[string]any:
		return encodeMap(p)
	}
	return encode(patch, true)
}

func encodeMap(m map[string]any) Document {
	out := make(Document, len(m))
	for k, v := range m {
		if k == IDField {
			continue
		}
		if nv := Normalize(v); nv != nil {
			out[k] = nv
		}
	}
	return out
}

func encode(v any, dropNil bool) Document {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Document{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Document{}
	}

	meta := metadataFor(rv.Type())
	res := make(Document, len(meta.fields))

	for _, fi := range meta.fields {
		fv := rv.Field(fi.index)
		if fi.omitEmpty && fv.IsZero() {
			continue
		}
		val := Normalize(fv.Interface())
		if val == nil && dropNil {
			continue
		}
		res[fi.key] = val
	}

	for _, idx := range meta.embeddedIndices {
		for k, val := range encode(rv.Field(idx).Interface(), dropNil) {
			res[k] = val
		}
	}

	return res
}

// Decode fills out (a pointer to a struct) from doc.
// Numeric drift between backends (int64 vs float64) is tolerated, and
// decimal fields accept their string or numeric form.
func Decode(doc Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(decimalHook),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}
	return data, nil
}
