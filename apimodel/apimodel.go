/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

// Package apimodel maps Go model structs to Webex wire payloads.
//
// Webex payloads use camelCase keys. Model fields carry the wire name in their
// json tag; the snake_case attribute name is derived from it. Aliases lets a
// caller override the derived mapping for names that do not convert cleanly
// (for example "e164" style acronyms).
//
// Decoding honours a Strictness mode at every nesting level: unknown keys are
// either kept in the enclosing model's Extra field, silently dropped, or
// rejected.
package apimodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
)

// Strictness controls what happens to payload keys that no model field maps to.
type Strictness int

const (
	// Allow keeps unknown keys in the model's Extra field (if it has one).
	Allow Strictness = iota
	// Ignore drops unknown keys.
	Ignore
	// Forbid rejects payloads with unknown keys.
	Forbid
)

// String returns the name of the strictness mode.
func (s Strictness) String() string {
	switch s {
	case Allow:
		return "allow"
	case Ignore:
		return "ignore"
	case Forbid:
		return "forbid"
	default:
		return fmt.Sprintf("Strictness(%d)", int(s))
	}
}

// ParseStrictness parses "allow", "ignore" or "forbid".
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return Allow, nil
	case "ignore":
		return Ignore, nil
	case "forbid", "strict":
		return Forbid, nil
	}
	return Allow, fmt.Errorf("unknown strictness %q", s)
}

// Extra holds payload keys that no model field maps to. A model, nested or
// not, opts into preservation by declaring a field of this type tagged
// `json:"-"`.
type Extra map[string]json.RawMessage

// UnknownFieldError is returned by Unmarshal in Forbid mode. Fields holds the
// paths of the rejected keys, e.g. "addresses[0].floor".
type UnknownFieldError struct {
	Type   string
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown fields: %s", e.Type, strings.Join(e.Fields, ", "))
}

// Ptr returns a pointer to v, for populating optional model fields.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Aliases maps snake_case attribute names to wire names that differ from the
// default lowerCamel conversion.
type Aliases map[string]string

// ToWire returns the wire name for a snake_case attribute.
func (a Aliases) ToWire(attr string) string {
	if w, ok := a[attr]; ok {
		return w
	}
	return strcase.ToLowerCamel(attr)
}

// ToAttr returns the snake_case attribute for a wire name.
func (a Aliases) ToAttr(wire string) string {
	for attr, w := range a {
		if w == wire {
			return attr
		}
	}
	return strcase.ToSnake(wire)
}

// Field describes one serialized struct field.
type Field struct {
	GoName    string
	Wire      string
	Attr      string
	OmitEmpty bool

	index []int
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the serialized fields of a struct type, flattening embedded
// structs the way encoding/json does.
func Fields(t reflect.Type) []Field {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for _, f := range Fields(ft) {
					f.index = append([]int{i}, f.index...)
					fields = append(fields, f)
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, Field{
			GoName:    sf.Name,
			Wire:      name,
			Attr:      strcase.ToSnake(name),
			OmitEmpty: strings.Contains(opts, "omitempty"),
			index:     []int{i},
		})
	}

	fieldCache.Store(t, fields)
	return fields
}

// AliasesOf returns the explicit aliases a struct type needs: fields whose
// wire name is not the lowerCamel form of their snake_case attribute.
func AliasesOf(t reflect.Type) Aliases {
	aliases := Aliases{}
	for _, f := range Fields(t) {
		if strcase.ToLowerCamel(f.Attr) != f.Wire {
			aliases[f.Attr] = f.Wire
		}
	}
	return aliases
}

// Unmarshal decodes JSON into v and applies the strictness mode to keys that
// the target does not declare, descending into nested structs, pointers,
// slices and maps. v is left untouched when an error is returned.
func Unmarshal(data []byte, v any, mode Strictness) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return json.Unmarshal(data, v)
	}

	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return err
	}
	if mode != Ignore {
		w := &walker{mode: mode}
		w.walk(fresh.Elem(), data, "")
		if mode == Forbid && len(w.unknown) > 0 {
			sort.Strings(w.unknown)
			return &UnknownFieldError{Type: typeName(rv.Elem().Type()), Fields: w.unknown}
		}
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// Marshal encodes v as JSON. Keys held in Extra fields are merged back in at
// every nesting level; declared fields win on conflict.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mergeExtra(reflect.ValueOf(v), data)
}

var (
	extraType       = reflect.TypeOf(Extra(nil))
	marshalerType   = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// walker collects unknown keys of a decoded value and, in Allow mode, stores
// them in the Extra field of the struct they belong to.
type walker struct {
	mode    Strictness
	unknown []string
}

func (w *walker) walk(v reflect.Value, raw json.RawMessage, path string) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() == extraType || reflect.PointerTo(v.Type()).Implements(unmarshalerType) {
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		w.walkStruct(v, raw, path)
	case reflect.Slice, reflect.Array:
		var elems []json.RawMessage
		if json.Unmarshal(raw, &elems) != nil {
			return
		}
		for i := 0; i < len(elems) && i < v.Len(); i++ {
			w.walk(v.Index(i), elems[i], fmt.Sprintf("%s[%d]", path, i))
		}
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String || !v.CanInterface() {
			return
		}
		var entries map[string]json.RawMessage
		if json.Unmarshal(raw, &entries) != nil {
			return
		}
		for k, val := range entries {
			key := reflect.ValueOf(k).Convert(v.Type().Key())
			cur := v.MapIndex(key)
			if !cur.IsValid() {
				continue
			}
			// map elements are not addressable
			elem := reflect.New(cur.Type()).Elem()
			elem.Set(cur)
			w.walk(elem, val, joinPath(path, k))
			v.SetMapIndex(key, elem)
		}
	}
}

func (w *walker) walkStruct(v reflect.Value, raw json.RawMessage, path string) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return
	}

	fields := Fields(v.Type())
	var extra Extra
	for k, val := range obj {
		f, ok := lookupField(fields, k)
		if !ok {
			w.unknown = append(w.unknown, joinPath(path, k))
			if extra == nil {
				extra = Extra{}
			}
			extra[k] = val
			continue
		}
		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			continue
		}
		w.walk(fv, val, joinPath(path, k))
	}

	if w.mode == Allow && extra != nil {
		if ef, ok := extraField(v); ok && ef.CanSet() {
			ef.Set(reflect.ValueOf(extra))
		}
	}
}

// lookupField matches a key the way encoding/json does: exact name first,
// then case-insensitively.
func lookupField(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Wire == key {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.Wire, key) {
			return f, true
		}
	}
	return Field{}, false
}

func mergeExtra(v reflect.Value, data json.RawMessage) (json.RawMessage, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return data, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return data, nil
	}
	t := v.Type()
	if t == extraType || t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType) {
		return data, nil
	}

	switch v.Kind() {
	case reflect.Struct:
		return mergeStruct(v, data)
	case reflect.Slice, reflect.Array:
		var elems []json.RawMessage
		if json.Unmarshal(data, &elems) != nil || len(elems) != v.Len() {
			return data, nil
		}
		changed := false
		for i := range elems {
			merged, err := mergeExtra(v.Index(i), elems[i])
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(merged, elems[i]) {
				elems[i] = merged
				changed = true
			}
		}
		if !changed {
			return data, nil
		}
		return json.Marshal(elems)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return data, nil
		}
		var entries map[string]json.RawMessage
		if json.Unmarshal(data, &entries) != nil {
			return data, nil
		}
		changed := false
		for k, raw := range entries {
			cur := v.MapIndex(reflect.ValueOf(k).Convert(t.Key()))
			if !cur.IsValid() {
				continue
			}
			merged, err := mergeExtra(cur, raw)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(merged, raw) {
				entries[k] = merged
				changed = true
			}
		}
		if !changed {
			return data, nil
		}
		return json.Marshal(entries)
	}
	return data, nil
}

func mergeStruct(v reflect.Value, data json.RawMessage) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(data, &obj) != nil {
		return data, nil
	}

	changed := false
	for _, f := range Fields(v.Type()) {
		raw, ok := obj[f.Wire]
		if !ok {
			continue
		}
		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			continue
		}
		merged, err := mergeExtra(fv, raw)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(merged, raw) {
			obj[f.Wire] = merged
			changed = true
		}
	}

	if ef, ok := extraField(v); ok && ef.CanInterface() {
		for k, val := range ef.Interface().(Extra) {
			if _, exists := obj[k]; !exists {
				obj[k] = val
				changed = true
			}
		}
	}
	if !changed {
		return data, nil
	}
	return json.Marshal(obj)
}

func extraField(v reflect.Value) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Type == extraType && sf.IsExported() {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
