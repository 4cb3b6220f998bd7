// Package logging builds the slog loggers used by the commands.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler writes one JSON object per record with keys in emission order:
// time, level, msg, source (optional), then attributes. Groups become
// nested objects. With Indent set each object spans several lines, which
// reads better in a terminal than slog's JSONHandler.
type Handler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool
	indent    bool

	// preformatted attrs from WithAttrs, already nested under groups
	attrs  []field
	groups []string
}

type field struct {
	key   string
	value any
}

// object keeps insertion order so output is stable across runs.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(f.key))
		buf.WriteByte(':')
		b, err := json.Marshal(f.value)
		if err != nil {
			b, _ = json.Marshal(fmt.Sprint(f.value))
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func NewHandler(w io.Writer, indent bool, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		w:      w,
		mu:     &sync.Mutex{},
		level:  slog.LevelInfo,
		indent: indent,
	}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	out := object{
		{"time", when.Format(time.RFC3339Nano)},
		{"level", r.Level.String()},
		{"msg", r.Message},
	}
	if h.addSource {
		if src := sourceFromPC(r.PC); src != "" {
			out = append(out, field{"source", src})
		}
	}

	var recAttrs object
	r.Attrs(func(a slog.Attr) bool {
		recAttrs = appendAttr(recAttrs, a)
		return true
	})
	out = append(out, h.attrs...)
	out = mergeAt(out, h.groups, recAttrs)

	var b []byte
	var err error
	if h.indent {
		b, err = json.MarshalIndent(out, "", "  ")
	} else {
		b, err = json.Marshal(out)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var add object
	for _, a := range attrs {
		add = appendAttr(add, a)
	}
	clone := *h
	clone.attrs = mergeAt(append(object(nil), h.attrs...), h.groups, add)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// mergeAt appends add to the object found by walking groups from root,
// creating the nested objects as needed.
func mergeAt(root object, groups []string, add object) object {
	if len(add) == 0 {
		return root
	}
	if len(groups) == 0 {
		// full slice expression: root may share its array with a parent handler
		return append(root[:len(root):len(root)], add...)
	}
	for i := range root {
		if root[i].key == groups[0] {
			if child, ok := root[i].value.(object); ok {
				root[i].value = mergeAt(child, groups[1:], add)
				return root
			}
		}
	}
	return append(root, field{groups[0], mergeAt(nil, groups[1:], add)})
}

func appendAttr(dst object, a slog.Attr) object {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		var child object
		for _, ga := range v.Group() {
			child = appendAttr(child, ga)
		}
		if len(child) == 0 {
			return dst
		}
		if a.Key == "" {
			return append(dst, child...)
		}
		return append(dst, field{a.Key, child})
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{a.Key, valueToAny(v)})
}

func valueToAny(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}

func sourceFromPC(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
