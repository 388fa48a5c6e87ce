package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/dem/internal/ui/output"
	"go.trai.ch/dem/internal/ui/style"
)

// Attribute keys with a dedicated rendering.
const (
	ErrorKey   = "error"
	PackageKey = "package"
	MethodKey  = "method"
)

// PrettyHandler is a slog.Handler that writes colored, human-readable lines.
//
// Package and method attributes scope the line ("gcc (rpm): msg") instead of
// trailing it, and an error attribute is expanded into its cause chain. The
// same scope is lifted out of the chain's metadata when the reconciler put it
// there.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sc scope
	var cause error
	var trailing []string

	// Errors are inspected before resolving: zerr errors are slog.LogValuers
	// and would otherwise collapse into a group.
	take := func(key string, v slog.Value) {
		if key == ErrorKey && v.Kind() == slog.KindAny {
			if err, ok := v.Any().(error); ok {
				cause = err
				return
			}
		}
		v = v.Resolve()
		switch key {
		case PackageKey:
			sc.pkg = v.String()
		case MethodKey:
			sc.method = v.String()
		default:
			trailing = append(trailing, key+"="+v.String())
		}
	}

	for _, attr := range h.attrs {
		take(attr.Key, attr.Value)
	}
	prefix := qualify(h.groups, "")
	r.Attrs(func(attr slog.Attr) bool {
		take(prefix+attr.Key, attr.Value)
		return true
	})

	msg := r.Message
	if cause != nil {
		entries := collectErrorEntries(cause)
		if msg != "" {
			entries = append([]ErrorEntry{{Message: msg}}, entries...)
		}
		entries = sc.lift(entries)
		if len(entries) > 0 {
			entries[0].Message = sc.String() + entries[0].Message
		}
		msg = formatErrorEntries(entries)
	} else {
		msg = sc.String() + msg
	}
	if len(trailing) > 0 {
		msg += " " + strings.Join(trailing, " ")
	}

	var color termenv.Color
	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + msg
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + msg
		color = termenv.RGBColor(string(style.Yellow))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	_, err := h.out.WriteString(h.out.String(msg).Foreground(color).String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended. Keys are
// qualified by the groups open at this point.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	prefix := qualify(h.groups, "")
	for _, attr := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: prefix + attr.Key, Value: attr.Value})
	}
	return &next
}

// WithGroup returns a new Handler that nests later attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(slices.Clone(h.groups), name)
	return &next
}

func qualify(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

// scope names the package a line is about.
type scope struct {
	pkg    string
	method string
}

func (s scope) String() string {
	switch {
	case s.pkg == "":
		return ""
	case s.method == "":
		return s.pkg + ": "
	default:
		return s.pkg + " (" + s.method + "): "
	}
}

// lift moves package and method metadata out of entries into s. The first
// occurrence wins; entries are copied so the error's own metadata is untouched.
func (s *scope) lift(entries []ErrorEntry) []ErrorEntry {
	out := make([]ErrorEntry, len(entries))
	for i, entry := range entries {
		out[i] = entry
		pkg, hasPkg := entry.Metadata[PackageKey]
		method, hasMethod := entry.Metadata[MethodKey]
		if !hasPkg && !hasMethod {
			continue
		}
		if hasPkg && s.pkg == "" {
			s.pkg = stringify(pkg)
		}
		if hasMethod && s.method == "" {
			s.method = stringify(method)
		}

		meta := make(map[string]any, len(entry.Metadata))
		for k, v := range entry.Metadata {
			if k != PackageKey && k != MethodKey {
				meta[k] = v
			}
		}
		out[i].Metadata = meta
	}
	return out
}

func stringify(v any) string {
	return slog.AnyValue(v).String()
}
