package event

import "strings"

// DefaultNamespace receives registrations without a namespace suffix
// Publishing a bare topic reaches listeners in every namespace
const DefaultNamespace = "base"

// Name is a resolved (topic, namespace) pair
// "fire.ui" resolves to Topic "fire", Namespace "ui"; "fire" resolves to the default namespace
type Name struct {
	Topic     string
	Namespace string
}

// IsDefault reports whether the name routes through the default namespace
func (n Name) IsDefault() bool {
	return n.Namespace == DefaultNamespace
}

// IsNamespaceOnly reports the ".namespace" form (empty topic, explicit namespace)
func (n Name) IsNamespaceOnly() bool {
	return n.Topic == "" && n.Namespace != DefaultNamespace
}

// String reassembles the dotted form
func (n Name) String() string {
	if n.IsDefault() {
		return n.Topic
	}
	return n.Topic + "." + n.Namespace
}

// ResolveName splits a single dotted specifier into topic and namespace
// Only the first two segments are significant, matching "topic.namespace"
func ResolveName(s string) Name {
	parts := strings.Split(s, ".")
	n := Name{Topic: parts[0], Namespace: DefaultNamespace}
	if len(parts) > 1 && parts[1] != "" {
		n.Namespace = parts[1]
	}
	return n
}

// ParseNames sanitizes and splits a list of specifiers separated by comma, slash or space
// Characters outside [a-zA-Z0-9 ,/.] are dropped before splitting
func ParseNames(names string) []Name {
	var b strings.Builder
	b.Grow(len(names))
	for _, r := range names {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ' ', r == ',', r == '/':
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return nil
	}

	out := make([]Name, 0, len(fields))
	for _, f := range fields {
		out = append(out, ResolveName(f))
	}
	return out
}
