// ABOUTME: Registry of feature flag state and group membership for API operations.
// ABOUTME: Populated once at startup; lookups are pure and deterministic.

package flags

import (
	"sort"
	"strings"
)

// GroupName converts an OpenAPI tag into a feature group name:
// "Device Reporting" becomes "device-reporting". The transform is total, so
// two tags differing only in spacing or case collapse to the same group.
func GroupName(tag string) string {
	return strings.ReplaceAll(strings.ToLower(tag), " ", "-")
}

// member identifies one API operation within a group.
type member struct {
	path   string
	method string
}

// Registry is the single source of truth for "is group X enabled" and
// "does operation (path, method) belong to group X".
type Registry struct {
	flags  map[string]bool
	groups map[string]map[member]struct{}
}

// NewRegistry creates a registry with the given flag state. The flag map is
// copied; flags are not hot-reloaded for the process lifetime.
func NewRegistry(flagState map[string]bool) *Registry {
	flags := make(map[string]bool, len(flagState))
	for name, enabled := range flagState {
		flags[name] = enabled
	}
	return &Registry{
		flags:  flags,
		groups: make(map[string]map[member]struct{}),
	}
}

// RegisterMember adds the (path, method) pair to the named group, creating
// the group if absent. Registration is idempotent.
func (r *Registry) RegisterMember(group, path, method string) {
	set, ok := r.groups[group]
	if !ok {
		set = make(map[member]struct{})
		r.groups[group] = set
	}
	set[member{path: path, method: strings.ToUpper(method)}] = struct{}{}
}

// IsEnabled reports whether the operation is enabled under the current flag
// state. With no flags and no groups at all, everything is enabled (the
// ungated legacy mode). Groups are scanned in lexicographic order so that an
// operation registered under several groups always resolves the same way.
func (r *Registry) IsEnabled(path, method string) bool {
	if len(r.flags) == 0 && len(r.groups) == 0 {
		return true
	}

	m := member{path: path, method: strings.ToUpper(method)}
	for _, group := range r.groupNames() {
		if _, ok := r.groups[group][m]; ok {
			// Zero value for an unflagged group is false: fail closed.
			return r.flags[group]
		}
	}

	// Not in any group: fail open.
	return true
}

// EnabledGroups returns the sorted names of all groups flagged on.
func (r *Registry) EnabledGroups() []string {
	return r.flagNames(true)
}

// DisabledGroups returns the sorted names of all groups flagged off.
func (r *Registry) DisabledGroups() []string {
	return r.flagNames(false)
}

// GroupCount returns the number of registered groups.
func (r *Registry) GroupCount() int {
	return len(r.groups)
}

func (r *Registry) groupNames() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) flagNames(enabled bool) []string {
	var names []string
	for name, value := range r.flags {
		if value == enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
