package mavenpom

import "strings"

// propertyMap builds the property dictionary used to interpolate ${...}
// placeholders in p, grounded on deps.dev/util/maven's
// Project.propertyMap: explicit <properties> entries first, then the
// project's own groupId/version (and its parent's) under both the bare
// and "project."-prefixed keys, without overwriting an explicit entry of
// the same bare name.
func (p pomProject) propertyMap() map[string]string {
	m := make(map[string]string, len(p.Properties.entries)+4)
	for _, e := range p.Properties.entries {
		m[e.Name] = e.Value
	}
	add := func(key string, v pomString) {
		if v == "" {
			return
		}
		if _, ok := m[key]; !ok {
			m[key] = string(v)
		}
		m["project."+key] = string(v)
	}
	add("groupId", p.GroupID)
	add("version", p.Version)
	add("parent.groupId", p.Parent.GroupID)
	add("parent.version", p.Parent.Version)
	return m
}

// interpolate resolves every ${key} placeholder in s against dict,
// recursively resolving a value that itself contains placeholders and
// detecting cycles via resolving. Grounded on deps.dev/util/maven's
// string.go interpolating function.
func interpolate(s string, dict map[string]string, resolving map[string]bool) (string, bool) {
	resolved := true
	var out strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}")
		if j < 0 {
			break
		}
		out.WriteString(s[:i])
		s = s[i:]
		key := s[2:j]
		if resolving[key] {
			resolved = false
			break
		}
		resolving[key] = true
		if value, ok := dict[key]; ok {
			value, ok = interpolate(value, dict, resolving)
			if !ok {
				resolved = false
			}
			out.WriteString(value)
		} else {
			out.WriteString(s[:j+1])
			resolved = false
		}
		resolving[key] = false
		s = s[j+1:]
	}
	out.WriteString(s)
	return out.String(), resolved
}

func interpolateString(s pomString, dict map[string]string) pomString {
	if !s.containsProperty() {
		return s
	}
	result, _ := interpolate(string(s), dict, make(map[string]bool))
	return pomString(result)
}

// interpolateAll rewrites every interpolatable field of p in place.
// Dependencies whose coordinates remain unresolved after interpolation
// (a placeholder referring to an unknown property) are dropped, matching
// deps.dev/util/maven's Project.Interpolate behavior of only keeping
// successfully-resolved entries.
func (p *pomProject) interpolateAll() {
	dict := p.propertyMap()
	p.GroupID = interpolateString(p.GroupID, dict)
	p.Version = interpolateString(p.Version, dict)
	p.Packaging = interpolateString(p.Packaging, dict)
	p.DistributionManagement.Relocation.GroupID = interpolateString(p.DistributionManagement.Relocation.GroupID, dict)
	p.DistributionManagement.Relocation.ArtifactID = interpolateString(p.DistributionManagement.Relocation.ArtifactID, dict)
	p.DistributionManagement.Relocation.Version = interpolateString(p.DistributionManagement.Relocation.Version, dict)

	deps := make([]pomDependency, 0, len(p.Dependencies))
	for _, dep := range p.Dependencies {
		if interpolateDependency(&dep, dict) {
			deps = append(deps, dep)
		}
	}
	p.Dependencies = deps

	managed := make([]pomDependency, 0, len(p.DependencyManagement.Dependencies))
	for _, dep := range p.DependencyManagement.Dependencies {
		if interpolateDependency(&dep, dict) {
			managed = append(managed, dep)
		}
	}
	p.DependencyManagement.Dependencies = managed
}

func interpolateDependency(dep *pomDependency, dict map[string]string) bool {
	if dep.GroupID == "" || dep.ArtifactID == "" {
		return false
	}
	dep.GroupID = interpolateString(dep.GroupID, dict)
	dep.ArtifactID = interpolateString(dep.ArtifactID, dict)
	dep.Version = interpolateString(dep.Version, dict)
	dep.Scope = interpolateString(dep.Scope, dict)
	dep.Type = interpolateString(dep.Type, dict)
	dep.Classifier = interpolateString(dep.Classifier, dict)
	dep.Optional = interpolateString(dep.Optional, dict)
	return !dep.GroupID.containsProperty() && !dep.ArtifactID.containsProperty()
}
