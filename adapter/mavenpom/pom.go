// Package mavenpom is a concrete client.DescriptorReader/client.RangeResolver
// pair that reads real Maven repository layouts: pom.xml for descriptors,
// maven-metadata.xml for version ranges. It is the one place in this module
// that performs network I/O; the core (collect/policy/transform) never
// imports it directly, mirroring how the teacher keeps its resolve.Client
// implementations (e.g. a Maven-specific one) outside the generic resolver.
package mavenpom

import (
	"encoding/xml"
	"strings"
)

// pomString is a Maven pom.xml string field with interpolation support,
// grounded on deps.dev/util/maven's String type: XML unmarshal trims
// surrounding whitespace, and a raw ${prop} placeholder is resolved
// separately by interpolate.
type pomString string

func (s *pomString) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var str string
	if err := d.DecodeElement(&str, &start); err != nil {
		return err
	}
	*s = pomString(strings.TrimSpace(str))
	return nil
}

func (s pomString) containsProperty() bool {
	i := strings.Index(string(s), "${")
	return i >= 0 && strings.Contains(string(s)[i+2:], "}")
}

// projectKey identifies a pom.xml project or its parent.
type projectKey struct {
	GroupID    pomString `xml:"groupId,omitempty"`
	ArtifactID pomString `xml:"artifactId,omitempty"`
	Version    pomString `xml:"version,omitempty"`
}

type pomParent struct {
	projectKey
	RelativePath pomString `xml:"relativePath,omitempty"`
}

// pomProperties holds the name/value pairs declared in a <properties>
// block. Grounded on deps.dev/util/maven's Properties.UnmarshalXML: each
// child element's tag name is the property name, its text content the
// value.
type pomProperties struct {
	entries []pomProperty
}

type pomProperty struct {
	Name  string
	Value string
}

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var s string
			if err := d.DecodeElement(&s, &t); err != nil {
				return err
			}
			p.entries = append(p.entries, pomProperty{Name: t.Name.Local, Value: strings.TrimSpace(s)})
		case xml.EndElement:
			return nil
		}
	}
}

type pomExclusion struct {
	GroupID    pomString `xml:"groupId,omitempty"`
	ArtifactID pomString `xml:"artifactId,omitempty"`
}

type pomDependency struct {
	GroupID    pomString      `xml:"groupId,omitempty"`
	ArtifactID pomString      `xml:"artifactId,omitempty"`
	Version    pomString      `xml:"version,omitempty"`
	Type       pomString      `xml:"type,omitempty"`
	Classifier pomString      `xml:"classifier,omitempty"`
	Scope      pomString      `xml:"scope,omitempty"`
	Optional   pomString      `xml:"optional,omitempty"`
	Exclusions []pomExclusion `xml:"exclusions>exclusion,omitempty"`
}

func (d pomDependency) extension() string {
	if d.Type == "" {
		return "jar"
	}
	return string(d.Type)
}

type pomDependencyManagement struct {
	Dependencies []pomDependency `xml:"dependencies>dependency,omitempty"`
}

type pomRelocation struct {
	GroupID    pomString `xml:"groupId,omitempty"`
	ArtifactID pomString `xml:"artifactId,omitempty"`
	Version    pomString `xml:"version,omitempty"`
}

type pomDistributionManagement struct {
	Relocation pomRelocation `xml:"relocation,omitempty"`
}

type pomRepository struct {
	ID  pomString `xml:"id,omitempty"`
	URL pomString `xml:"url,omitempty"`
}

// pomProject is the subset of the Maven POM model (§ project descriptor)
// this adapter needs, grounded on deps.dev/util/maven's Project struct
// trimmed to the fields the collector's DescriptorResult actually uses:
// coordinates, parent, properties, dependency management, dependencies,
// repositories, and relocation.
type pomProject struct {
	projectKey

	Parent                 pomParent                 `xml:"parent,omitempty"`
	Packaging              pomString                 `xml:"packaging,omitempty"`
	Properties             pomProperties              `xml:"properties,omitempty"`
	DependencyManagement   pomDependencyManagement    `xml:"dependencyManagement,omitempty"`
	Dependencies           []pomDependency            `xml:"dependencies>dependency,omitempty"`
	Repositories           []pomRepository            `xml:"repositories>repository,omitempty"`
	DistributionManagement pomDistributionManagement `xml:"distributionManagement,omitempty"`
}

func parsePOM(data []byte) (pomProject, error) {
	var p pomProject
	if err := xml.Unmarshal(data, &p); err != nil {
		return pomProject{}, err
	}
	return p, nil
}

// mergeParent fills in fields p leaves empty from parent, and appends
// parent's dependencies/dependencyManagement/properties/repositories —
// the same "child wins, parent fills gaps" rule as
// deps.dev/util/maven Project.MergeParent.
func (p *pomProject) mergeParent(parent pomProject) {
	if p.GroupID == "" {
		p.GroupID = parent.GroupID
	}
	if p.Version == "" {
		p.Version = parent.Version
	}
	p.Properties.entries = append(append([]pomProperty(nil), parent.Properties.entries...), p.Properties.entries...)
	p.DependencyManagement.Dependencies = append(p.DependencyManagement.Dependencies, parent.DependencyManagement.Dependencies...)
	p.Dependencies = append(p.Dependencies, parent.Dependencies...)
	p.Repositories = append(p.Repositories, parent.Repositories...)
}
