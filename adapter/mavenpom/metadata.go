package mavenpom

import "encoding/xml"

// mavenMetadata is the subset of maven-metadata.xml this adapter needs:
// the repository-wide list of published versions. Grounded on
// deps.dev/util/maven's Metadata/Versioning types.
type mavenMetadata struct {
	GroupID    pomString  `xml:"groupId"`
	ArtifactID pomString  `xml:"artifactId"`
	Versioning versioning `xml:"versioning"`
}

type versioning struct {
	Latest   pomString   `xml:"latest"`
	Release  pomString   `xml:"release"`
	Versions []pomString `xml:"versions>version"`
}

func parseMetadata(data []byte) (mavenMetadata, error) {
	var m mavenMetadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return mavenMetadata{}, err
	}
	return m, nil
}
