package project

// FormatVersion is the current descriptor format version. The format of
// resource files may change between releases; the version stamped into the
// descriptor records which format a project was written in.
const FormatVersion = 13

// moduleConfigVersion is the format version that introduced the modules
// block in the descriptor. Descriptors older than this carry no module
// configuration at all.
const moduleConfigVersion = 13

// DescriptorFilename is the default name of the project descriptor file.
const DescriptorFilename = "project.rompack"

// versionNames maps descriptor format versions to the releases that wrote
// them.
var versionNames = map[int]string{
	1:  "0.1",
	2:  "0.2",
	3:  "0.3",
	4:  "0.4",
	5:  "0.5",
	6:  "0.6",
	7:  "0.7",
	8:  "0.8",
	9:  "0.9",
	10: "1.0",
	11: "1.1",
	12: "1.2",
	13: "1.3",
}

// VersionName returns the release name for a descriptor format version, or
// "unknown version" for versions this build does not know about.
func VersionName(version int) string {
	if name, ok := versionNames[version]; ok {
		return name
	}
	return "unknown version"
}
