// Package version provides version and build information of the PDP server.
package version

// BuildDate is the date when the binary was built
var BuildDate string

// GitCommit is the commit hash when the binary was built
var GitCommit string

// Version is the version of the compiled software
var Version string

// Info is a struct helpful for JSON serialization of the PDP server version information.
type Info struct {
	// Version is the version of the PDP server.
	Version string `json:"version,omitempty"`

	// GitCommit is the git commit hash of the PDP server.
	GitCommit string `json:"git_commit,omitempty"`

	// BuildDate is the build date of the PDP server.
	BuildDate string `json:"build_date,omitempty"`
}
