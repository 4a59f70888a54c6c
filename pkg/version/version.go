package version

import "runtime"

// Set at build time with -ldflags "-X github.com/openshift/runtime-summary/pkg/version.gitCommit=..."
var (
	gitCommit = "unknown"
	buildDate = "unknown"
)

type Info struct {
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func Get() Info {
	return Info{
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
