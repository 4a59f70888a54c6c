package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift/runtime-summary/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the optional configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"YAML configuration file listing the tracked workflows and comparison policies")
}

// GetConfig loads the configuration file, or returns an empty configuration
// when no file was given.
func (f *ConfigFlags) GetConfig() (*v1.SummaryConfig, error) {
	var summaryConfig v1.SummaryConfig

	if f.Path == "" {
		return &summaryConfig, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, &summaryConfig); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}

	return &summaryConfig, nil
}
