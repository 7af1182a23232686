package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path), path)
}

// LoadFs loads the configuration from the root of configFs, dir is used to
// resolve paths handed to the shell.
func LoadFs(configFs afero.Fs, dir string) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	out.configFs = configFs
	out.dir = dir
	return &out, nil
}

// Initialize writes the default configuration to dir. Existing files are
// left untouched.
func Initialize(dir string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

func InitializeFs(osFs afero.Fs, dir string, logger *log.Logger) error {
	logger.Printf("Initializing configuration in %q\n", dir)
	if err := osFs.MkdirAll(filepath.Join(dir, HooksDirName), 0700); err != nil {
		return err
	}

	configFs := afero.NewBasePathFs(osFs, dir)
	switch _, err := configFs.Stat(ConfigurationName); {
	case err == nil:
		logger.Printf("- %s already exists, skipping\n", ConfigurationName)
	case errors.Is(err, fs.ErrNotExist):
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return err
		}
		logger.Printf("- Wrote %s\n", ConfigurationName)
	default:
		return err
	}

	fd, err := configFs.OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	logger.Printf("- Event log: %s\n", filepath.Join(dir, AppLogName))
	return fd.Close()
}
