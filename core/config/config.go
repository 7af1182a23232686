package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	HistoryName       = "history"
	AppLogName        = "app.log"
	HooksDirName      = "hooks"
)

type Configuration struct {
	configFs afero.Fs
	dir      string

	Prompt      string `json:"prompt"`
	HistorySize int    `json:"history_size" validate:"gte=0"`
	Color       string `json:"color" validate:"oneof=always auto never"`

	Aliases   map[string]string `json:"aliases" validate:"dive,keys,required,endkeys,required"`
	Launchers map[string]string `json:"launchers" validate:"dive,keys,startswith=.,endkeys,required"`

	Hooks map[string][]Hook `json:"hooks" validate:"dive,keys,startswith=on_,endkeys,dive"`
}

// Hook is a script run when an event fires.
type Hook struct {
	Action string `json:"action" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir is the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.dir
}

// HistoryPath is the location of the interactive history.
func (c *Configuration) HistoryPath() string {
	return filepath.Join(c.dir, HistoryName)
}

// HookPath resolves the script of a hook action.
func (c *Configuration) HookPath(action string) string {
	if filepath.IsAbs(action) {
		return action
	}
	return filepath.Join(c.dir, action)
}

// HookActions returns the scripts attached to event, without the on_ prefix.
func (c *Configuration) HookActions(event string) []string {
	var out []string
	for _, hook := range c.Hooks["on_"+event] {
		out = append(out, c.HookPath(hook.Action))
	}
	return out
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration rooted at dir, used when the
// directory hasn't been initialized.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.dir = dir
	out.configFs = afero.NewBasePathFs(afero.NewOsFs(), dir)
	return out
}
