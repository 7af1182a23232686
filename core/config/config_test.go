package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate())
}

func TestLoadFs(t *testing.T) {
	cases := map[string]struct {
		config  string
		wantErr string
	}{
		"minimal": {
			config: "prompt: '$ '\ncolor: never\n",
		},
		"hooks": {
			config: "color: auto\nhooks:\n  on_change_dir:\n  - action: hooks/git.my\n",
		},
		"unknown field": {
			config:  "color: auto\nmotd: hi\n",
			wantErr: `unknown field "motd"`,
		},
		"bad color": {
			config:  "color: rainbow\n",
			wantErr: "Configuration.color",
		},
		"negative history": {
			config:  "color: auto\nhistory_size: -1\n",
			wantErr: "Configuration.history_size",
		},
		"hook without prefix": {
			config:  "color: auto\nhooks:\n  change_dir:\n  - action: x.my\n",
			wantErr: "startswith",
		},
		"hook without action": {
			config:  "color: auto\nhooks:\n  on_change_dir:\n  - {}\n",
			wantErr: "Configuration.hooks[on_change_dir][0].action",
		},
		"launcher without dot": {
			config:  "color: auto\nlaunchers:\n  py: python3\n",
			wantErr: "startswith",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.Nil(t, afero.WriteFile(fs, ConfigurationName, []byte(tc.config), 0600))

			cfg, err := LoadFs(fs, "/home/me/.shmy")

			if tc.wantErr != "" {
				require.NotNil(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, "/home/me/.shmy", cfg.Dir())
		})
	}
}

func TestConfiguration_HookActions(t *testing.T) {
	cfg := &Configuration{
		dir: "/cfg",
		Hooks: map[string][]Hook{
			"on_change_dir": {{Action: "hooks/a.my"}, {Action: "/abs/b.my"}},
		},
	}

	assert.Equal(t, []string{"/cfg/hooks/a.my", "/abs/b.my"}, cfg.HookActions("change_dir"))
	assert.Empty(t, cfg.HookActions("external_command"))
}
