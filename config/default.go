// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/color"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vres + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes both the current and the default value.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.ResolverTimeout, 15, "Per-request timeout in seconds for every resolution stage")
	register(key.ResolverUserAgent, constant.UserAgent, "User-Agent header sent to hosting sites")
	register(key.ResolverTLSFingerprint, false, "Mimic a Chrome TLS client hello when connecting to hosting sites")
	register(key.ResolverRateLimit, 0, "Maximum requests per second for a single client.\n0 disables throttling")
	register(key.ResolverConcurrency, 4, "Number of pages resolved in parallel in inline mode")
	register(key.VideaBaseURL, "https://videa.hu", "Origin of the videa host, used for the manifest endpoint")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
