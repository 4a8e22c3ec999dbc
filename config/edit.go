package config

import (
	"errors"
	"fmt"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/color"
	"github.com/vres-cli/vres/style"
)

// ErrUnknownKey is returned for keys that are not registered in Default.
var ErrUnknownKey = errors.New("unknown key")

// Lookup returns the registered field for k. Unknown keys yield ErrUnknownKey
// together with the closest registered key.
func Lookup(k string) (Field, error) {
	if field, ok := Default[k]; ok {
		return field, nil
	}

	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})

	return Field{}, fmt.Errorf(
		"%w %s, did you mean %s?",
		ErrUnknownKey,
		style.Fg(color.Red)(k),
		style.Fg(color.Yellow)(closest),
	)
}

// Parse converts raw command line values into the type of the field's default.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value for %s", f.Key)
	}

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %s", f.Key, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %s", f.Key, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", f.Key)
	}
}

// Set stores value under k and persists the configuration file.
func Set(k string, value any) error {
	if _, err := Lookup(k); err != nil {
		return err
	}

	viper.Set(k, value)
	return write()
}

// Reset restores the given keys to their defaults, or every key when none is given.
func Reset(keys ...string) error {
	if len(keys) == 0 {
		keys = lo.Keys(Default)
	}

	for _, k := range keys {
		field, err := Lookup(k)
		if err != nil {
			return err
		}
		viper.Set(k, field.Value)
	}

	return write()
}

// write saves to the existing config file, creating it on first use.
func write() error {
	err := viper.WriteConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}

	return err
}
