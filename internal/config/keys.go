package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/felixgeelhaar/maison/internal/errors"
)

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func durationField(ptr func(*Config) *Duration) field {
	return field{
		get: func(c *Config) string { return ptr(c).String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*ptr(c) = Duration(d)
			return nil
		},
	}
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

var fields = map[string]field{
	"api.base_url":     stringField(func(c *Config) *string { return &c.API.BaseURL }),
	"api.timeout":      durationField(func(c *Config) *Duration { return &c.API.Timeout }),
	"storage.data_dir": stringField(func(c *Config) *string { return &c.Storage.DataDir }),
	"search.debounce":  durationField(func(c *Config) *Duration { return &c.Search.Debounce }),
	"logging.level":    stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":   stringField(func(c *Config) *string { return &c.Logging.Format }),
	"defaults.format":  stringField(func(c *Config) *string { return &c.Defaults.Format }),
	"defaults.no_color": {
		get: func(c *Config) string { return strconv.FormatBool(c.Defaults.NoColor) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Defaults.NoColor = b
			return nil
		},
	},
	"auth.token_passphrase": stringField(func(c *Config) *string { return &c.Auth.TokenPassphrase }),
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupField(key string) (field, error) {
	f, ok := fields[key]
	if !ok {
		return field{}, errors.New(errors.ErrCodeConfigKey, "unknown configuration key: "+key).
			WithSuggestion(fmt.Sprintf("Known keys: %v", Keys()))
	}
	return f, nil
}

// Get returns the value of a dotted key such as "api.base_url".
func (c *Config) Get(key string) (string, error) {
	f, err := lookupField(key)
	if err != nil {
		return "", err
	}
	return f.get(c), nil
}

// Set assigns a dotted key and validates the result. On failure c is left
// unchanged.
func (c *Config) Set(key, value string) error {
	f, err := lookupField(key)
	if err != nil {
		return err
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid value for %s", key), err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
