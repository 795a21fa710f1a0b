// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwconf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Section and key holding the PSID of the adapter.
const (
	AdapterSection = "ADAPTER"
	PSIDKey        = "PSID"
)

// MissingKeyError means a required section or key is absent.
type MissingKeyError struct {
	Section string
	Key     string
}

func (err *MissingKeyError) Error() string {
	return fmt.Sprintf("configuration has no %s key in section [%s]", err.Key, err.Section)
}

// Config is a parsed firmware configuration.
type Config struct {
	// Text is the configuration as it is stored in the image.
	Text []byte
	// PSID is ADAPTER.PSID.
	PSID string

	v *viper.Viper
}

// Parse parses an INI configuration. The ADAPTER section must declare a
// non-empty PSID.
func Parse(text []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("ini")
	if err := v.ReadConfig(bytes.NewReader(text)); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	c := &Config{Text: text, v: v}
	psid, ok := c.Get(AdapterSection, PSIDKey)
	if !ok || psid == "" {
		return nil, &MissingKeyError{Section: AdapterSection, Key: PSIDKey}
	}
	c.PSID = psid
	return c, nil
}

// Get returns the value of key in section. Lookups are case-insensitive.
func (c *Config) Get(section, key string) (string, bool) {
	k := strings.ToLower(section) + "." + strings.ToLower(key)
	if !c.v.IsSet(k) {
		return "", false
	}
	return strings.TrimSpace(c.v.GetString(k)), true
}

// Sections returns the section names, lower-cased.
func (c *Config) Sections() []string {
	var names []string
	for k, v := range c.v.AllSettings() {
		if _, ok := v.(map[string]interface{}); ok {
			names = append(names, k)
		}
	}
	return names
}
