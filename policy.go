package spirv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Policy bounds what a module may use: the maximum SPIR-V version and the
// set of extensions a producer or input is allowed to request. It is fixed
// for a module's lifetime once the module is constructed with it.
type Policy struct {
	MaxVersion Version
	allowAll   bool
	allowed    map[Extension]bool
}

// DefaultPolicy allows the newest known version and no extensions, the
// conservative stance for emitting portable modules.
func DefaultPolicy() Policy {
	return Policy{MaxVersion: Version1_6}
}

// PermissivePolicy allows every known version and extension. Used by the
// format converters, which must accept whatever the input uses.
func PermissivePolicy() Policy {
	p := Policy{MaxVersion: Version1_6}
	p.allowAll = true
	return p
}

// Allow marks an extension as usable. Explicit entries override allowAll
// denials made with Deny.
func (p *Policy) Allow(ext Extension) {
	if p.allowed == nil {
		p.allowed = make(map[Extension]bool)
	}
	p.allowed[ext] = true
}

// Deny marks an extension as unusable even under a permissive policy.
func (p *Policy) Deny(ext Extension) {
	if p.allowed == nil {
		p.allowed = make(map[Extension]bool)
	}
	p.allowed[ext] = false
}

// ExtensionAllowed reports whether the policy permits ext.
func (p Policy) ExtensionAllowed(ext Extension) bool {
	if v, ok := p.allowed[ext]; ok {
		return v
	}
	return p.allowAll
}

// VersionAllowed reports whether the policy permits v.
func (p Policy) VersionAllowed(v Version) bool {
	return v.AtMost(p.MaxVersion)
}

// policyFile is the TOML schema of a policy file:
//
//	max-version = "1.4"
//	allow-all-extensions = false
//
//	[extensions]
//	"SPV_EXT_shader_atomic_float_add" = true
type policyFile struct {
	MaxVersion         string          `toml:"max-version"`
	AllowAllExtensions bool            `toml:"allow-all-extensions"`
	Extensions         map[string]bool `toml:"extensions"`
}

// LoadPolicy reads a policy from a TOML file.
func LoadPolicy(path string) (Policy, error) {
	var f policyFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return policyFromFile(f, path)
}

// ParsePolicy reads a policy from TOML text.
func ParsePolicy(data string) (Policy, error) {
	var f policyFile
	if _, err := toml.Decode(data, &f); err != nil {
		return Policy{}, fmt.Errorf("policy: %w", err)
	}
	return policyFromFile(f, "policy")
}

func policyFromFile(f policyFile, where string) (Policy, error) {
	p := DefaultPolicy()
	p.allowAll = f.AllowAllExtensions
	if f.MaxVersion != "" {
		v, err := parseVersion(f.MaxVersion)
		if err != nil {
			return Policy{}, fmt.Errorf("%s: %w", where, err)
		}
		p.MaxVersion = v
	}
	for name, ok := range f.Extensions {
		ext, known := ExtensionFromName(name)
		if !known {
			return Policy{}, fmt.Errorf("%s: unknown extension %q", where, name)
		}
		if ok {
			p.Allow(ext)
		} else {
			p.Deny(ext)
		}
	}
	return p, nil
}

func parseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	ma, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	mi, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	v := Version{Major: uint8(ma), Minor: uint8(mi)}
	if !v.Known() {
		return Version{}, fmt.Errorf("unknown SPIR-V version %q", s)
	}
	return v, nil
}
