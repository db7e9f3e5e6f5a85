package ir

import (
	"sort"

	spirv "github.com/gogpu/spirv"
)

// AddCapability declares a capability together with everything it
// implies. When extension inference is on, the extension the capability
// needs is declared as well.
func (m *Module) AddCapability(c spirv.Capability) {
	for _, implied := range c.Implied() {
		m.AddCapability(implied)
	}
	if _, ok := m.caps[c]; ok {
		return
	}
	if m.autoAddExtensions {
		if ext := c.RequiredExtension(); ext != spirv.ExtensionNone {
			m.AddExtension(ext)
		}
	}
	m.caps[c] = struct{}{}
}

// AddCapabilityInternal declares a capability only when capability
// inference is on, without extension inference. Decoders use it for
// requirements discovered mid-parse.
func (m *Module) AddCapabilityInternal(c spirv.Capability) {
	if !m.autoAddCapability {
		return
	}
	for _, implied := range c.Implied() {
		m.AddCapabilityInternal(implied)
	}
	m.caps[c] = struct{}{}
}

// HasCapability reports whether a capability has been declared
// unconditionally.
func (m *Module) HasCapability(c spirv.Capability) bool {
	_, ok := m.caps[c]
	return ok
}

// EraseCapability removes an unconditional capability declaration.
func (m *Module) EraseCapability(c spirv.Capability) {
	delete(m.caps, c)
}

// Capabilities returns the declared capabilities in ascending value
// order.
func (m *Module) Capabilities() []spirv.Capability {
	caps := make([]spirv.Capability, 0, len(m.caps))
	for c := range m.caps {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// AddConditionalCapability declares a capability guarded by a condition
// id. Extension inference cannot see through conditions, so it must be
// off.
func (m *Module) AddConditionalCapability(cond spirv.ID, c spirv.Capability) {
	if m.autoAddExtensions {
		panic("ir: conditional capabilities require extension inference to be off")
	}
	m.condCaps[condCap{Cond: cond, Cap: c}] = struct{}{}
}

// EraseConditionalCapability removes a conditional capability
// declaration without resolving its condition.
func (m *Module) EraseConditionalCapability(cond spirv.ID, c spirv.Capability) {
	delete(m.condCaps, condCap{Cond: cond, Cap: c})
}

// SpecializeConditionalCapabilities resolves every conditional
// capability guarded by cond: kept ones become unconditional, the rest
// are dropped.
func (m *Module) SpecializeConditionalCapabilities(cond spirv.ID, keep bool) {
	for key := range m.condCaps {
		if key.Cond != cond {
			continue
		}
		delete(m.condCaps, key)
		if keep {
			m.AddCapabilityInternal(key.Cap)
		}
	}
}

// AddExtension declares an extension. The policy's allow-list gates the
// declaration; a denied extension records an error and invalidates the
// module. Declaring an extension also declares the one it builds on,
// when there is one.
func (m *Module) AddExtension(ext spirv.Extension) {
	name := ext.String()
	if !m.errs.checkf(m.policy.ExtensionAllowed(ext), ErrRequiresExtension,
		"extension %s is not allowed", name) {
		m.valid = false
		return
	}
	m.exts[name] = struct{}{}
	if imp := ext.ImpliedExtension(); imp != spirv.ExtensionNone {
		m.exts[imp.String()] = struct{}{}
	}
}

// HasExtension reports whether an extension has been declared
// unconditionally.
func (m *Module) HasExtension(ext spirv.Extension) bool {
	_, ok := m.exts[ext.String()]
	return ok
}

// ExtensionNames returns the declared extension names sorted.
func (m *Module) ExtensionNames() []string {
	names := make([]string, 0, len(m.exts))
	for n := range m.exts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CheckExtension records (code, msg) unless the policy allows ext, and
// reports the outcome. Callers gate optional features on it.
func (m *Module) CheckExtension(ext spirv.Extension, code ErrorCode, msg string) bool {
	if !m.errs.check(m.policy.ExtensionAllowed(ext), code, msg) {
		m.valid = false
		return false
	}
	return true
}

// AddConditionalExtension declares an extension guarded by a condition
// id. The policy allow-list applies to conditional declarations too.
func (m *Module) AddConditionalExtension(cond spirv.ID, ext spirv.Extension) {
	if !m.errs.checkf(m.policy.ExtensionAllowed(ext), ErrRequiresExtension,
		"extension %s is not allowed", ext.String()) {
		m.valid = false
		return
	}
	m.condExts[condExt{Cond: cond, Ext: ext}] = struct{}{}
}

// SpecializeConditionalExtensions resolves every conditional extension
// guarded by cond: kept ones become unconditional, the rest are
// dropped.
func (m *Module) SpecializeConditionalExtensions(cond spirv.ID, keep bool) {
	for key := range m.condExts {
		if key.Cond != cond {
			continue
		}
		delete(m.condExts, key)
		if keep {
			m.exts[key.Ext.String()] = struct{}{}
		}
	}
}

func (m *Module) sortedCondCaps() []condCap {
	keys := make([]condCap, 0, len(m.condCaps))
	for k := range m.condCaps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Cond != keys[j].Cond {
			return keys[i].Cond < keys[j].Cond
		}
		return keys[i].Cap < keys[j].Cap
	})
	return keys
}

func (m *Module) sortedCondExts() []condExt {
	keys := make([]condExt, 0, len(m.condExts))
	for k := range m.condExts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Cond != keys[j].Cond {
			return keys[i].Cond < keys[j].Cond
		}
		return keys[i].Ext < keys[j].Ext
	})
	return keys
}
