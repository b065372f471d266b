package browser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

const autoconfig = `// Managed by ezix. Local changes are overwritten.
pref("general.config.filename", "mozilla.cfg");
pref("general.config.obscure_value", 0);
`

const cfgHeader = "// Managed by ezix. The first line of this file is ignored.\n"

// RenderPolicies renders policies.json. Extra entries override typed fields
// with the same name.
func RenderPolicies(p Policies) ([]byte, error) {
	m := make(map[string]any)
	set := func(name string, v *bool) {
		if v != nil {
			m[name] = *v
		}
	}
	set("DisableAppUpdate", p.DisableAppUpdate)
	set("BackgroundAppUpdate", p.BackgroundAppUpdate)
	set("DontCheckDefaultBrowser", p.DontCheckDefaultBrowser)
	set("NoDefaultBookmarks", p.NoDefaultBookmarks)
	for k, v := range p.Extra {
		m[k] = v
	}

	out, err := json.MarshalIndent(map[string]any{"policies": m}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode policies: %w", err)
	}
	return append(out, '\n'), nil
}

// RenderAutoconfig renders defaults/pref/autoconfig.js, which points the
// browser at mozilla.cfg
func RenderAutoconfig() []byte {
	return []byte(autoconfig)
}

// RenderConfig renders mozilla.cfg with one lockPref per preference: typed
// fields first, then extras in declaration order
func RenderConfig(p Prefs) ([]byte, error) {
	var prefs []Pref
	if p.AppUpdateAuto != nil {
		prefs = append(prefs, Pref{Name: "app.update.auto", Value: *p.AppUpdateAuto})
	}
	if p.AppUpdateEnabled != nil {
		prefs = append(prefs, Pref{Name: "app.update.enabled", Value: *p.AppUpdateEnabled})
	}
	if p.CheckDefaultBrowser != nil {
		prefs = append(prefs, Pref{Name: "browser.shell.checkDefaultBrowser", Value: *p.CheckDefaultBrowser})
	}
	if p.StartupHomepage != nil {
		prefs = append(prefs, Pref{Name: "browser.startup.homepage", Value: *p.StartupHomepage})
	}
	if p.StartupPage != nil {
		prefs = append(prefs, Pref{Name: "browser.startup.page", Value: *p.StartupPage})
	}
	prefs = append(prefs, p.Extra...)

	var b bytes.Buffer
	b.WriteString(cfgHeader)
	for _, pref := range prefs {
		name, err := json.Marshal(pref.Name)
		if err != nil {
			return nil, err
		}
		value, err := prefValue(pref.Value)
		if err != nil {
			return nil, fmt.Errorf("pref %s: %w", pref.Name, err)
		}
		fmt.Fprintf(&b, "lockPref(%s, %s);\n", name, value)
	}
	return b.Bytes(), nil
}

// prefValue renders a bool, string or integer as a JavaScript literal
func prefValue(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		return fmt.Sprintf("%t", x), nil
	case string:
		s, err := json.Marshal(x)
		return string(s), err
	case int:
		return fmt.Sprintf("%d", x), nil
	case int64:
		return fmt.Sprintf("%d", x), nil
	case uint64:
		return fmt.Sprintf("%d", x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("unsupported value %v: prefs hold integers only", x)
		}
		return fmt.Sprintf("%d", int64(x)), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
